package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	catering "github.com/angelmondragon/catering-backend/internal/caterings"
	product "github.com/angelmondragon/catering-backend/internal/products"
	"github.com/angelmondragon/catering-backend/internal/quote"
	"github.com/angelmondragon/catering-backend/internal/seed"
	"github.com/angelmondragon/catering-backend/internal/users"
	"github.com/angelmondragon/catering-backend/pkg/config"
	"github.com/angelmondragon/catering-backend/pkg/db"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/joho/godotenv"
)

const usage = `usage: admin <command> [flags]

commands:
  set-password    create an admin or replace its password
  check-password  verify a password against the stored hash
  seed            import a YAML catalog of products and packages`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	logg := logger.New(logger.Options{ServiceName: "admin"})
	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": command,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	std := stdio{in: os.Stdin, out: os.Stdout}

	switch command {
	case "set-password", "check-password":
		creds, err := users.NewCredentials(users.NewRepository(dbClient.DB()), cfg.Password)
		requireResource(ctx, logg, "credentials", err)
		if command == "set-password" {
			err = runSetPassword(ctx, creds, std, args)
		} else {
			err = runCheckPassword(ctx, creds, std, args)
		}
		exitOnError(ctx, logg, command, err)

	case "seed":
		importer, err := newImporter(cfg, logg, dbClient)
		requireResource(ctx, logg, "seed importer", err)
		exitOnError(ctx, logg, command, runSeed(ctx, importer, std, args))

	default:
		fmt.Fprintln(os.Stderr, "unknown command:", command)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func newImporter(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (*seed.Importer, error) {
	productRepo := product.NewRepository(dbClient.DB())
	products, err := product.NewService(productRepo, logg)
	if err != nil {
		return nil, err
	}
	pricer := quote.NewPricer(logg, nil)
	caterings, err := catering.NewService(catering.ServiceParams{
		Repo:      catering.NewRepository(dbClient.DB()),
		Products:  productRepo,
		Tx:        dbClient,
		Pricer:    pricer,
		Formatter: quote.NewFormatter(pricer, cfg.Quote.CurrencySymbol),
		Logger:    logg,
	})
	if err != nil {
		return nil, err
	}
	return seed.NewImporter(products, caterings, logg)
}

func exitOnError(ctx context.Context, logg *logger.Logger, command string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, errMismatch) {
		os.Exit(1)
	}
	logg.Error(ctx, fmt.Sprintf("%s failed", command), err)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
