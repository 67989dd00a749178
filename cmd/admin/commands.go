package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/angelmondragon/catering-backend/internal/seed"
	"github.com/angelmondragon/catering-backend/pkg/db/models"
	"github.com/angelmondragon/catering-backend/pkg/security"
)

const generatedPasswordLength = 20

type credentialStore interface {
	SetPassword(ctx context.Context, username, password string) (*models.User, bool, error)
	CheckPassword(ctx context.Context, username, password string) (bool, error)
}

type catalogImporter interface {
	Import(ctx context.Context, catalog *seed.Catalog) (seed.Result, error)
}

// errMismatch makes check-password exit non-zero without logging an error.
var errMismatch = errors.New("password does not match")

type stdio struct {
	in  io.Reader
	out io.Writer
}

// runSetPassword handles `set-password -username NAME [-password P | -generate]`.
// Without either flag the password is read from the first line of stdin.
func runSetPassword(ctx context.Context, store credentialStore, std stdio, args []string) error {
	fs := flag.NewFlagSet("set-password", flag.ContinueOnError)
	fs.SetOutput(std.out)
	username := fs.String("username", "", "admin username")
	password := fs.String("password", "", "new password (read from stdin when empty)")
	generate := fs.Bool("generate", false, "generate a random password and print it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*username) == "" {
		return fmt.Errorf("missing -username")
	}

	pw := *password
	switch {
	case *generate:
		generated, err := security.GeneratePassword(generatedPasswordLength)
		if err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
		pw = generated
	case pw == "":
		read, err := readLine(std.in)
		if err != nil {
			return err
		}
		pw = read
	}

	user, created, err := store.SetPassword(ctx, *username, pw)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(std.out, "created user %s (%s)\n", user.Username, user.ID)
	} else {
		fmt.Fprintf(std.out, "updated password for %s\n", user.Username)
	}
	if *generate {
		fmt.Fprintf(std.out, "password: %s\n", pw)
	}
	return nil
}

// runCheckPassword handles `check-password -username NAME [-password P]`.
func runCheckPassword(ctx context.Context, store credentialStore, std stdio, args []string) error {
	fs := flag.NewFlagSet("check-password", flag.ContinueOnError)
	fs.SetOutput(std.out)
	username := fs.String("username", "", "admin username")
	password := fs.String("password", "", "password to verify (read from stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*username) == "" {
		return fmt.Errorf("missing -username")
	}

	pw := *password
	if pw == "" {
		read, err := readLine(std.in)
		if err != nil {
			return err
		}
		pw = read
	}

	ok, err := store.CheckPassword(ctx, *username, pw)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(std.out, "password does NOT match")
		return errMismatch
	}
	fmt.Fprintln(std.out, "password matches")
	return nil
}

// runSeed handles `seed -file catalog.yaml`.
func runSeed(ctx context.Context, importer catalogImporter, std stdio, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(std.out)
	file := fs.String("file", "", "YAML catalog to import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("missing -file")
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	catalog, err := seed.Load(f)
	if err != nil {
		return err
	}
	res, err := importer.Import(ctx, catalog)
	if err != nil {
		return err
	}
	fmt.Fprintf(std.out, "products: %d created, %d updated\n", res.ProductsCreated, res.ProductsUpdated)
	fmt.Fprintf(std.out, "caterings: %d created, %d updated\n", res.CateringsCreated, res.CateringsUpdated)
	return nil
}

func readLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", fmt.Errorf("missing password on stdin")
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}
