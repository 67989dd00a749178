package seed

import (
	"context"
	"fmt"
	"strings"

	catering "github.com/angelmondragon/catering-backend/internal/caterings"
	product "github.com/angelmondragon/catering-backend/internal/products"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/google/uuid"
)

// Result counts what an import changed.
type Result struct {
	ProductsCreated  int
	ProductsUpdated  int
	CateringsCreated int
	CateringsUpdated int
}

// Importer upserts a catalog through the product and catering services, so
// seeded rows pass the same validation as admin writes. Rows are matched
// by name, which makes re-running a seed file idempotent.
type Importer struct {
	products  product.Service
	caterings catering.Service
	logg      *logger.Logger
}

func NewImporter(products product.Service, caterings catering.Service, logg *logger.Logger) (*Importer, error) {
	if products == nil || caterings == nil {
		return nil, fmt.Errorf("product and catering services required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Importer{products: products, caterings: caterings, logg: logg}, nil
}

// Import applies products first, then packages. It is not atomic: an error
// leaves the rows imported so far in place.
func (i *Importer) Import(ctx context.Context, catalog *Catalog) (Result, error) {
	var res Result
	if catalog == nil {
		return res, nil
	}

	existing, err := i.products.List(ctx, true)
	if err != nil {
		return res, err
	}
	productIDs := make(map[string]uuid.UUID, len(existing))
	for _, p := range existing {
		productIDs[nameKey(p.Name)] = p.ID
	}

	for idx, entry := range catalog.Products {
		input := entry.request().ToInput()
		key := nameKey(entry.Name)
		if id, ok := productIDs[key]; ok {
			if _, err := i.products.Update(ctx, id, input); err != nil {
				return res, entryError(err, "products", idx, entry.Name)
			}
			res.ProductsUpdated++
			continue
		}
		created, err := i.products.Create(ctx, input)
		if err != nil {
			return res, entryError(err, "products", idx, entry.Name)
		}
		productIDs[key] = created.ID
		res.ProductsCreated++
	}

	packages, err := i.caterings.List(ctx)
	if err != nil {
		return res, err
	}
	packageIDs := make(map[string]uuid.UUID, len(packages))
	for _, c := range packages {
		packageIDs[nameKey(c.Name)] = c.ID
	}

	for idx, entry := range catalog.Caterings {
		items := make([]catering.ItemInput, 0, len(entry.Items))
		for _, item := range entry.Items {
			id, ok := productIDs[nameKey(item.Product)]
			if !ok {
				return res, pkgerrors.New(pkgerrors.CodeValidation, "unknown product in package").
					WithDetails(map[string]any{"catering": entry.Name, "product": item.Product})
			}
			items = append(items, catering.ItemInput{ProductID: id, Quantity: item.Quantity.Decimal})
		}

		input := entry.input(items)
		if id, ok := packageIDs[nameKey(entry.Name)]; ok {
			if _, err := i.caterings.Update(ctx, id, input); err != nil {
				return res, entryError(err, "caterings", idx, entry.Name)
			}
			res.CateringsUpdated++
			continue
		}
		created, err := i.caterings.Create(ctx, input)
		if err != nil {
			return res, entryError(err, "caterings", idx, entry.Name)
		}
		packageIDs[nameKey(entry.Name)] = created.ID
		res.CateringsCreated++
	}

	i.logg.Info(i.logg.WithFields(ctx, map[string]any{
		"products_created":  res.ProductsCreated,
		"products_updated":  res.ProductsUpdated,
		"caterings_created": res.CateringsCreated,
		"caterings_updated": res.CateringsUpdated,
	}), "seed.imported")
	return res, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func entryError(err error, section string, idx int, name string) error {
	return fmt.Errorf("%s[%d] %q: %w", section, idx, name, err)
}
