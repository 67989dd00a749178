package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/catering-backend/internal/quote"
	"github.com/angelmondragon/catering-backend/pkg/db"
	"github.com/angelmondragon/catering-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog reads for the storefront and product management
// for the admin. It also serves as the quote catalog.
type Service interface {
	List(ctx context.Context, includeHidden bool) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID, includeHidden bool) (*ProductDTO, error)
	Create(ctx context.Context, input ProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Snapshot(ctx context.Context, id uuid.UUID) (quote.Snapshot, error)
}

// ProductInput is a fully resolved product payload. Optional request fields
// have already been replaced by their defaults.
type ProductInput struct {
	Name                string
	Description         *string
	Images              []string
	PricePerWeightUnit  decimal.Decimal
	PricePerPiece       decimal.NullDecimal
	PiecesPerWeightUnit decimal.NullDecimal
	IsSoldByPiece       bool
	MinOrderQuantity    decimal.Decimal
	OrderIncrement      decimal.Decimal
	MaxOrderQuantity    decimal.NullDecimal
	AllowMultiple       bool
	IsVisible           bool
	ShowServings        bool
	ServingsPerUnit     decimal.NullDecimal
	IsGlutenFree        bool
	IsLactoseFree       bool
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context, includeHidden bool) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, includeHidden)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewProductDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, includeHidden bool) (*ProductDTO, error) {
	product, err := s.load(ctx, id, includeHidden)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// Snapshot resolves a storefront product for the quote cart. Hidden products
// are reported as missing.
func (s *service) Snapshot(ctx context.Context, id uuid.UUID) (quote.Snapshot, error) {
	product, err := s.load(ctx, id, false)
	if err != nil {
		return quote.Snapshot{}, err
	}
	return SnapshotOf(product), nil
}

func (s *service) Create(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	product := &models.Product{}
	applyInput(product, input)

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"product_id": created.ID.String(), "name": created.Name})
	s.logg.Info(logCtx, "product.created")
	return NewProductDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	product, err := s.load(ctx, id, true)
	if err != nil {
		return nil, err
	}
	applyInput(product, input)

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	s.logg.Info(s.logg.WithField(ctx, "product_id", id.String()), "product.updated")
	return NewProductDTO(updated), nil
}

// Delete removes a product that no package references.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	refs, err := s.repo.CountPackageReferences(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count package references")
	}
	if refs > 0 {
		return referencedError(id, refs)
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return referencedError(id, 0)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	s.logg.Info(s.logg.WithField(ctx, "product_id", id.String()), "product.deleted")
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID, includeHidden bool) (*models.Product, error) {
	var (
		product *models.Product
		err     error
	)
	if includeHidden {
		product, err = s.repo.FindByID(ctx, id)
	} else {
		product, err = s.repo.FindVisibleByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func referencedError(id uuid.UUID, refs int64) error {
	details := map[string]any{"product_id": id.String()}
	if refs > 0 {
		details["package_items"] = refs
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "product is used by a catering package").WithDetails(details)
}

func applyInput(product *models.Product, input ProductInput) {
	product.Name = input.Name
	product.Description = input.Description
	product.Images = append([]string{}, input.Images...)
	product.PricePerWeightUnit = input.PricePerWeightUnit
	product.PricePerPiece = input.PricePerPiece
	product.PiecesPerWeightUnit = input.PiecesPerWeightUnit
	product.IsSoldByPiece = input.IsSoldByPiece
	product.MinOrderQuantity = input.MinOrderQuantity
	product.OrderIncrement = input.OrderIncrement
	product.MaxOrderQuantity = input.MaxOrderQuantity
	product.AllowMultiple = input.AllowMultiple
	product.IsVisible = input.IsVisible
	product.ShowServings = input.ShowServings
	product.ServingsPerUnit = input.ServingsPerUnit
	product.IsGlutenFree = input.IsGlutenFree
	product.IsLactoseFree = input.IsLactoseFree
}

// validateInput trims free text and checks the cross-field rules the
// request validator cannot express.
func validateInput(input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			input.Description = nil
		} else {
			input.Description = &trimmed
		}
	}
	images := make([]string, 0, len(input.Images))
	for _, img := range input.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	input.Images = images

	details := map[string]string{}
	if input.Name == "" {
		details["name"] = "is required"
	}
	if input.PricePerWeightUnit.IsNegative() {
		details["price_per_weight_unit"] = "must be at least 0"
	}
	if input.IsSoldByPiece && !input.PricePerPiece.Valid {
		details["price_per_piece"] = "is required when the product is sold by piece"
	}
	if input.PricePerPiece.Valid && input.PricePerPiece.Decimal.IsNegative() {
		details["price_per_piece"] = "must be at least 0"
	}
	if input.PiecesPerWeightUnit.Valid && !input.PiecesPerWeightUnit.Decimal.IsPositive() {
		details["pieces_per_weight_unit"] = "must be greater than 0"
	}
	if input.MinOrderQuantity.IsNegative() {
		details["min_order_quantity"] = "must be at least 0"
	}
	if input.OrderIncrement.IsNegative() {
		details["order_increment"] = "must be at least 0"
	}
	if input.MaxOrderQuantity.Valid && input.MaxOrderQuantity.Decimal.LessThan(input.MinOrderQuantity) {
		details["max_order_quantity"] = "must be at least min_order_quantity"
	}
	if input.ServingsPerUnit.Valid && input.ServingsPerUnit.Decimal.IsNegative() {
		details["servings_per_unit"] = "must be at least 0"
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return nil
}
