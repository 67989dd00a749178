package catering

import (
	"context"
	"errors"
	"fmt"
	"strings"

	product "github.com/angelmondragon/catering-backend/internal/products"
	"github.com/angelmondragon/catering-backend/internal/quote"
	"github.com/angelmondragon/catering-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// Service manages catering packages.
type Service interface {
	List(ctx context.Context) ([]CateringDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CateringDTO, error)
	Package(ctx context.Context, id uuid.UUID) (quote.Package, error)
	Create(ctx context.Context, input CateringInput) (*CateringDTO, error)
	Update(ctx context.Context, id uuid.UUID, input CateringInput) (*CateringDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, items []ReorderItem) error
	SuggestedPrice(ctx context.Context, items []ItemInput) (*SuggestedPriceDTO, error)
}

// CateringInput is a resolved package payload. A nil SortOrder appends the
// package after the existing ones.
type CateringInput struct {
	Name               string
	Description        *string
	Images             []string
	TotalPrice         decimal.Decimal
	DiscountPercentage decimal.Decimal
	IsGlutenFree       bool
	IsLactoseFree      bool
	SortOrder          *int
	Items              []ItemInput
}

type ItemInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

type ReorderItem struct {
	ID        uuid.UUID
	SortOrder int
}

type productLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     *Repository
	products productLookup
	tx       txRunner
	pricer   *quote.Pricer
	format   *quote.Formatter
	logg     *logger.Logger
}

type ServiceParams struct {
	Repo      *Repository
	Products  productLookup
	Tx        txRunner
	Pricer    *quote.Pricer
	Formatter *quote.Formatter
	Logger    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catering repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Pricer == nil || params.Formatter == nil {
		return nil, fmt.Errorf("pricer and formatter required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		tx:       params.Tx,
		pricer:   params.Pricer,
		format:   params.Formatter,
		logg:     params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context) ([]CateringDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list caterings")
	}
	out := make([]CateringDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newCateringDTO(ctx, s.pricer, &rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CateringDTO, error) {
	row, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := newCateringDTO(ctx, s.pricer, row)
	return &dto, nil
}

func (s *service) Package(ctx context.Context, id uuid.UUID) (quote.Package, error) {
	row, err := s.load(ctx, s.repo, id)
	if err != nil {
		return quote.Package{}, err
	}
	return ToPackage(row), nil
}

// Create stores the package and its items in one transaction.
func (s *service) Create(ctx context.Context, input CateringInput) (*CateringDTO, error) {
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		sortOrder := 0
		if input.SortOrder != nil {
			sortOrder = *input.SortOrder
			if err := ensureSortOrderFree(ctx, txRepo, sortOrder, uuid.Nil); err != nil {
				return err
			}
		} else {
			next, err := txRepo.NextSortOrder(ctx)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next sort order")
			}
			sortOrder = next
		}

		row := &models.Catering{SortOrder: sortOrder}
		applyInput(row, input)
		if err := txRepo.Create(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert catering")
		}
		createdID = row.ID
		return nil
	}); err != nil {
		return nil, asServiceError(err, "create catering")
	}

	s.logg.Info(s.logg.WithField(ctx, "catering_id", createdID.String()), "catering.created")
	return s.Get(ctx, createdID)
}

// Update replaces the package columns and its full item list.
func (s *service) Update(ctx context.Context, id uuid.UUID, input CateringInput) (*CateringDTO, error) {
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		row, err := s.load(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if input.SortOrder != nil && *input.SortOrder != row.SortOrder {
			if err := ensureSortOrderFree(ctx, txRepo, *input.SortOrder, id); err != nil {
				return err
			}
			row.SortOrder = *input.SortOrder
		}
		applyInput(row, input)
		items := row.Items
		row.Items = nil

		if err := txRepo.UpdateColumns(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update catering")
		}
		if err := txRepo.ReplaceItems(ctx, id, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace catering items")
		}
		return nil
	}); err != nil {
		return nil, asServiceError(err, "update catering")
	}

	s.logg.Info(s.logg.WithField(ctx, "catering_id", id.String()), "catering.updated")
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var affected int64
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).Delete(ctx, id)
		affected = n
		return err
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete catering")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "catering not found")
	}
	s.logg.Info(s.logg.WithField(ctx, "catering_id", id.String()), "catering.deleted")
	return nil
}

// Reorder renumbers every package at once. The list must name each existing
// package exactly once with distinct sort orders, otherwise nothing changes.
func (s *service) Reorder(ctx context.Context, items []ReorderItem) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "items are required")
	}
	seenIDs := make(map[uuid.UUID]struct{}, len(items))
	seenOrders := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, dup := seenIDs[item.ID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate catering id").
				WithDetails(map[string]any{"id": item.ID.String()})
		}
		if _, dup := seenOrders[item.SortOrder]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate sort order").
				WithDetails(map[string]any{"sort_order": item.SortOrder})
		}
		seenIDs[item.ID] = struct{}{}
		seenOrders[item.SortOrder] = struct{}{}
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		existing, err := txRepo.ListIDs(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list catering ids")
		}
		if len(existing) != len(items) {
			return pkgerrors.New(pkgerrors.CodeValidation, "reorder must list every catering").
				WithDetails(map[string]any{"expected": len(existing), "received": len(items)})
		}
		for _, id := range existing {
			if _, ok := seenIDs[id]; !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "reorder must list every catering").
					WithDetails(map[string]any{"missing": id.String()})
			}
		}
		for _, item := range items {
			if err := txRepo.UpdateSortOrder(ctx, item.ID, item.SortOrder); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update sort order")
			}
		}
		return nil
	}); err != nil {
		return asServiceError(err, "reorder caterings")
	}

	s.logg.Info(s.logg.WithField(ctx, "count", len(items)), "catering.reordered")
	return nil
}

// SuggestedPrice prices the items individually so admins can compare the
// package price against it.
func (s *service) SuggestedPrice(ctx context.Context, items []ItemInput) (*SuggestedPriceDTO, error) {
	products, err := s.resolveProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	lines := make([]SuggestedPriceLine, 0, len(items))
	pkgItems := make([]quote.PackageItem, 0, len(items))
	for _, item := range items {
		p := products[item.ProductID]
		pkgItem := quote.PackageItem{Product: product.SnapshotOf(&p), Quantity: item.Quantity}
		pkgItems = append(pkgItems, pkgItem)
		lines = append(lines, SuggestedPriceLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Amount:    quote.Money(s.pricer.Price(ctx, pkgItem.Product, item.Quantity).Amount),
		})
	}

	total := s.pricer.SuggestedPrice(ctx, pkgItems)
	return &SuggestedPriceDTO{
		SuggestedPrice: quote.Money(total),
		Formatted:      s.format.Amount(total),
		Items:          lines,
	}, nil
}

func (s *service) load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Catering, error) {
	row, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catering not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catering")
	}
	return row, nil
}

func (s *service) validate(ctx context.Context, input *CateringInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		input.Description = &trimmed
		if trimmed == "" {
			input.Description = nil
		}
	}

	details := map[string]string{}
	if input.Name == "" {
		details["name"] = "is required"
	}
	if input.TotalPrice.IsNegative() {
		details["total_price"] = "must be at least 0"
	}
	if input.DiscountPercentage.IsNegative() || !input.DiscountPercentage.LessThan(hundred) {
		details["discount_percentage"] = "must be between 0 and 100 (exclusive)"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid catering").WithDetails(details)
	}

	_, err := s.resolveProducts(ctx, input.Items)
	return err
}

// resolveProducts checks every item references an existing product with a
// positive quantity and returns the products keyed by id.
func (s *service) resolveProducts(ctx context.Context, items []ItemInput) (map[uuid.UUID]models.Product, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	ids := make([]uuid.UUID, 0, len(items))
	for i, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be greater than 0").
				WithDetails(map[string]any{"index": i, "product_id": item.ProductID.String()})
		}
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product").
				WithDetails(map[string]any{"product_id": id.String()})
		}
	}
	return products, nil
}

func applyInput(row *models.Catering, input CateringInput) {
	row.Name = input.Name
	row.Description = input.Description
	row.Images = append([]string{}, input.Images...)
	row.TotalPrice = input.TotalPrice
	row.DiscountPercentage = input.DiscountPercentage
	row.IsGlutenFree = input.IsGlutenFree
	row.IsLactoseFree = input.IsLactoseFree

	items := make([]models.CateringItem, 0, len(input.Items))
	for i, item := range input.Items {
		items = append(items, models.CateringItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Position:  i,
		})
	}
	row.Items = items
}

func ensureSortOrderFree(ctx context.Context, repo *Repository, sortOrder int, exclude uuid.UUID) error {
	taken, err := repo.SortOrderTaken(ctx, sortOrder, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check sort order")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "sort order already used by another catering").
			WithDetails(map[string]any{"sort_order": sortOrder})
	}
	return nil
}

func asServiceError(err error, action string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
