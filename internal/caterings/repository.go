package catering

import (
	"context"

	"github.com/angelmondragon/catering-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists catering packages and their items.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Product")
}

// List returns every package in display order with items and products.
func (r *Repository) List(ctx context.Context) ([]models.Catering, error) {
	var rows []models.Catering
	err := r.withItems(ctx).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Catering, error) {
	var row models.Catering
	if err := r.withItems(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts the package together with its items.
func (r *Repository) Create(ctx context.Context, c *models.Catering) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// UpdateColumns saves the package row without touching its items.
func (r *Repository) UpdateColumns(ctx context.Context, c *models.Catering) error {
	return r.db.WithContext(ctx).Omit("Items").Save(c).Error
}

// ReplaceItems drops the package's items and inserts the given ones.
func (r *Repository) ReplaceItems(ctx context.Context, cateringID uuid.UUID, items []models.CateringItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("catering_id = ?", cateringID).Delete(&models.CateringItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].CateringID = cateringID
	}
	return tx.Omit("Product").Create(&items).Error
}

// Delete removes the package and its items.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("catering_id = ?", id).Delete(&models.CateringItem{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id = ?", id).Delete(&models.Catering{})
	return res.RowsAffected, res.Error
}

func (r *Repository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Catering{}).
		Pluck("id", &ids).
		Error
	return ids, err
}

func (r *Repository) UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	return r.db.WithContext(ctx).
		Model(&models.Catering{}).
		Where("id = ?", id).
		Update("sort_order", sortOrder).
		Error
}

// SortOrderTaken reports whether a package other than exclude already sits at
// sortOrder.
func (r *Repository) SortOrderTaken(ctx context.Context, sortOrder int, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Catering{}).
		Where("sort_order = ? AND id <> ?", sortOrder, exclude).
		Count(&count).
		Error
	return count > 0, err
}

// NextSortOrder returns one past the highest sort order in use.
func (r *Repository) NextSortOrder(ctx context.Context) (int, error) {
	var max int
	row := r.db.WithContext(ctx).
		Model(&models.Catering{}).
		Select("COALESCE(MAX(sort_order), -1)").
		Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	return max + 1, nil
}
