package product

import (
	"testing"

	"github.com/angelmondragon/catering-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, name string, visible bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:               name,
		Images:             []string{"/images/" + name + ".jpg"},
		PricePerWeightUnit: decimal.RequireFromString("24.00"),
		MinOrderQuantity:   decimal.NewFromInt(1),
		OrderIncrement:     decimal.RequireFromString("0.5"),
		IsVisible:          visible,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateTestPackage(t *testing.T, tx *gorm.DB, productID uuid.UUID) *models.Catering {
	t.Helper()
	pkg := &models.Catering{
		Name:       "Buffet",
		Images:     []string{},
		TotalPrice: decimal.NewFromInt(100),
		Items: []models.CateringItem{
			{ProductID: productID, Quantity: decimal.NewFromInt(2)},
		},
	}
	if err := tx.Create(pkg).Error; err != nil {
		t.Fatalf("create package: %v", err)
	}
	return pkg
}
