package quote

import (
	"io"
	"testing"

	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func nd(value string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(value))
}

func weightProduct(name, pricePerKg string) Snapshot {
	return Snapshot{
		ProductID:          uuid.New(),
		Name:               name,
		PricePerWeightUnit: d(pricePerKg),
		MinOrderQuantity:   d("1"),
		OrderIncrement:     d("1"),
	}
}

func pieceProduct(name, pricePerPiece string) Snapshot {
	s := weightProduct(name, "0")
	s.IsSoldByPiece = true
	s.PricePerPiece = nd(pricePerPiece)
	return s
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "quote-test", Level: zerolog.Disabled, Output: io.Discard})
}

func testFormatter(t *testing.T) *Formatter {
	t.Helper()
	return NewFormatter(NewPricer(testLogger(), nil), "")
}
