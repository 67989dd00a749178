package product

import (
	"encoding/json"
	"testing"
)

func TestProductRequestDefaults(t *testing.T) {
	var req ProductRequest
	if err := json.Unmarshal([]byte(`{"name":"Torta","price_per_weight_unit":"25.50"}`), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	in := req.ToInput()

	if !in.MinOrderQuantity.Equal(one) || !in.OrderIncrement.Equal(one) {
		t.Fatalf("expected quantity defaults of 1, got min=%s inc=%s", in.MinOrderQuantity, in.OrderIncrement)
	}
	if !in.IsVisible {
		t.Fatal("expected products to default to visible")
	}
	if in.IsSoldByPiece || in.AllowMultiple || in.ShowServings || in.IsGlutenFree || in.IsLactoseFree {
		t.Fatalf("expected flags to default to false: %+v", in)
	}
	if in.PricePerPiece.Valid || in.MaxOrderQuantity.Valid || in.PiecesPerWeightUnit.Valid {
		t.Fatalf("expected nullable decimals to stay null: %+v", in)
	}
	if in.PricePerWeightUnit.String() != "25.5" {
		t.Fatalf("unexpected weight price %s", in.PricePerWeightUnit)
	}
}

func TestProductRequestKeepsExplicitZeroes(t *testing.T) {
	var req ProductRequest
	body := `{"name":"Vassoio","order_increment":0,"min_order_quantity":2,"is_visible":false,"max_order_quantity":2}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	in := req.ToInput()

	if !in.OrderIncrement.IsZero() {
		t.Fatalf("explicit zero increment must survive, got %s", in.OrderIncrement)
	}
	if in.IsVisible {
		t.Fatal("explicit false visibility must survive")
	}
	if !in.MaxOrderQuantity.Valid || in.MaxOrderQuantity.Decimal.String() != "2" {
		t.Fatalf("unexpected max %+v", in.MaxOrderQuantity)
	}
}
