package seed

import (
	"fmt"
	"io"
	"strings"

	catering "github.com/angelmondragon/catering-backend/internal/caterings"
	product "github.com/angelmondragon/catering-backend/internal/products"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Catalog is the on-disk shape of a seed file.
type Catalog struct {
	Products  []ProductEntry  `yaml:"products"`
	Caterings []CateringEntry `yaml:"caterings"`
}

type ProductEntry struct {
	Name                string   `yaml:"name"`
	Description         *string  `yaml:"description"`
	Images              []string `yaml:"images"`
	PricePerWeightUnit  *Amount  `yaml:"price_per_weight_unit"`
	PricePerPiece       *Amount  `yaml:"price_per_piece"`
	PiecesPerWeightUnit *Amount  `yaml:"pieces_per_weight_unit"`
	IsSoldByPiece       *bool    `yaml:"is_sold_by_piece"`
	MinOrderQuantity    *Amount  `yaml:"min_order_quantity"`
	OrderIncrement      *Amount  `yaml:"order_increment"`
	MaxOrderQuantity    *Amount  `yaml:"max_order_quantity"`
	AllowMultiple       *bool    `yaml:"allow_multiple"`
	IsVisible           *bool    `yaml:"is_visible"`
	ShowServings        *bool    `yaml:"show_servings"`
	ServingsPerUnit     *Amount  `yaml:"servings_per_unit"`
	IsGlutenFree        *bool    `yaml:"is_gluten_free"`
	IsLactoseFree       *bool    `yaml:"is_lactose_free"`
}

type CateringEntry struct {
	Name               string      `yaml:"name"`
	Description        *string     `yaml:"description"`
	Images             []string    `yaml:"images"`
	TotalPrice         Amount      `yaml:"total_price"`
	DiscountPercentage *Amount     `yaml:"discount_percentage"`
	IsGlutenFree       bool        `yaml:"is_gluten_free"`
	IsLactoseFree      bool        `yaml:"is_lactose_free"`
	SortOrder          *int        `yaml:"sort_order"`
	Items              []ItemEntry `yaml:"items"`
}

// ItemEntry references a product by name, so a seed file can define a
// product and use it in a package without knowing its id.
type ItemEntry struct {
	Product  string `yaml:"product"`
	Quantity Amount `yaml:"quantity"`
}

// Amount is a decimal read from a YAML scalar. Both `12.5` and `"12.5"`
// are accepted; floats never enter the picture.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid number %q", node.Line, node.Value)
	}
	a.Decimal = d
	return nil
}

// Load decodes a seed file. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var catalog Catalog
	if err := dec.Decode(&catalog); err != nil {
		if err == io.EOF {
			return &catalog, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &catalog, nil
}

func (e ProductEntry) request() product.ProductRequest {
	return product.ProductRequest{
		Name:                e.Name,
		Description:         e.Description,
		Images:              e.Images,
		PricePerWeightUnit:  e.PricePerWeightUnit.ptr(),
		PricePerPiece:       e.PricePerPiece.ptr(),
		PiecesPerWeightUnit: e.PiecesPerWeightUnit.ptr(),
		IsSoldByPiece:       e.IsSoldByPiece,
		MinOrderQuantity:    e.MinOrderQuantity.ptr(),
		OrderIncrement:      e.OrderIncrement.ptr(),
		MaxOrderQuantity:    e.MaxOrderQuantity.ptr(),
		AllowMultiple:       e.AllowMultiple,
		IsVisible:           e.IsVisible,
		ShowServings:        e.ShowServings,
		ServingsPerUnit:     e.ServingsPerUnit.ptr(),
		IsGlutenFree:        e.IsGlutenFree,
		IsLactoseFree:       e.IsLactoseFree,
	}
}

func (e CateringEntry) input(items []catering.ItemInput) catering.CateringInput {
	discount := decimal.Zero
	if e.DiscountPercentage != nil {
		discount = e.DiscountPercentage.Decimal
	}
	images := e.Images
	if images == nil {
		images = []string{}
	}
	return catering.CateringInput{
		Name:               e.Name,
		Description:        e.Description,
		Images:             images,
		TotalPrice:         e.TotalPrice.Decimal,
		DiscountPercentage: discount,
		IsGlutenFree:       e.IsGlutenFree,
		IsLactoseFree:      e.IsLactoseFree,
		SortOrder:          e.SortOrder,
		Items:              items,
	}
}

func (a *Amount) ptr() *decimal.Decimal {
	if a == nil {
		return nil
	}
	d := a.Decimal
	return &d
}
