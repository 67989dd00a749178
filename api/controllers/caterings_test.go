package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	catering "github.com/angelmondragon/catering-backend/internal/caterings"
	"github.com/angelmondragon/catering-backend/internal/quote"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubCateringService struct {
	input     *catering.CateringInput
	reordered []catering.ReorderItem
	suggested []catering.ItemInput
	pkg       quote.Package
	err       error
}

func (s *stubCateringService) List(ctx context.Context) ([]catering.CateringDTO, error) {
	return []catering.CateringDTO{{ID: uuid.New(), Name: "Fiesta"}}, s.err
}

func (s *stubCateringService) Get(ctx context.Context, id uuid.UUID) (*catering.CateringDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &catering.CateringDTO{ID: id, Name: "Fiesta"}, nil
}

func (s *stubCateringService) Package(ctx context.Context, id uuid.UUID) (quote.Package, error) {
	return s.pkg, s.err
}

func (s *stubCateringService) Create(ctx context.Context, input catering.CateringInput) (*catering.CateringDTO, error) {
	s.input = &input
	if s.err != nil {
		return nil, s.err
	}
	return &catering.CateringDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubCateringService) Update(ctx context.Context, id uuid.UUID, input catering.CateringInput) (*catering.CateringDTO, error) {
	s.input = &input
	return &catering.CateringDTO{ID: id, Name: input.Name}, s.err
}

func (s *stubCateringService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func (s *stubCateringService) Reorder(ctx context.Context, items []catering.ReorderItem) error {
	s.reordered = items
	return s.err
}

func (s *stubCateringService) SuggestedPrice(ctx context.Context, items []catering.ItemInput) (*catering.SuggestedPriceDTO, error) {
	s.suggested = items
	return &catering.SuggestedPriceDTO{SuggestedPrice: "90.00"}, s.err
}

func TestAdminCreateCateringMapsPayload(t *testing.T) {
	svc := &stubCateringService{}
	productID := uuid.New()
	body := `{"name":"Fiesta","total_price":"100","items":[{"product_id":"` + productID.String() + `","quantity":"1.5"}]}`
	resp := httptest.NewRecorder()
	AdminCreateCatering(svc, nil).ServeHTTP(resp, newJSONRequest(http.MethodPost, "/", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.input == nil || len(svc.input.Items) != 1 {
		t.Fatalf("unexpected input %+v", svc.input)
	}
	if svc.input.Items[0].ProductID != productID || !svc.input.Items[0].Quantity.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("unexpected item %+v", svc.input.Items[0])
	}
	if !svc.input.DiscountPercentage.IsZero() {
		t.Fatalf("expected zero discount got %s", svc.input.DiscountPercentage)
	}
	if svc.input.Images == nil {
		t.Fatal("expected images to default to an empty list")
	}
}

func TestAdminCreateCateringValidation(t *testing.T) {
	productID := uuid.NewString()
	cases := map[string]string{
		"missing total":     `{"name":"Fiesta","items":[{"product_id":"` + productID + `","quantity":"1"}]}`,
		"no items":          `{"name":"Fiesta","total_price":"10","items":[]}`,
		"zero quantity":     `{"name":"Fiesta","total_price":"10","items":[{"product_id":"` + productID + `","quantity":"0"}]}`,
		"discount too high": `{"name":"Fiesta","total_price":"10","discount_percentage":"100","items":[{"product_id":"` + productID + `","quantity":"1"}]}`,
		"negative total":    `{"name":"Fiesta","total_price":"-1","items":[{"product_id":"` + productID + `","quantity":"1"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubCateringService{}
			resp := httptest.NewRecorder()
			AdminCreateCatering(svc, nil).ServeHTTP(resp, newJSONRequest(http.MethodPost, "/", body))

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", resp.Code)
			}
			if svc.input != nil {
				t.Fatal("service must not be called")
			}
		})
	}
}

func TestAdminReorderCaterings(t *testing.T) {
	svc := &stubCateringService{}
	a, b := uuid.New(), uuid.New()
	body := `{"items":[{"id":"` + a.String() + `","sort_order":1},{"id":"` + b.String() + `","sort_order":0}]}`
	resp := httptest.NewRecorder()
	AdminReorderCaterings(svc, nil).ServeHTTP(resp, newJSONRequest(http.MethodPut, "/", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.reordered) != 2 || svc.reordered[0].ID != a || svc.reordered[1].SortOrder != 0 {
		t.Fatalf("unexpected reorder %+v", svc.reordered)
	}
	var out map[string]int
	decodeData(t, resp, &out)
	if out["updated"] != 2 {
		t.Fatalf("unexpected response %v", out)
	}
}

func TestAdminSuggestedPrice(t *testing.T) {
	svc := &stubCateringService{}
	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":"2"}]}`
	resp := httptest.NewRecorder()
	AdminSuggestedPrice(svc, nil).ServeHTTP(resp, newJSONRequest(http.MethodPost, "/", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.suggested) != 1 {
		t.Fatalf("unexpected items %+v", svc.suggested)
	}
}

func TestPublicCateringQuoteRendersPackage(t *testing.T) {
	svc := &stubCateringService{pkg: quote.Package{Name: "Fiesta", TotalPrice: decimal.NewFromInt(100)}}
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"cateringId": uuid.NewString()})
	resp := httptest.NewRecorder()
	PublicCateringQuote(svc, &stubQuoteService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var msg quote.Message
	decodeData(t, resp, &msg)
	if msg.Text != "Fiesta" || msg.Total != "100.00" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestPublicGetCateringNotFound(t *testing.T) {
	svc := &stubCateringService{err: pkgerrors.New(pkgerrors.CodeNotFound, "catering not found")}
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"cateringId": uuid.NewString()})
	resp := httptest.NewRecorder()
	PublicGetCatering(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
