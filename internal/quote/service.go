package quote

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/angelmondragon/catering-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Catalog resolves storefront-visible products into snapshots. Hidden or
// unknown products must come back as NOT_FOUND.
type Catalog interface {
	Snapshot(ctx context.Context, productID uuid.UUID) (Snapshot, error)
}

type sessionRepository interface {
	Create(ctx context.Context) (string, *Cart, error)
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// Service exposes the quote cart to the HTTP layer. Each call loads the
// session cart, applies one action and stores it back.
type Service interface {
	Create(ctx context.Context) (*CartView, error)
	Get(ctx context.Context, sessionID string) (*CartView, error)
	AddProduct(ctx context.Context, sessionID string, productID uuid.UUID) (*ActionResult, error)
	ApplyDelta(ctx context.Context, sessionID string, instanceID uuid.UUID, dir Direction) (*ActionResult, error)
	RemoveLine(ctx context.Context, sessionID string, instanceID uuid.UUID) (*CartView, error)
	Discard(ctx context.Context, sessionID string) error
	Message(ctx context.Context, sessionID string) (*Message, error)
	PackageMessage(ctx context.Context, pkg Package) (*Message, error)
}

type ServiceParams struct {
	Catalog   Catalog
	Sessions  sessionRepository
	Pricer    *Pricer
	Formatter *Formatter
	Handoff   HandoffConfig
	Logger    *logger.Logger
	Metrics   *metrics.QuoteMetrics
}

// HandoffConfig names the messaging endpoint quotes are sent to.
type HandoffConfig struct {
	BaseURL string
	Phone   string
}

type service struct {
	catalog   Catalog
	sessions  sessionRepository
	pricer    *Pricer
	formatter *Formatter
	handoff   HandoffConfig
	logg      *logger.Logger
	metrics   *metrics.QuoteMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Pricer == nil {
		return nil, fmt.Errorf("pricer required")
	}
	if params.Formatter == nil {
		return nil, fmt.Errorf("formatter required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		catalog:   params.Catalog,
		sessions:  params.Sessions,
		pricer:    params.Pricer,
		formatter: params.Formatter,
		handoff:   params.Handoff,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

// LineView is a priced cart line as rendered by the storefront.
type LineView struct {
	InstanceID   uuid.UUID       `json:"instance_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	Title        string          `json:"title"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         Unit            `json:"unit"`
	UnitLabel    string          `json:"unit_label"`
	PricingMode  PricingMode     `json:"pricing_mode"`
	UnitPrice    string          `json:"unit_price"`
	Amount       string          `json:"amount"`
	Adjustable   bool            `json:"adjustable"`
	CanIncrement bool            `json:"can_increment"`
	Behavior     BehaviorKind    `json:"behavior"`
}

type CartView struct {
	SessionID      string         `json:"session_id"`
	Lines          []LineView     `json:"lines"`
	Total          string         `json:"total"`
	TotalFormatted string         `json:"total_formatted"`
	Counts         map[string]int `json:"counts"`
}

// ActionResult reports the effect of one cart action together with the
// cart it produced.
type ActionResult struct {
	Outcome Outcome   `json:"outcome"`
	Line    *LineView `json:"line,omitempty"`
	Cart    *CartView `json:"cart"`
}

// Message is a rendered quote plus its transport encodings.
type Message struct {
	Text       string `json:"text"`
	Total      string `json:"total"`
	HandoffURL string `json:"handoff_url"`
	Table      Table  `json:"table"`
}

func (s *service) Create(ctx context.Context) (*CartView, error) {
	id, cart, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithQuoteSession(ctx, id), "quote.session_created")
	return s.view(ctx, id, cart), nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sessionID, cart), nil
}

func (s *service) AddProduct(ctx context.Context, sessionID string, productID uuid.UUID) (*ActionResult, error) {
	cart, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.catalog.Snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}

	res, err := cart.AddProduct(snapshot)
	if err != nil {
		s.metrics.IncAction("add", "rejected")
		return nil, err
	}
	if err := s.sessions.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	s.metrics.IncAction("add", string(res.Outcome))

	ctx = s.logg.WithFields(s.logg.WithQuoteSession(ctx, sessionID), map[string]any{
		"product_id": productID.String(),
		"outcome":    string(res.Outcome),
	})
	s.logg.Info(ctx, "quote.product_added")

	view := s.view(ctx, sessionID, cart)
	result := &ActionResult{Outcome: res.Outcome, Cart: view}
	if res.Outcome == OutcomeAdded {
		line := s.lineView(ctx, res.Line)
		result.Line = &line
	}
	return result, nil
}

func (s *service) ApplyDelta(ctx context.Context, sessionID string, instanceID uuid.UUID, dir Direction) (*ActionResult, error) {
	if !dir.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "direction must be increment or decrement")
	}
	cart, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	outcome, line, err := cart.ApplyDelta(instanceID, dir)
	if err != nil {
		s.metrics.IncAction(dir.String(), "rejected")
		return nil, err
	}
	if outcome != OutcomeUnchanged {
		if err := s.sessions.Save(ctx, sessionID, cart); err != nil {
			return nil, err
		}
	}
	s.metrics.IncAction(dir.String(), string(outcome))

	view := s.view(ctx, sessionID, cart)
	result := &ActionResult{Outcome: outcome, Cart: view}
	if outcome != OutcomeRemoved {
		lv := s.lineView(ctx, line)
		result.Line = &lv
	}
	return result, nil
}

func (s *service) RemoveLine(ctx context.Context, sessionID string, instanceID uuid.UUID) (*CartView, error) {
	cart, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.RemoveInstance(instanceID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if err := s.sessions.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	s.metrics.IncAction("remove", string(OutcomeRemoved))
	return s.view(ctx, sessionID, cart), nil
}

func (s *service) Discard(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.metrics.IncAction("clear", string(OutcomeRemoved))
	s.logg.Info(s.logg.WithQuoteSession(ctx, sessionID), "quote.session_discarded")
	return nil
}

func (s *service) Message(ctx context.Context, sessionID string) (*Message, error) {
	cart, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.Len() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote cart is empty")
	}

	text := s.formatter.FormatCart(ctx, cart.Lines)
	msg, err := s.message(text, s.pricer.CartTotal(ctx, cart.Lines))
	if err != nil {
		return nil, err
	}
	msg.Table = s.formatter.CartTable(ctx, cart.Lines)
	s.metrics.IncMessage("cart")
	return msg, nil
}

func (s *service) PackageMessage(ctx context.Context, pkg Package) (*Message, error) {
	text := s.formatter.FormatPackage(ctx, pkg)
	msg, err := s.message(text, pkg.FinalPrice())
	if err != nil {
		return nil, err
	}
	msg.Table = s.formatter.PackageTable(ctx, pkg)
	s.metrics.IncMessage("package")
	return msg, nil
}

func (s *service) message(text string, total decimal.Decimal) (*Message, error) {
	msg := &Message{Text: text, Total: Money(total)}
	if strings.TrimSpace(s.handoff.BaseURL) == "" {
		return msg, nil
	}
	link, err := HandoffLink(s.handoff.BaseURL, s.handoff.Phone, text)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build handoff link")
	}
	msg.HandoffURL = link
	return msg, nil
}

func (s *service) view(ctx context.Context, sessionID string, cart *Cart) *CartView {
	lines := make([]LineView, 0, cart.Len())
	for _, line := range cart.Lines {
		lines = append(lines, s.lineView(ctx, line))
	}
	counts := make(map[string]int, cart.Len())
	for productID, n := range cart.Counts() {
		counts[productID.String()] = n
	}
	total := s.pricer.CartTotal(ctx, cart.Lines)
	return &CartView{
		SessionID:      sessionID,
		Lines:          lines,
		Total:          Money(total),
		TotalFormatted: s.formatter.Amount(total),
		Counts:         counts,
	}
}

func (s *service) lineView(ctx context.Context, line Line) LineView {
	pricing := s.pricer.Price(ctx, line.Product, line.Quantity)
	constraints := ConstraintsFor(line.Product)
	return LineView{
		InstanceID:   line.InstanceID,
		ProductID:    line.Product.ProductID,
		Name:         line.Product.Name,
		Title:        lineTitle(line.Product, line.Quantity),
		Quantity:     line.Quantity,
		Unit:         pricing.Unit,
		UnitLabel:    pricing.Unit.Abbrev(),
		PricingMode:  pricing.Mode,
		UnitPrice:    Money(pricing.UnitPrice),
		Amount:       Money(pricing.Amount),
		Adjustable:   constraints.Adjustable(),
		CanIncrement: constraints.CanIncrement(line.Quantity),
		Behavior:     BehaviorFor(line.Product).Kind(),
	}
}
