package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"minimart/internal/apiclient"
	"minimart/internal/apierror"
	"minimart/internal/config"
	"minimart/internal/infra"
	"minimart/internal/live"
	"minimart/internal/model"
	"minimart/internal/pos"
	"minimart/internal/repository"
	"minimart/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	checkoutLockTTL    = 30 * time.Second
	editLockTTL        = 5 * time.Second
	MsgRegisterBusy    = "The register is busy completing a sale. Try again in a moment."
	MsgProductNotFound = "Product not found."
	MsgReceiptNotFound = "Receipt not found."
	MsgEmailRequired   = "An e-mail address is required."
	MsgEmailDisabled   = "E-mail receipts are not enabled for this store."
)

// Register is everything the POS screen renders for the current cart.
type Register struct {
	Cart   *pos.Cart       `json:"cart"`
	Totals pos.Totals      `json:"totals"`
	Change decimal.Decimal `json:"change"`
	Short  bool            `json:"short"`
	State  pos.State       `json:"state"`
}

// QuickPickView is one category tab of the quick-pick grid.
type QuickPickView struct {
	Tabs     []string        `json:"tabs"`
	Active   string          `json:"active"`
	Products []model.Product `json:"products"`
}

type PosService interface {
	Register(ctx context.Context, sid string) (*Register, error)
	Scan(ctx context.Context, sid string, sess *model.Session, query string, qty float64) (*Register, error)
	AddProduct(ctx context.Context, sid string, sess *model.Session, productID int64, qty float64) (*Register, error)
	AdjustQuantity(ctx context.Context, sid string, productID int64, delta int) (*Register, error)
	RemoveLine(ctx context.Context, sid string, productID int64) (*Register, error)
	Clear(ctx context.Context, sid string) (*Register, error)
	SetCash(ctx context.Context, sid, cash string) (*Register, error)
	CashShortcut(ctx context.Context, sid, value string) (*Register, error)
	Search(ctx context.Context, sess *model.Session, query string) ([]model.Product, error)
	QuickPicks(ctx context.Context, sess *model.Session, tab string) (*QuickPickView, error)
	Checkout(ctx context.Context, sid string, sess *model.Session) (*model.Receipt, error)

	Receipt(ctx context.Context, orderNumber string) (*model.Receipt, error)
	RecentReceipts(ctx context.Context, sess *model.Session, limit int) ([]model.Receipt, error)
	ReceiptPDF(ctx context.Context, orderNumber string) ([]byte, error)
	EmailReceipt(ctx context.Context, sess *model.Session, orderNumber, to string) error
}

type posService struct {
	api       *apiclient.Client
	carts     repository.CartRepository
	receipts  repository.ReceiptRepository
	jobs      JobQueue
	publisher live.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewPosService(api *apiclient.Client, carts repository.CartRepository, receipts repository.ReceiptRepository, jobs JobQueue, publisher live.Publisher, cfg *config.Config) PosService {
	return &posService{
		api:       api,
		carts:     carts,
		receipts:  receipts,
		jobs:      jobs,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ReceiptLayout is the branding printed on receipts, shared with the mail worker.
func ReceiptLayout(cfg *config.Config) infra.ReceiptLayout {
	return infra.ReceiptLayout{StoreName: cfg.StoreName, Currency: cfg.CurrencySymbol, Footer: cfg.ReceiptFooter}
}

func view(c *pos.Cart, inFlight bool) *Register {
	t := c.Totals()
	return &Register{
		Cart:   c,
		Totals: t,
		Change: pos.Change(c.CashReceived, t.Total),
		Short:  pos.IsShort(c.CashReceived, t.Total),
		State:  pos.StateOf(c, inFlight),
	}
}

func (s *posService) Register(ctx context.Context, sid string) (*Register, error) {
	c, err := s.carts.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	busy, err := s.carts.Locked(ctx, sid)
	if err != nil {
		return nil, err
	}
	return view(c, busy), nil
}

// mutate loads the cart, applies fn and persists the result under the cart
// lock, so an edit never interleaves with a checkout of the same cart.
func (s *posService) mutate(ctx context.Context, sid string, fn func(c *pos.Cart) error) (*Register, error) {
	release, err := s.carts.Lock(ctx, sid, editLockTTL)
	if apierror.KindOf(err) == apierror.KindConflict {
		return nil, apierror.Conflict(MsgRegisterBusy)
	}
	if err != nil {
		return nil, err
	}
	defer release()

	c, err := s.carts.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, sid, c); err != nil {
		return nil, err
	}
	return view(c, false), nil
}

func (s *posService) catalog(ctx context.Context, sess *model.Session) ([]model.Product, error) {
	return s.api.WithToken(sess.Token).ListProducts(ctx)
}

func (s *posService) Scan(ctx context.Context, sid string, sess *model.Session, query string, qty float64) (*Register, error) {
	products, err := s.catalog(ctx, sess)
	if err != nil {
		return nil, err
	}
	res := pos.Scan(query, products, pos.BuildIndex(products), s.cfg.SearchSuggestionLimit)
	if !res.Found {
		return nil, apierror.Validation(res.Message)
	}
	return s.mutate(ctx, sid, func(c *pos.Cart) error {
		c.AddLine(res.Product, qty)
		return nil
	})
}

func (s *posService) AddProduct(ctx context.Context, sid string, sess *model.Session, productID int64, qty float64) (*Register, error) {
	products, err := s.catalog(ctx, sess)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ProductID == productID {
			return s.mutate(ctx, sid, func(c *pos.Cart) error {
				c.AddLine(p, qty)
				return nil
			})
		}
	}
	return nil, apierror.Validation(MsgProductNotFound)
}

func (s *posService) AdjustQuantity(ctx context.Context, sid string, productID int64, delta int) (*Register, error) {
	return s.mutate(ctx, sid, func(c *pos.Cart) error {
		c.AdjustProduct(productID, delta)
		return nil
	})
}

func (s *posService) RemoveLine(ctx context.Context, sid string, productID int64) (*Register, error) {
	return s.mutate(ctx, sid, func(c *pos.Cart) error {
		c.RemoveProduct(productID)
		return nil
	})
}

func (s *posService) Clear(ctx context.Context, sid string) (*Register, error) {
	return s.mutate(ctx, sid, func(c *pos.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *posService) SetCash(ctx context.Context, sid, cash string) (*Register, error) {
	return s.mutate(ctx, sid, func(c *pos.Cart) error {
		c.CashReceived = cash
		return nil
	})
}

func (s *posService) CashShortcut(ctx context.Context, sid, value string) (*Register, error) {
	return s.mutate(ctx, sid, func(c *pos.Cart) error {
		c.CashReceived = pos.CashShortcut(value, c.Totals().Total)
		return nil
	})
}

func (s *posService) Search(ctx context.Context, sess *model.Session, query string) ([]model.Product, error) {
	products, err := s.catalog(ctx, sess)
	if err != nil {
		return nil, err
	}
	out := pos.SearchMatches(query, products, s.cfg.SearchSuggestionLimit)
	if out == nil {
		out = []model.Product{}
	}
	return out, nil
}

func (s *posService) QuickPicks(ctx context.Context, sess *model.Session, tab string) (*QuickPickView, error) {
	products, err := s.catalog(ctx, sess)
	if err != nil {
		return nil, err
	}
	tabs := pos.CategoryTabs(products)
	active := pos.FeaturedTab
	for _, t := range tabs {
		if t == tab {
			active = tab
		}
	}
	picks := pos.QuickPicks(products, active)
	if picks == nil {
		picks = []model.Product{}
	}
	return &QuickPickView{Tabs: tabs, Active: active, Products: picks}, nil
}

func (s *posService) saleContext(sess *model.Session) pos.SaleContext {
	sc := pos.SaleContext{
		UserID:     s.cfg.DefaultUserID,
		LocationID: s.cfg.DefaultLocationID,
		Cashier:    s.cfg.CashierName,
		Location:   s.cfg.BranchName,
	}
	if u := sess.User; u != nil {
		if u.UserID != 0 {
			sc.UserID = u.UserID
		}
		if u.LocationID != nil {
			sc.LocationID = *u.LocationID
		}
		if u.Username != "" {
			sc.Cashier = u.Username
		}
		if u.LocationName != "" {
			sc.Location = u.LocationName
		}
	}
	return sc
}

// Checkout submits the session's cart. A second checkout for the same session
// while one is running fails with a Conflict instead of double-submitting.
func (s *posService) Checkout(ctx context.Context, sid string, sess *model.Session) (*model.Receipt, error) {
	release, err := s.carts.Lock(ctx, sid, checkoutLockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	c, err := s.carts.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	sc := s.saleContext(sess)
	now := s.now()
	receipt, err := pos.Checkout(ctx, c, sc, s.api.WithToken(sess.Token), now)
	if err != nil {
		return nil, err
	}

	// The sale exists on the backend from here on; later failures only log.
	bg := context.WithoutCancel(ctx)
	if err := s.carts.Save(bg, sid, c); err != nil {
		log.Warn().Err(err).Msg("pos: could not clear cart after checkout")
	}
	s.journal(bg, receipt, sc)
	recordActivity(bg, s.jobs, sess, "Completed sale "+receipt.OrderNumber, now)
	if s.publisher != nil {
		s.publisher.Publish(live.Event{
			Type: live.EventSaleCompleted,
			Data: map[string]string{"orderNumber": receipt.OrderNumber, "total": receipt.Totals.Total.StringFixed(2)},
		})
	}
	log.Info().Str("order", receipt.OrderNumber).Str("total", receipt.Totals.Total.StringFixed(2)).Msg("pos: sale completed")
	return receipt, nil
}

func (s *posService) journal(ctx context.Context, r *model.Receipt, sc pos.SaleContext) {
	body, err := json.Marshal(r)
	if err != nil {
		log.Error().Err(err).Str("order", r.OrderNumber).Msg("pos: encode receipt")
		return
	}
	entry := &model.ReceiptEntry{
		OrderNumber: r.OrderNumber,
		OrderID:     r.OrderID,
		UserID:      sc.UserID,
		LocationID:  sc.LocationID,
		Total:       r.Totals.Total,
		Body:        string(body),
	}
	if err := s.receipts.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("order", r.OrderNumber).Msg("pos: could not journal receipt")
	}
}

func decodeReceipt(e *model.ReceiptEntry) (*model.Receipt, error) {
	var r model.Receipt
	if err := json.Unmarshal([]byte(e.Body), &r); err != nil {
		return nil, fmt.Errorf("receipt %s: %w", e.OrderNumber, err)
	}
	return &r, nil
}

func (s *posService) Receipt(ctx context.Context, orderNumber string) (*model.Receipt, error) {
	e, err := s.receipts.FindByOrderNumber(ctx, orderNumber)
	if errors.Is(err, repository.ErrReceiptNotFound) {
		return nil, apierror.HTTP(http.StatusNotFound, MsgReceiptNotFound)
	}
	if err != nil {
		return nil, err
	}
	return decodeReceipt(e)
}

func (s *posService) RecentReceipts(ctx context.Context, sess *model.Session, limit int) ([]model.Receipt, error) {
	entries, err := s.receipts.ListRecent(ctx, s.saleContext(sess).LocationID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Receipt, 0, len(entries))
	for i := range entries {
		r, err := decodeReceipt(&entries[i])
		if err != nil {
			log.Warn().Err(err).Msg("pos: skipping unreadable receipt")
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *posService) ReceiptPDF(ctx context.Context, orderNumber string) ([]byte, error) {
	r, err := s.Receipt(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return infra.RenderReceiptPDF(r, ReceiptLayout(s.cfg))
}

// EmailReceipt queues the receipt for delivery; the worker renders and sends it.
func (s *posService) EmailReceipt(ctx context.Context, sess *model.Session, orderNumber, to string) error {
	if !s.cfg.EmailEnabled() {
		return apierror.Validation(MsgEmailDisabled)
	}
	if to == "" {
		return apierror.Validation(MsgEmailRequired)
	}
	if _, err := s.Receipt(ctx, orderNumber); err != nil {
		return err
	}
	if err := s.jobs.EnqueueReceiptEmail(ctx, worker.ReceiptEmailPayload{OrderNumber: orderNumber, To: to}); err != nil {
		return err
	}
	recordActivity(ctx, s.jobs, sess, fmt.Sprintf("Emailed receipt %s", orderNumber), s.now())
	return nil
}
