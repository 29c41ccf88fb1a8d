package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"minimart/internal/apiclient"
	"minimart/internal/apierror"
	"minimart/internal/authz"
	"minimart/internal/config"
	"minimart/internal/live"
	"minimart/internal/model"
	"minimart/internal/pos"
	"minimart/internal/repository"
	"minimart/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testConfig() *config.Config {
	return &config.Config{
		SessionTTLHours:       8,
		LowStockThreshold:     15,
		SearchSuggestionLimit: 8,
		CurrencySymbol:        "$",
		DefaultUserID:         1,
		DefaultLocationID:     1,
		BranchName:            "Main Branch",
		CashierName:           "Cashier",
		StoreName:             "Mini Mart",
		SMTPHost:              "smtp.test",
	}
}

// fakeBackend stands in for the Mini Mart REST API.
type fakeBackend struct {
	mu          sync.Mutex
	products    []model.Product
	orders      []model.Order
	stock       []model.StockLevel
	created     []model.NewOrder
	adjustments []model.InventoryAdjustment
	logged      []model.NewActivityLog
	nextOrderID int64
	loginBody   map[string]any
	loginStatus int
	failStock   bool
	failOrders  bool
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	switch r.Method + " " + r.URL.Path {
	case "POST /auth/login":
		if f.loginStatus != 0 {
			w.WriteHeader(f.loginStatus)
			_, _ = w.Write([]byte("Bad credentials"))
			return
		}
		reply(http.StatusOK, f.loginBody)
	case "GET /products":
		reply(http.StatusOK, f.products)
	case "GET /orders":
		if f.failOrders {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		reply(http.StatusOK, f.orders)
	case "POST /orders":
		if f.failOrders {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("db down"))
			return
		}
		var in model.NewOrder
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.created = append(f.created, in)
		reply(http.StatusCreated, model.Order{OrderID: f.nextOrderID, PaymentStatus: in.PaymentStatus, OrderDate: "2025-03-10T09:30:00"})
	case "GET /inventory/stock":
		if f.failStock {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		reply(http.StatusOK, f.stock)
	case "POST /inventory/adjust":
		var in model.InventoryAdjustment
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.adjustments = append(f.adjustments, in)
		reply(http.StatusOK, model.StockMovement{MovementID: 9, ProductID: in.ProductID, MovementType: in.MovementType, QuantityChange: in.Quantity})
	case "POST /activity-logs":
		var in model.NewActivityLog
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.logged = append(f.logged, in)
		w.WriteHeader(http.StatusCreated)
	case "POST /categories":
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		reply(http.StatusCreated, model.Category{CategoryID: 4, Name: in["name"]})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeBackend(t *testing.T) (*fakeBackend, *apiclient.Client) {
	t.Helper()
	f := &fakeBackend{
		nextOrderID: 42,
		products: []model.Product{
			{ProductID: 1, Name: "Apple Juice", SKU: "A", Price: dec("1.99"), Category: &model.Category{Name: "Drinks"}},
			{ProductID: 2, Name: "Bread", SKU: "B", Price: dec("5.50"), Category: &model.Category{Name: "Bakery"}},
		},
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, apiclient.New(srv.URL, apiclient.WithHTTPClient(srv.Client()))
}

type stubJobs struct {
	mu       sync.Mutex
	activity []worker.ActivityPayload
	emails   []worker.ReceiptEmailPayload
}

func (s *stubJobs) EnqueueActivity(_ context.Context, p worker.ActivityPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, p)
	return nil
}

func (s *stubJobs) EnqueueReceiptEmail(_ context.Context, p worker.ReceiptEmailPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = append(s.emails, p)
	return nil
}

func (s *stubJobs) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.activity))
	for _, a := range s.activity {
		out = append(out, a.Entry.Action)
	}
	return out
}

type stubPublisher struct {
	mu     sync.Mutex
	events []live.Event
}

func (p *stubPublisher) Publish(e live.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func session(role model.Role) *model.Session {
	loc := int64(2)
	return &model.Session{
		ID:    "sid",
		Token: "jwt-token",
		User:  &model.SessionUser{UserID: 7, Username: "ana", Role: role, LocationID: &loc, LocationName: "Downtown"},
	}
}

func newAuth(t *testing.T) (*fakeBackend, *authService, repository.SessionRepository, *stubJobs) {
	t.Helper()
	f, api := newFakeBackend(t)
	repo := repository.NewMemorySessionRepository()
	jobs := &stubJobs{}
	svc := NewAuthService(api, repo, repository.NewMemoryCartRepository(time.Hour), authz.Default(), jobs, testConfig()).(*authService)
	svc.now = func() time.Time { return now }
	return f, svc, repo, jobs
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestLogin_StoresSessionAndRedirects(t *testing.T) {
	f, svc, _, jobs := newAuth(t)
	f.loginBody = map[string]any{
		"token":     "tok",
		"expiresIn": 3600,
		"user":      map[string]any{"userId": 3, "username": "cashier", "role": "CASHIER"},
	}

	res, err := svc.Login(context.Background(), " cashier ", "cashier", "")
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, "/pos", res.Redirect)
	assert.Equal(t, now.Add(time.Hour), res.Session.ExpiresAt)

	cur, err := svc.Current(context.Background(), res.SessionID)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "tok", cur.Token)
	assert.Equal(t, model.RoleCashier, cur.Role())
	assert.Equal(t, []string{"Signed in"}, jobs.actions())
	assert.Equal(t, res.SessionID, jobs.activity[0].SessionID)
}

func TestLogin_NextHonouredOnlyWhenAllowed(t *testing.T) {
	f, svc, _, _ := newAuth(t)
	f.loginBody = map[string]any{"token": "tok", "user": map[string]any{"userId": 1, "username": "m", "role": "MANAGER"}}

	res, err := svc.Login(context.Background(), "m", "m", "/reports/sales")
	require.NoError(t, err)
	assert.Equal(t, "/reports/sales", res.Redirect)

	res, err = svc.Login(context.Background(), "m", "m", "/people/users")
	require.NoError(t, err)
	assert.Equal(t, "/", res.Redirect)
}

func TestLogin_ExpiryMillisecondsAndJWTFallback(t *testing.T) {
	f, svc, _, _ := newAuth(t)
	user := map[string]any{"userId": 1, "username": "a", "role": "ADMIN"}

	f.loginBody = map[string]any{"token": "tok", "expiresIn": 86_400_000, "user": user}
	res, err := svc.Login(context.Background(), "a", "a", "")
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), res.Session.ExpiresAt)

	exp := now.Add(2 * time.Hour)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)
	f.loginBody = map[string]any{"token": signed, "user": user}
	res, err = svc.Login(context.Background(), "a", "a", "")
	require.NoError(t, err)
	assert.Equal(t, exp.Unix(), res.Session.ExpiresAt.Unix())

	f.loginBody = map[string]any{"token": "opaque", "user": user}
	res, err = svc.Login(context.Background(), "a", "a", "")
	require.NoError(t, err)
	assert.Equal(t, now.Add(8*time.Hour), res.Session.ExpiresAt)
}

func TestLogin_MissingCredentials(t *testing.T) {
	_, svc, _, _ := newAuth(t)
	_, err := svc.Login(context.Background(), "  ", "x", "")
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.EqualError(t, err, MsgCredentialsRequired)
}

func TestLogin_BackendRejection(t *testing.T) {
	f, svc, _, jobs := newAuth(t)
	f.loginStatus = http.StatusUnauthorized

	_, err := svc.Login(context.Background(), "a", "wrong", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apierror.StatusFor(err))
	assert.Equal(t, "Unable to sign in (status 401 - Bad credentials)", err.Error())
	assert.Empty(t, jobs.actions())
}

func TestCurrent_UnknownAndExpired(t *testing.T) {
	_, svc, repo, _ := newAuth(t)
	cur, err := svc.Current(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, cur)

	s := session(model.RoleAdmin)
	s.ExpiresAt = now.Add(-time.Minute)
	require.NoError(t, repo.Save(context.Background(), "old", s, time.Hour))
	cur, err = svc.Current(context.Background(), "old")
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestLogout_DeletesSession(t *testing.T) {
	f, svc, repo, jobs := newAuth(t)
	require.NoError(t, repo.Save(context.Background(), "sid", session(model.RoleAdmin), time.Hour))
	cart := &pos.Cart{}
	cart.AddLine(f.products[0], 1)
	require.NoError(t, svc.carts.Save(context.Background(), "sid", cart))

	svc.Logout(context.Background(), "sid")
	cur, err := svc.Current(context.Background(), "sid")
	require.NoError(t, err)
	assert.Nil(t, cur)

	// the sign-out entry is posted inline, the queue never sees it
	assert.Empty(t, jobs.actions())
	require.Len(t, f.logged, 1)
	assert.Equal(t, "Signed out", f.logged[0].Action)

	left, err := svc.carts.Load(context.Background(), "sid")
	require.NoError(t, err)
	assert.True(t, left.Empty(), "cart is discarded with the session")

	// unknown ids are fine
	svc.Logout(context.Background(), "sid")
}

// ── Navigation ───────────────────────────────────────────────────────────────

func TestCounters_Admin(t *testing.T) {
	f, api := newFakeBackend(t)
	f.orders = []model.Order{
		{OrderID: 1, PaymentStatus: model.PaymentPaid},
		{OrderID: 2, PaymentStatus: model.PaymentPending},
		{OrderID: 3, PaymentStatus: model.PaymentHold},
	}
	f.stock = []model.StockLevel{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 15}, {ProductID: 3, Quantity: 40}}

	c := NewNavigationService(api, authz.Default(), 15).Counters(context.Background(), session(model.RoleAdmin))
	assert.Equal(t, authz.Counters{PendingOrders: 2, LowStock: 2}, c)
}

func TestCounters_FailuresAreIndependent(t *testing.T) {
	f, api := newFakeBackend(t)
	f.orders = []model.Order{{OrderID: 2, PaymentStatus: model.PaymentPending}}
	f.failStock = true

	c := NewNavigationService(api, authz.Default(), 15).Counters(context.Background(), session(model.RoleAdmin))
	assert.Equal(t, 1, c.PendingOrders)
	assert.Zero(t, c.LowStock)
}

func TestCounters_CashierFetchesNothing(t *testing.T) {
	f, api := newFakeBackend(t)
	f.failOrders = true
	f.failStock = true
	c := NewNavigationService(api, authz.Default(), 15).Counters(context.Background(), session(model.RoleCashier))
	assert.Equal(t, authz.Counters{}, c)
}

// ── POS ──────────────────────────────────────────────────────────────────────

type posFixture struct {
	backend  *fakeBackend
	svc      *posService
	carts    repository.CartRepository
	receipts repository.ReceiptRepository
	jobs     *stubJobs
	pub      *stubPublisher
}

func newPos(t *testing.T) *posFixture {
	t.Helper()
	f, api := newFakeBackend(t)
	fx := &posFixture{
		backend:  f,
		carts:    repository.NewMemoryCartRepository(time.Hour),
		receipts: repository.NewMemoryReceiptRepository(),
		jobs:     &stubJobs{},
		pub:      &stubPublisher{},
	}
	fx.svc = NewPosService(api, fx.carts, fx.receipts, fx.jobs, fx.pub, testConfig()).(*posService)
	fx.svc.now = func() time.Time { return now }
	return fx
}

func TestPos_ScanBuildsCart(t *testing.T) {
	fx := newPos(t)
	ctx := context.Background()
	sess := session(model.RoleCashier)

	_, err := fx.svc.Scan(ctx, "sid", sess, "a", 2)
	require.NoError(t, err)
	reg, err := fx.svc.Scan(ctx, "sid", sess, "bread", 1)
	require.NoError(t, err)

	assert.Len(t, reg.Cart.Lines, 2)
	assert.Equal(t, "9.48", reg.Totals.Total.StringFixed(2))
	assert.Equal(t, "building", string(reg.State))
	assert.True(t, reg.Short)

	reg, err = fx.svc.SetCash(ctx, "sid", "10")
	require.NoError(t, err)
	assert.False(t, reg.Short)
	assert.Equal(t, "0.52", reg.Change.StringFixed(2))

	// persisted across calls
	reg, err = fx.svc.Register(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "10", reg.Cart.CashReceived)
}

func TestPos_ScanUnknown(t *testing.T) {
	fx := newPos(t)
	_, err := fx.svc.Scan(context.Background(), "sid", session(model.RoleCashier), "zzz", 1)
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.Equal(t, `No product found for "zzz"`, err.Error())
}

func TestPos_LineEditsAndShortcut(t *testing.T) {
	fx := newPos(t)
	ctx := context.Background()
	sess := session(model.RoleCashier)

	_, err := fx.svc.AddProduct(ctx, "sid", sess, 2, 1)
	require.NoError(t, err)
	reg, err := fx.svc.AdjustQuantity(ctx, "sid", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Cart.Lines[0].Qty)

	reg, err = fx.svc.CashShortcut(ctx, "sid", "EXACT")
	require.NoError(t, err)
	assert.Equal(t, "16.50", reg.Cart.CashReceived)

	reg, err = fx.svc.RemoveLine(ctx, "sid", 2)
	require.NoError(t, err)
	assert.Empty(t, reg.Cart.Lines)
	assert.Equal(t, "idle", string(reg.State))

	_, err = fx.svc.AddProduct(ctx, "sid", sess, 99, 1)
	assert.EqualError(t, err, MsgProductNotFound)
}

func TestPos_QuickPicksFallsBackToFeatured(t *testing.T) {
	fx := newPos(t)
	v, err := fx.svc.QuickPicks(context.Background(), session(model.RoleCashier), "Nope")
	require.NoError(t, err)
	assert.Equal(t, "Featured", v.Active)
	assert.Equal(t, []string{"Featured", "Bakery", "Drinks"}, v.Tabs)
	assert.Len(t, v.Products, 2)

	v, err = fx.svc.QuickPicks(context.Background(), session(model.RoleCashier), "Drinks")
	require.NoError(t, err)
	require.Len(t, v.Products, 1)
	assert.Equal(t, "Apple Juice", v.Products[0].Name)
}

func TestPos_Checkout(t *testing.T) {
	fx := newPos(t)
	ctx := context.Background()
	sess := session(model.RoleCashier)
	_, _ = fx.svc.Scan(ctx, "sid", sess, "A", 2)
	_, _ = fx.svc.Scan(ctx, "sid", sess, "B", 1)
	_, _ = fx.svc.SetCash(ctx, "sid", "10.00")

	r, err := fx.svc.Checkout(ctx, "sid", sess)
	require.NoError(t, err)
	assert.Equal(t, "INV-00042", r.OrderNumber)
	assert.Equal(t, "ana", r.Cashier)
	assert.Equal(t, "Downtown", r.Location)
	assert.Equal(t, "0.52", r.Totals.ChangeDue.StringFixed(2))

	require.Len(t, fx.backend.created, 1)
	assert.Equal(t, int64(7), fx.backend.created[0].UserID)
	assert.Equal(t, int64(2), fx.backend.created[0].LocationID)

	reg, err := fx.svc.Register(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, reg.Cart.Empty())
	assert.Empty(t, reg.Cart.CashReceived)

	stored, err := fx.svc.Receipt(ctx, "INV-00042")
	require.NoError(t, err)
	assert.Equal(t, "9.48", stored.Totals.Total.StringFixed(2))

	assert.Equal(t, []string{"Completed sale INV-00042"}, fx.jobs.actions())
	require.Len(t, fx.pub.events, 1)
	assert.Equal(t, live.EventSaleCompleted, fx.pub.events[0].Type)
}

func TestPos_CheckoutFailureKeepsCart(t *testing.T) {
	fx := newPos(t)
	ctx := context.Background()
	sess := session(model.RoleCashier)
	_, _ = fx.svc.Scan(ctx, "sid", sess, "A", 1)
	_, _ = fx.svc.SetCash(ctx, "sid", "5")
	fx.backend.failOrders = true

	_, err := fx.svc.Checkout(ctx, "sid", sess)
	require.Error(t, err)
	assert.Equal(t, "Failed to create order (status 500 - db down)", err.Error())

	reg, err := fx.svc.Register(ctx, "sid")
	require.NoError(t, err)
	assert.Len(t, reg.Cart.Lines, 1)
	assert.Equal(t, "5", reg.Cart.CashReceived)
	assert.Empty(t, fx.pub.events)
}

func TestPos_CheckoutWhileLockedConflicts(t *testing.T) {
	fx := newPos(t)
	ctx := context.Background()
	sess := session(model.RoleCashier)
	_, _ = fx.svc.Scan(ctx, "sid", sess, "A", 1)
	_, _ = fx.svc.SetCash(ctx, "sid", "5")

	release, err := fx.carts.Lock(ctx, "sid", time.Minute)
	require.NoError(t, err)
	defer release()

	_, err = fx.svc.Checkout(ctx, "sid", sess)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.Empty(t, fx.backend.created)
}

func TestPos_EditsRefusedDuringCheckout(t *testing.T) {
	fx := newPos(t)
	ctx := context.Background()
	sess := session(model.RoleCashier)
	_, err := fx.svc.Scan(ctx, "sid", sess, "A", 1)
	require.NoError(t, err)

	release, err := fx.carts.Lock(ctx, "sid", time.Minute)
	require.NoError(t, err)

	_, err = fx.svc.Scan(ctx, "sid", sess, "B", 1)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.EqualError(t, err, MsgRegisterBusy)
	_, err = fx.svc.SetCash(ctx, "sid", "10")
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	_, err = fx.svc.Clear(ctx, "sid")
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	reg, err := fx.svc.Register(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, pos.StateCheckingOut, reg.State)
	require.Len(t, reg.Cart.Lines, 1)
	assert.Empty(t, reg.Cart.CashReceived)

	release()
	reg, err = fx.svc.Register(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, pos.StateBuilding, reg.State)
	reg, err = fx.svc.Scan(ctx, "sid", sess, "B", 1)
	require.NoError(t, err)
	assert.Len(t, reg.Cart.Lines, 2)
}

func TestPos_CheckoutPreconditions(t *testing.T) {
	fx := newPos(t)
	_, err := fx.svc.Checkout(context.Background(), "sid", session(model.RoleCashier))
	assert.EqualError(t, err, "Scan at least one item.")
}

func TestPos_ReceiptPDFAndEmail(t *testing.T) {
	fx := newPos(t)
	ctx := context.Background()
	sess := session(model.RoleCashier)
	_, _ = fx.svc.Scan(ctx, "sid", sess, "A", 1)
	_, _ = fx.svc.SetCash(ctx, "sid", "2")
	_, err := fx.svc.Checkout(ctx, "sid", sess)
	require.NoError(t, err)

	pdf, err := fx.svc.ReceiptPDF(ctx, "INV-00042")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(pdf[:5]))

	assert.EqualError(t, fx.svc.EmailReceipt(ctx, sess, "INV-00042", ""), MsgEmailRequired)
	require.NoError(t, fx.svc.EmailReceipt(ctx, sess, "INV-00042", "buyer@example.com"))
	require.Len(t, fx.jobs.emails, 1)
	assert.Equal(t, "buyer@example.com", fx.jobs.emails[0].To)

	err = fx.svc.EmailReceipt(ctx, sess, "INV-99999", "buyer@example.com")
	assert.Equal(t, http.StatusNotFound, apierror.StatusFor(err))

	fx.svc.cfg.SMTPHost = ""
	err = fx.svc.EmailReceipt(ctx, sess, "INV-00042", "buyer@example.com")
	assert.EqualError(t, err, MsgEmailDisabled)
	assert.Len(t, fx.jobs.emails, 1, "nothing queued without a mailer")

	recent, err := fx.svc.RecentReceipts(ctx, sess, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "INV-00042", recent[0].OrderNumber)
}

// ── Inventory / catalog / reports ────────────────────────────────────────────

func TestInventory_Adjust(t *testing.T) {
	f, api := newFakeBackend(t)
	jobs, pub := &stubJobs{}, &stubPublisher{}
	svc := NewInventoryService(api, jobs, pub)
	sess := session(model.RoleAdmin)

	_, err := svc.Adjust(context.Background(), sess, model.InventoryAdjustment{ProductID: 1, LocationID: 1, MovementType: "LOST", Quantity: 1})
	assert.EqualError(t, err, MsgInvalidMovementType)
	_, err = svc.Adjust(context.Background(), sess, model.InventoryAdjustment{ProductID: 1, LocationID: 1, MovementType: model.MovementAdjustment})
	assert.EqualError(t, err, MsgZeroQuantity)
	assert.Empty(t, f.adjustments)

	mv, err := svc.Adjust(context.Background(), sess, model.InventoryAdjustment{ProductID: 1, LocationID: 1, MovementType: model.MovementAdjustment, Quantity: -2})
	require.NoError(t, err)
	assert.Equal(t, -2, mv.QuantityChange)
	require.Len(t, pub.events, 1)
	assert.Equal(t, live.EventStockAdjusted, pub.events[0].Type)
	assert.Equal(t, []string{"Adjusted stock of product 1 by -2 (ADJUSTMENT)"}, jobs.actions())
}

func TestCatalog_Validation(t *testing.T) {
	_, api := newFakeBackend(t)
	svc := NewCatalogService(api, &stubJobs{}, nil)
	sess := session(model.RoleAdmin)

	_, err := svc.CreateCategory(context.Background(), sess, "  ")
	assert.EqualError(t, err, MsgNameRequired)
	_, err = svc.CreateUser(context.Background(), sess, model.UserInput{Username: "bob", Role: "ADMIN"})
	assert.EqualError(t, err, MsgPasswordRequired)
	_, err = svc.CreateUser(context.Background(), sess, model.UserInput{Username: "bob", Password: "x", Role: "OWNER"})
	assert.EqualError(t, err, MsgInvalidRole)
	_, err = svc.CreatePurchaseOrder(context.Background(), sess, model.NewPurchaseOrder{SupplierID: 1})
	assert.EqualError(t, err, MsgNoOrderLines)
}

func TestCatalog_WritesAnnounce(t *testing.T) {
	_, api := newFakeBackend(t)
	jobs, pub := &stubJobs{}, &stubPublisher{}
	svc := NewCatalogService(api, jobs, pub)

	c, err := svc.CreateCategory(context.Background(), session(model.RoleAdmin), " Frozen ")
	require.NoError(t, err)
	assert.Equal(t, "Frozen", c.Name)
	assert.Equal(t, []string{"Created category Frozen"}, jobs.actions())
	require.Len(t, pub.events, 1)
	assert.Equal(t, live.EventCatalogChange, pub.events[0].Type)
}

func TestReports_SalesWorkbookAndRange(t *testing.T) {
	f, api := newFakeBackend(t)
	f.orders = []model.Order{{OrderID: 1, PaymentStatus: model.PaymentPaid, Total: dec("30"), OrderDate: "2025-03-10T09:00:00"}}
	svc := NewReportService(api, 15).(*reportService)
	svc.now = func() time.Time { return now }

	data, err := svc.SalesWorkbook(context.Background(), session(model.RoleManager))
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))

	_, err = svc.ProfitLoss(context.Background(), session(model.RoleManager), model.ProfitLossFilter{StartDate: "2025-03-10", EndDate: "2025-03-01"})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}
