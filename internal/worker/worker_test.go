package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"minimart/internal/apierror"
	"minimart/internal/infra"
	"minimart/internal/model"
	"minimart/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

type stubLogger struct {
	err   error
	got   []model.NewActivityLog
	token string
}

func (s *stubLogger) LogActivity(_ context.Context, token string, in model.NewActivityLog) error {
	s.token = token
	s.got = append(s.got, in)
	return s.err
}

type stubMailer struct {
	to, fileName string
	pdf          []byte
	err          error
}

func (m *stubMailer) SendReceipt(to, _, _, fileName string, pdf []byte) error {
	m.to, m.fileName, m.pdf = to, fileName, pdf
	return m.err
}

// signedIn stores one live session under "sid".
func signedIn(t *testing.T) repository.SessionRepository {
	t.Helper()
	repo := repository.NewMemorySessionRepository()
	sess := &model.Session{Token: "jwt", User: &model.SessionUser{UserID: 7, Username: "ana", Role: model.RoleCashier}}
	require.NoError(t, repo.Save(context.Background(), "sid", sess, time.Hour))
	return repo
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func journal(t *testing.T, repo repository.ReceiptRepository, orderNumber string) {
	t.Helper()
	r := model.Receipt{
		OrderNumber: orderNumber,
		OrderDate:   time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Items:       []model.ReceiptLine{{ProductID: 1, Name: "Milk", Price: decimal.RequireFromString("2.25"), Qty: 2}},
		Totals:      model.ReceiptTotals{Subtotal: decimal.RequireFromString("4.50"), Total: decimal.RequireFromString("4.50")},
	}
	body, err := json.Marshal(r)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &model.ReceiptEntry{OrderNumber: orderNumber, LocationID: 1, Body: string(body)}))
}

// ── Activity ─────────────────────────────────────────────────────────────────

func TestActivityWorker_Posts(t *testing.T) {
	l := &stubLogger{}
	w := NewActivityWorker(l, signedIn(t))
	payload := raw(t, ActivityPayload{SessionID: "sid", Entry: model.NewActivityLog{UserID: 7, Action: "Completed sale INV-00042"}})
	assert.NotContains(t, string(payload), "jwt")

	err := w.Process(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, l.got, 1)
	assert.Equal(t, "jwt", l.token)
	assert.Equal(t, "Completed sale INV-00042", l.got[0].Action)
}

func TestActivityWorker_SessionGoneIsPermanent(t *testing.T) {
	l := &stubLogger{}
	w := NewActivityWorker(l, signedIn(t))
	err := w.Process(context.Background(), raw(t, ActivityPayload{SessionID: "signed-out", Entry: model.NewActivityLog{Action: "x"}}))
	require.Error(t, err)
	assert.True(t, isPermanent(err))
	assert.Empty(t, l.got)
}

func TestActivityWorker_ClientErrorIsPermanent(t *testing.T) {
	sessions := signedIn(t)
	w := NewActivityWorker(&stubLogger{err: apierror.HTTP(400, "Unable to log activity (status 400)")}, sessions)
	err := w.Process(context.Background(), raw(t, ActivityPayload{SessionID: "sid", Entry: model.NewActivityLog{Action: "x"}}))
	require.Error(t, err)
	assert.True(t, isPermanent(err))

	w = NewActivityWorker(&stubLogger{err: apierror.HTTP(503, "Unable to log activity (status 503)")}, sessions)
	err = w.Process(context.Background(), raw(t, ActivityPayload{SessionID: "sid", Entry: model.NewActivityLog{Action: "x"}}))
	require.Error(t, err)
	assert.False(t, isPermanent(err))
}

func TestActivityWorker_BadPayload(t *testing.T) {
	err := NewActivityWorker(&stubLogger{}, signedIn(t)).Process(context.Background(), json.RawMessage(`"nope"`))
	assert.True(t, isPermanent(err))
}

// ── Receipt email ────────────────────────────────────────────────────────────

func TestReceiptWorker_SendsAndMarks(t *testing.T) {
	repo := repository.NewMemoryReceiptRepository()
	journal(t, repo, "INV-00042")
	m := &stubMailer{}
	dir := t.TempDir()
	w := NewReceiptWorker(repo, m, infra.ReceiptLayout{StoreName: "Mini Mart", Currency: "$"}, dir)

	require.NoError(t, w.Process(context.Background(), raw(t, ReceiptEmailPayload{OrderNumber: "INV-00042", To: "buyer@example.com"})))
	assert.Equal(t, "buyer@example.com", m.to)
	assert.Equal(t, "receipt_INV-00042.pdf", m.fileName)
	assert.NotEmpty(t, m.pdf)

	e, err := repo.FindByOrderNumber(context.Background(), "INV-00042")
	require.NoError(t, err)
	require.NotNil(t, e.EmailedTo)
	require.NotNil(t, e.PDFPath)
	assert.FileExists(t, *e.PDFPath)
}

func TestReceiptWorker_UnknownOrderIsPermanent(t *testing.T) {
	w := NewReceiptWorker(repository.NewMemoryReceiptRepository(), &stubMailer{}, infra.ReceiptLayout{}, "")
	err := w.Process(context.Background(), raw(t, ReceiptEmailPayload{OrderNumber: "INV-1", To: "a@b.c"}))
	assert.True(t, isPermanent(err))
	assert.ErrorIs(t, err, repository.ErrReceiptNotFound)
}

func TestReceiptWorker_MailFailureRetries(t *testing.T) {
	repo := repository.NewMemoryReceiptRepository()
	journal(t, repo, "INV-00001")
	w := NewReceiptWorker(repo, &stubMailer{err: errors.New("dial tcp: refused")}, infra.ReceiptLayout{}, "")

	err := w.Process(context.Background(), raw(t, ReceiptEmailPayload{OrderNumber: "INV-00001", To: "a@b.c"}))
	require.Error(t, err)
	assert.False(t, isPermanent(err))
}

func TestReceiptWorker_MailerDisabledIsPermanent(t *testing.T) {
	repo := repository.NewMemoryReceiptRepository()
	journal(t, repo, "INV-00001")
	w := NewReceiptWorker(repo, &stubMailer{err: infra.ErrMailerDisabled}, infra.ReceiptLayout{}, "")

	err := w.Process(context.Background(), raw(t, ReceiptEmailPayload{OrderNumber: "INV-00001", To: "a@b.c"}))
	require.Error(t, err)
	assert.True(t, isPermanent(err))
}

// ── Dispatch ─────────────────────────────────────────────────────────────────

func TestPopBackoff(t *testing.T) {
	assert.Zero(t, popBackoff(nil))
	assert.Zero(t, popBackoff(redis.Nil), "empty queue polls again at once")
	assert.Zero(t, popBackoff(context.Canceled))
	assert.Equal(t, popErrorDelay, popBackoff(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")))
}

func TestRunHandler_UnknownTypeAndPanic(t *testing.T) {
	err := runHandler(context.Background(), Handlers{}, Job{Type: "nope"})
	assert.True(t, isPermanent(err))

	err = runHandler(context.Background(), Handlers{"boom": func(context.Context, json.RawMessage) error { panic("x") }}, Job{Type: "boom"})
	assert.True(t, isPermanent(err))
}

func TestLocalDispatcher_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	d := NewLocalDispatcher(context.Background(), Handlers{
		JobActivity: func(context.Context, json.RawMessage) error {
			if calls.Add(1) < 2 {
				return errors.New("transient")
			}
			return nil
		},
	})
	d.backoff = time.Millisecond

	require.NoError(t, d.EnqueueActivity(context.Background(), ActivityPayload{Entry: model.NewActivityLog{Action: "x"}}))
	d.Wait()
	assert.Equal(t, int32(2), calls.Load())
}

func TestLocalDispatcher_StopsAtMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	d := NewLocalDispatcher(context.Background(), Handlers{
		JobReceiptEmail: func(context.Context, json.RawMessage) error {
			calls.Add(1)
			return errors.New("always")
		},
	})
	d.backoff = time.Millisecond

	require.NoError(t, d.EnqueueReceiptEmail(context.Background(), ReceiptEmailPayload{OrderNumber: "INV-1"}))
	d.Wait()
	assert.Equal(t, int32(MaxAttempts), calls.Load())
}

func TestLocalDispatcher_PermanentNotRetried(t *testing.T) {
	var calls atomic.Int32
	d := NewLocalDispatcher(context.Background(), Handlers{
		JobActivity: func(context.Context, json.RawMessage) error {
			calls.Add(1)
			return Permanent(errors.New("bad request"))
		},
	})
	require.NoError(t, d.EnqueueActivity(context.Background(), ActivityPayload{}))
	d.Wait()
	assert.Equal(t, int32(1), calls.Load())
}
