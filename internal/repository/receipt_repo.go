package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"minimart/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReceiptNotFound = errors.New("receipt not found")

type ReceiptRepository interface {
	Create(ctx context.Context, e *model.ReceiptEntry) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*model.ReceiptEntry, error)
	Update(ctx context.Context, e *model.ReceiptEntry) error
	ListRecent(ctx context.Context, locationID int64, limit int) ([]model.ReceiptEntry, error)
}

type receiptRepo struct{ db *gorm.DB }

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepo{db: db}
}

func (r *receiptRepo) Create(ctx context.Context, e *model.ReceiptEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *receiptRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*model.ReceiptEntry, error) {
	var e model.ReceiptEntry
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *receiptRepo) Update(ctx context.Context, e *model.ReceiptEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *receiptRepo) ListRecent(ctx context.Context, locationID int64, limit int) ([]model.ReceiptEntry, error) {
	var out []model.ReceiptEntry
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

type memoryReceiptRepo struct {
	mu      sync.RWMutex
	byOrder map[string]model.ReceiptEntry
	now     func() time.Time
}

func NewMemoryReceiptRepository() ReceiptRepository {
	return &memoryReceiptRepo{byOrder: make(map[string]model.ReceiptEntry), now: time.Now}
}

func (r *memoryReceiptRepo) Create(_ context.Context, e *model.ReceiptEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byOrder[e.OrderNumber]; dup {
		return gorm.ErrDuplicatedKey
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := r.now()
	e.CreatedAt, e.UpdatedAt = now, now
	r.byOrder[e.OrderNumber] = *e
	return nil
}

func (r *memoryReceiptRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*model.ReceiptEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byOrder[orderNumber]
	if !ok {
		return nil, ErrReceiptNotFound
	}
	return &e, nil
}

func (r *memoryReceiptRepo) Update(_ context.Context, e *model.ReceiptEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byOrder[e.OrderNumber]; !ok {
		return ErrReceiptNotFound
	}
	e.UpdatedAt = r.now()
	r.byOrder[e.OrderNumber] = *e
	return nil
}

func (r *memoryReceiptRepo) ListRecent(_ context.Context, locationID int64, limit int) ([]model.ReceiptEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.ReceiptEntry, 0)
	for _, e := range r.byOrder {
		if e.LocationID == locationID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].OrderNumber > out[j].OrderNumber
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
