package service

import (
	"context"
	"sync"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/store"

	"github.com/shopspring/decimal"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var (
	_ SaleStore      = (*store.Store)(nil)
	_ StockCache     = (*fakeCache)(nil)
	_ EventPublisher = (*fakePublisher)(nil)
	_ KeyLocker      = (*fakeLocker)(nil)
)

type fakeCache struct {
	mu     sync.Mutex
	levels map[int64]models.StockLevel
	reads  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{levels: map[int64]models.StockLevel{}}
}

func (c *fakeCache) SetStock(_ context.Context, level models.StockLevel) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.levels[level.ItemID]; ok && cur.Version > level.Version {
		return false, nil
	}
	c.levels[level.ItemID] = level
	return true, nil
}

func (c *fakeCache) GetStock(_ context.Context, itemID int64) (*models.StockLevel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	level, ok := c.levels[itemID]
	if !ok {
		return nil, nil
	}
	return &level, nil
}

func (c *fakeCache) InvalidateStock(_ context.Context, itemID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.levels, itemID)
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	completed []*models.SaleCompletedEvent
	deleted   []*models.SaleDeletedEvent
	purchases []*models.PurchaseRecordedEvent
	low       []*models.StockLowEvent
}

func (p *fakePublisher) PublishSaleCompleted(_ context.Context, e *models.SaleCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, e)
	return nil
}

func (p *fakePublisher) PublishSaleDeleted(_ context.Context, e *models.SaleDeletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, e)
	return nil
}

func (p *fakePublisher) PublishPurchaseRecorded(_ context.Context, e *models.PurchaseRecordedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.purchases = append(p.purchases, e)
	return nil
}

func (p *fakePublisher) PublishStockLow(_ context.Context, e *models.StockLowEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.low = append(p.low, e)
	return nil
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func (l *fakeLocker) AcquireLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocker) ReleaseLock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
