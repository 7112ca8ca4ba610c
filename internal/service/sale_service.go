package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockCache keeps a read-side copy of stock levels
type StockCache interface {
	SetStock(ctx context.Context, level models.StockLevel) (bool, error)
	GetStock(ctx context.Context, itemID int64) (*models.StockLevel, error)
	InvalidateStock(ctx context.Context, itemID int64) error
}

// KeyLocker guards a key across service instances
type KeyLocker interface {
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey string) error
}

// EventPublisher publishes domain events after a commit
type EventPublisher interface {
	PublishSaleCompleted(ctx context.Context, event *models.SaleCompletedEvent) error
	PublishSaleDeleted(ctx context.Context, event *models.SaleDeletedEvent) error
	PublishPurchaseRecorded(ctx context.Context, event *models.PurchaseRecordedEvent) error
	PublishStockLow(ctx context.Context, event *models.StockLowEvent) error
}

// SaleStore persists sales
type SaleStore interface {
	CreateSale(ctx context.Context, sale *models.Sale, details []models.SaleDetail) (*store.SaleResult, error)
	GetSaleByID(ctx context.Context, id int64) (*models.Sale, error)
	GetSaleByIdempotencyKey(ctx context.Context, key string) (*models.Sale, error)
	GetSaleDetails(ctx context.Context, saleID int64) ([]models.SaleDetail, error)
	ListSales(ctx context.Context, f store.SaleFilter) ([]models.Sale, error)
	DeleteSale(ctx context.Context, id int64) (*store.SaleResult, error)
}

// SaleOptions tunes the sale transaction
type SaleOptions struct {
	TxTimeout         time.Duration
	MaxAttempts       int
	LowStockThreshold int64
}

// SaleService handles point-of-sale transactions
type SaleService struct {
	store     SaleStore
	cache     StockCache
	locker    KeyLocker
	publisher EventPublisher
	opts      SaleOptions
	logger    *zap.Logger
}

// NewSaleService creates a new sale service. cache, locker and publisher
// may be nil.
func NewSaleService(
	store SaleStore,
	cache StockCache,
	locker KeyLocker,
	publisher EventPublisher,
	opts SaleOptions,
) *SaleService {
	if opts.TxTimeout <= 0 {
		opts.TxTimeout = 15 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	return &SaleService{
		store:     store,
		cache:     cache,
		locker:    locker,
		publisher: publisher,
		opts:      opts,
		logger:    util.GetLogger(),
	}
}

// CreateSaleRequest represents a request to record a sale
type CreateSaleRequest struct {
	CustomerID     int64             `json:"customer_id" validate:"required,gt=0"`
	SubTotal       *decimal.Decimal  `json:"sub_total"`
	GrandTotal     *decimal.Decimal  `json:"grand_total"`
	TaxAmount      *decimal.Decimal  `json:"tax_amount"`
	TaxPercentage  *float64          `json:"tax_percentage" validate:"omitempty,gte=0,lte=100"`
	AmountPaid     *decimal.Decimal  `json:"amount_paid"`
	AmountChange   *decimal.Decimal  `json:"amount_change"`
	Items          []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
	IdempotencyKey string            `json:"idempotency_key,omitempty" validate:"omitempty,max=128"`
}

// SaleLineRequest represents one line of a sale
type SaleLineRequest struct {
	ItemID    int64            `json:"item_id" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Quantity  int64            `json:"quantity" validate:"required,gt=0,lte=1000000"`
	LineTotal *decimal.Decimal `json:"line_total"`
}

// CreateSaleResponse represents the response after recording a sale
type CreateSaleResponse struct {
	SaleID    int64               `json:"sale_id"`
	Duplicate bool                `json:"duplicate,omitempty"`
	Stock     []models.StockLevel `json:"stock,omitempty"`
}

// SaleView is a sale with its lines
type SaleView struct {
	models.Sale
	Details []models.SaleDetail `json:"details"`
}

// CreateSale validates the request and commits the sale, its lines and the
// stock decrements atomically. The transaction runs to completion even if
// ctx is cancelled, bounded by the configured timeout.
func (s *SaleService) CreateSale(ctx context.Context, req *CreateSaleRequest) (*CreateSaleResponse, error) {
	ctx, span := util.StartSpan(ctx, "SaleService.CreateSale")
	defer span.End()

	sale, details, err := buildSale(req)
	if err != nil {
		util.SalesFailedTotal.WithLabelValues(errs.KindMalformedRequest).Inc()
		return nil, err
	}

	if key := req.IdempotencyKey; key != "" {
		if resp, err := s.findDuplicate(ctx, key); resp != nil || err != nil {
			return resp, err
		}

		release, err := s.lockKey(ctx, key)
		if err != nil {
			util.SalesFailedTotal.WithLabelValues("in_progress").Inc()
			return nil, err
		}
		defer release()
	}

	result, err := s.commit(ctx, sale, details)
	if err != nil {
		if req.IdempotencyKey != "" && errs.KindOf(err) == errs.KindPersistence {
			// a concurrent request with the same key won the unique index
			if resp, lookupErr := s.findDuplicate(ctx, req.IdempotencyKey); resp != nil && lookupErr == nil {
				return resp, nil
			}
		}
		util.SalesFailedTotal.WithLabelValues(errs.KindOf(err)).Inc()
		s.logger.Info("Sale rejected",
			zap.Int64("customer_id", req.CustomerID),
			zap.String("kind", errs.KindOf(err)),
			zap.Error(err))
		return nil, err
	}

	util.SalesCreatedTotal.Inc()
	var units int64
	for _, d := range result.Details {
		units += d.Quantity
	}
	if units > 0 {
		util.UnitsSoldTotal.Add(float64(units))
	}

	s.logger.Info("Sale created",
		zap.Int64("sale_id", result.Sale.ID),
		zap.Int64("customer_id", result.Sale.CustomerID),
		zap.String("grand_total", result.Sale.GrandTotal.StringFixed(2)))

	s.afterCommit(context.WithoutCancel(ctx), result)

	return &CreateSaleResponse{SaleID: result.Sale.ID, Stock: result.Stock}, nil
}

// commit runs the store transaction, retrying serialization failures
func (s *SaleService) commit(ctx context.Context, sale *models.Sale, details []models.SaleDetail) (*store.SaleResult, error) {
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.TxTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		util.SaleCommitLatency.Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		lines := append([]models.SaleDetail(nil), details...)
		result, err := s.store.CreateSale(txCtx, sale, lines)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !errs.IsRetryable(err) || attempt == s.opts.MaxAttempts {
			break
		}
		util.SaleRetriesTotal.Inc()
		s.logger.Warn("Retrying sale transaction",
			zap.Int("attempt", attempt),
			zap.Error(err))

		select {
		case <-txCtx.Done():
			return nil, errs.Persistence("create sale", txCtx.Err())
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	return nil, lastErr
}

func (s *SaleService) findDuplicate(ctx context.Context, key string) (*CreateSaleResponse, error) {
	existing, err := s.store.GetSaleByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, errs.Persistence("check idempotency key", err)
	}
	if existing == nil {
		return nil, nil
	}
	s.logger.Info("Duplicate sale request detected",
		zap.String("idempotency_key", key),
		zap.Int64("sale_id", existing.ID))
	return &CreateSaleResponse{SaleID: existing.ID, Duplicate: true}, nil
}

// lockKey holds the idempotency key while the sale commits. Without a
// locker the unique index on the key still rejects the second writer.
func (s *SaleService) lockKey(ctx context.Context, key string) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	lockKey := "sale:" + key
	ok, err := s.locker.AcquireLock(ctx, lockKey, s.opts.TxTimeout)
	if err != nil {
		s.logger.Warn("Failed to acquire idempotency lock", zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, errs.Malformed("idempotency_key", "a sale with this key is already being processed")
	}
	return func() {
		if err := s.locker.ReleaseLock(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logger.Warn("Failed to release idempotency lock", zap.Error(err))
		}
	}, nil
}

func (s *SaleService) afterCommit(ctx context.Context, result *store.SaleResult) {
	refreshStock(ctx, s.cache, s.logger, result.Stock)

	if s.publisher == nil {
		return
	}

	lines := make([]models.SaleLineData, 0, len(result.Details))
	for _, d := range result.Details {
		lines = append(lines, models.SaleLineData{ItemID: d.ItemID, Quantity: d.Quantity, Price: d.Price})
	}
	event := &models.SaleCompletedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeSaleCompleted),
		SaleID:     result.Sale.ID,
		CustomerID: result.Sale.CustomerID,
		GrandTotal: result.Sale.GrandTotal,
		Lines:      lines,
	}
	if err := s.publisher.PublishSaleCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish SaleCompleted event", zap.Error(err))
	}

	for _, level := range result.Stock {
		if level.Quantity > s.opts.LowStockThreshold {
			continue
		}
		low := &models.StockLowEvent{
			BaseEvent: newBaseEvent(models.EventTypeStockLow),
			ItemID:    level.ItemID,
			ItemName:  level.Name,
			Quantity:  level.Quantity,
			Threshold: s.opts.LowStockThreshold,
		}
		if err := s.publisher.PublishStockLow(ctx, low); err != nil {
			s.logger.Error("Failed to publish StockLow event", zap.Error(err))
		}
	}
}

// GetSale retrieves a sale with its lines
func (s *SaleService) GetSale(ctx context.Context, id int64) (*SaleView, error) {
	ctx, span := util.StartSpan(ctx, "SaleService.GetSale")
	defer span.End()

	sale, err := s.store.GetSaleByID(ctx, id)
	if err != nil {
		return nil, errs.Persistence("get sale", err)
	}
	details, err := s.store.GetSaleDetails(ctx, id)
	if err != nil {
		return nil, errs.Persistence("get sale details", err)
	}
	return &SaleView{Sale: *sale, Details: details}, nil
}

// ListSales retrieves sales matching the filter
func (s *SaleService) ListSales(ctx context.Context, f store.SaleFilter) ([]models.Sale, error) {
	sales, err := s.store.ListSales(ctx, f)
	return sales, errs.Persistence("list sales", err)
}

// DeleteSale removes a sale and returns its units to stock
func (s *SaleService) DeleteSale(ctx context.Context, id int64) (*SaleView, error) {
	ctx, span := util.StartSpan(ctx, "SaleService.DeleteSale")
	defer span.End()

	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.TxTimeout)
	defer cancel()

	result, err := s.store.DeleteSale(txCtx, id)
	if err != nil {
		return nil, err
	}

	util.SalesDeletedTotal.Inc()
	s.logger.Info("Sale deleted, stock restored", zap.Int64("sale_id", id))

	bg := context.WithoutCancel(ctx)
	refreshStock(bg, s.cache, s.logger, result.Stock)
	if s.publisher != nil {
		event := &models.SaleDeletedEvent{
			BaseEvent:  newBaseEvent(models.EventTypeSaleDeleted),
			SaleID:     result.Sale.ID,
			CustomerID: result.Sale.CustomerID,
		}
		if err := s.publisher.PublishSaleDeleted(bg, event); err != nil {
			s.logger.Error("Failed to publish SaleDeleted event", zap.Error(err))
		}
	}

	return &SaleView{Sale: result.Sale, Details: result.Details}, nil
}

// buildSale checks the request and converts it to rows. Amounts must agree
// to the cent: line_total = unit_price * quantity, sub_total = sum of
// line totals, grand_total = sub_total + tax_amount and
// amount_change = amount_paid - grand_total.
func buildSale(req *CreateSaleRequest) (*models.Sale, []models.SaleDetail, error) {
	if req == nil {
		return nil, nil, errs.Malformed("", "empty request")
	}
	if err := validateStruct(req); err != nil {
		return nil, nil, err
	}

	required := []struct {
		field  string
		amount *decimal.Decimal
	}{
		{"sub_total", req.SubTotal},
		{"grand_total", req.GrandTotal},
		{"amount_paid", req.AmountPaid},
		{"amount_change", req.AmountChange},
	}
	for _, r := range required {
		if err := requireAmount(r.field, r.amount); err != nil {
			return nil, nil, err
		}
	}
	tax, err := optionalAmount("tax_amount", req.TaxAmount)
	if err != nil {
		return nil, nil, err
	}
	var taxPct float64
	if req.TaxPercentage != nil {
		taxPct = *req.TaxPercentage
	}

	details := make([]models.SaleDetail, 0, len(req.Items))
	sum := decimal.Zero
	perItem := make(map[int64]int64, len(req.Items))
	for i, line := range req.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		if perItem[line.ItemID] > math.MaxInt64-line.Quantity {
			return nil, nil, errs.Malformed(prefix+"quantity", "total quantity for this item is too large")
		}
		perItem[line.ItemID] += line.Quantity

		if err := requireAmount(prefix+"unit_price", line.UnitPrice); err != nil {
			return nil, nil, err
		}
		if err := requireAmount(prefix+"line_total", line.LineTotal); err != nil {
			return nil, nil, err
		}

		expected := line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
		if !sameCents(expected, *line.LineTotal) {
			return nil, nil, errs.Malformed(prefix+"line_total",
				fmt.Sprintf("must equal unit_price * quantity (%s)", expected.StringFixed(2)))
		}

		d := models.SaleDetail{
			ItemID:      line.ItemID,
			Price:       line.UnitPrice.Round(2),
			Quantity:    line.Quantity,
			TotalDetail: line.LineTotal.Round(2),
		}
		sum = sum.Add(d.TotalDetail)
		details = append(details, d)
	}

	if !sameCents(sum, *req.SubTotal) {
		return nil, nil, errs.Malformed("sub_total",
			fmt.Sprintf("must equal the sum of line totals (%s)", sum.StringFixed(2)))
	}
	if grand := req.SubTotal.Add(tax); !sameCents(grand, *req.GrandTotal) {
		return nil, nil, errs.Malformed("grand_total",
			fmt.Sprintf("must equal sub_total + tax_amount (%s)", grand.StringFixed(2)))
	}
	if change := req.AmountPaid.Sub(*req.GrandTotal); !sameCents(change, *req.AmountChange) {
		return nil, nil, errs.Malformed("amount_change",
			fmt.Sprintf("must equal amount_paid - grand_total (%s)", change.StringFixed(2)))
	}

	sale := &models.Sale{
		CustomerID:    req.CustomerID,
		SubTotal:      req.SubTotal.Round(2),
		GrandTotal:    req.GrandTotal.Round(2),
		TaxAmount:     tax.Round(2),
		TaxPercentage: taxPct,
		AmountPaid:    req.AmountPaid.Round(2),
		AmountChange:  req.AmountChange.Round(2),
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		sale.IdempotencyKey = &key
	}
	return sale, details, nil
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// refreshStock writes committed stock levels through to the cache. A failed
// write drops the entry so readers fall back to the database.
func refreshStock(ctx context.Context, cache StockCache, logger *zap.Logger, levels []models.StockLevel) {
	if cache == nil {
		return
	}
	for _, level := range levels {
		if _, err := cache.SetStock(ctx, level); err != nil {
			logger.Warn("Failed to cache stock level",
				zap.Int64("item_id", level.ItemID),
				zap.Error(err))
			_ = cache.InvalidateStock(ctx, level.ItemID)
		}
	}
}
