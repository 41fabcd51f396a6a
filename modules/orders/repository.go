package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an order is not in the ledger.
	ErrNotFound = errors.New("order not found")
	// ErrDuplicate is returned when the same order event is recorded twice.
	ErrDuplicate = errors.New("order already recorded")
)

// Repository provides access to the order ledger.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates an order repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves an order with its lines. Orders sharing a number are kept
// apart by their event id.
func (r *Repository) Create(ctx context.Context, rec *OrderRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&OrderRecord{}).Where("event_id = ?", rec.EventID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check order id: %w", err)
		}
		if count > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

// FindByNumber retrieves the most recent order with the given number.
func (r *Repository) FindByNumber(ctx context.Context, number string) (*OrderRecord, error) {
	var rec OrderRecord
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("number = ?", number).
		Order("placed_at DESC").Order("id DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &rec, nil
}

// List returns a page of orders, newest first.
func (r *Repository) List(ctx context.Context, opts ListOptions) (*Page, error) {
	opts = opts.Normalize()
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&OrderRecord{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	records := make([]OrderRecord, 0, opts.PageSize)
	if err := db.Preload("Lines").
		Order("placed_at DESC").Order("id DESC").
		Offset(opts.offset()).Limit(opts.PageSize).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &Page{
		Orders:   records,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}, nil
}
