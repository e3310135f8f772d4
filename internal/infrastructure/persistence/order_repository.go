package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bizledger/backend/internal/domain/procurement"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds a procurement order by its ID including its line items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Order, error) {
	var order procurement.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all orders of the given type. An empty type matches both
// goods and service orders.
func (r *GormOrderRepository) FindAll(ctx context.Context, orderType procurement.OrderType, filter shared.Filter) ([]procurement.Order, error) {
	var result []procurement.Order
	query := r.db.WithContext(ctx).Model(&procurement.Order{}).Preload("Items")
	if orderType != "" {
		query = query.Where("type = ?", orderType)
	}
	query = r.applyFilter(query, filter)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByVendor finds all orders placed with a vendor
func (r *GormOrderRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]procurement.Order, error) {
	var result []procurement.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&procurement.Order{}).Preload("Items").
			Where("vendor_id = ?", vendorID),
		filter,
	)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// ListIDs returns the IDs of all procurement orders
func (r *GormOrderRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&procurement.Order{}).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates an order together with its line items
func (r *GormOrderRepository) Save(ctx context.Context, order *procurement.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			keep[i] = item.ID
		}

		stale := tx.Where("order_id = ?", order.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		return stale.Delete(&procurement.OrderItem{}).Error
	})
}

// Delete deletes an order and its line items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&procurement.OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&procurement.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR vendor_name ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		}
	}

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "order_date")
	orderDir := "DESC"
	if strings.ToLower(filter.OrderDir) == "asc" {
		orderDir = "ASC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormOrderRepository implements OrderRepository
var _ procurement.OrderRepository = (*GormOrderRepository)(nil)
