package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bizledger/backend/internal/domain/assets"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds an asset by its ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*assets.Asset, error) {
	var asset assets.Asset
	if err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// FindAll finds all assets matching the filter
func (r *GormAssetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]assets.Asset, error) {
	var result []assets.Asset
	query := r.applyFilter(r.db.WithContext(ctx).Model(&assets.Asset{}), filter)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByVendor finds all assets purchased from a vendor
func (r *GormAssetRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]assets.Asset, error) {
	var result []assets.Asset
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&assets.Asset{}).
			Where("vendor_id = ?", vendorID),
		filter,
	)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// ListIDs returns the IDs of all assets
func (r *GormAssetRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&assets.Asset{}).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates an asset
func (r *GormAssetRepository) Save(ctx context.Context, asset *assets.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

// Delete deletes an asset
func (r *GormAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&assets.Asset{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormAssetRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR vendor_name ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		}
	}

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	orderBy := ValidateSortField(filter.OrderBy, AssetSortFields, "purchase_date")
	orderDir := "DESC"
	if strings.ToLower(filter.OrderDir) == "asc" {
		orderDir = "ASC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormAssetRepository implements AssetRepository
var _ assets.AssetRepository = (*GormAssetRepository)(nil)
