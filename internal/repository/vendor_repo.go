package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/viahme/viah/internal/entity"
)

// VendorRepo is the repository for vendors and their portfolio photos
type VendorRepo struct {
	db *gorm.DB
}

// NewVendorRepo creates a new VendorRepo
func NewVendorRepo(db *gorm.DB) *VendorRepo {
	return &VendorRepo{db: db}
}

// Create creates a vendor
func (r *VendorRepo) Create(ctx context.Context, v *entity.Vendor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

// GetById gets a vendor, nil when absent
func (r *VendorRepo) GetById(ctx context.Context, id string) (*entity.Vendor, error) {
	var v entity.Vendor
	return notFoundAsNil(&v, r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error)
}

// GetByIds gets vendors by Ids
func (r *VendorRepo) GetByIds(ctx context.Context, ids []string) ([]*entity.Vendor, error) {
	var vs []*entity.Vendor
	if len(ids) == 0 {
		return vs, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&vs).Error
	return vs, err
}

// FindDuplicate looks up a vendor by its normalized name and city key
func (r *VendorRepo) FindDuplicate(ctx context.Context, normalizedName, cityKey string) (*entity.Vendor, error) {
	var v entity.Vendor
	err := r.db.WithContext(ctx).
		Where("normalized_name = ? AND city_key = ?", normalizedName, cityKey).
		First(&v).Error
	return notFoundAsNil(&v, err)
}

// VendorFilter narrows a vendor listing; empty fields match everything
type VendorFilter struct {
	Category string
	CityKey  string
	Limit    int
	Offset   int
}

// List lists vendors matching filter
func (r *VendorRepo) List(ctx context.Context, f VendorFilter) ([]*entity.Vendor, error) {
	q := r.db.WithContext(ctx).Model(&entity.Vendor{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.CityKey != "" {
		q = q.Where("city_key = ?", f.CityKey)
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	var vs []*entity.Vendor
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&vs).Error
	return vs, err
}

// ListByOwner lists vendors managed by a user
func (r *VendorRepo) ListByOwner(ctx context.Context, ownerUserId string) ([]*entity.Vendor, error) {
	var vs []*entity.Vendor
	err := r.db.WithContext(ctx).Where("owner_user_id = ?", ownerUserId).Find(&vs).Error
	return vs, err
}

// CreatePhoto appends a photo at the end of the vendor's gallery
func (r *VendorRepo) CreatePhoto(ctx context.Context, p *entity.PortfolioPhoto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos *int
		if err := tx.Model(&entity.PortfolioPhoto{}).
			Where("vendor_id = ?", p.VendorId).
			Select("MAX(position)").
			Scan(&maxPos).Error; err != nil {
			return err
		}
		p.Position = 0
		if maxPos != nil {
			p.Position = *maxPos + 1
		}
		return tx.Create(p).Error
	})
}

// GetPhoto gets a photo, nil when absent
func (r *VendorRepo) GetPhoto(ctx context.Context, id string) (*entity.PortfolioPhoto, error) {
	var p entity.PortfolioPhoto
	return notFoundAsNil(&p, r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error)
}

// ListPhotos lists a vendor's photos in gallery order
func (r *VendorRepo) ListPhotos(ctx context.Context, vendorId string) ([]*entity.PortfolioPhoto, error) {
	var ps []*entity.PortfolioPhoto
	err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorId).Order("position ASC").Find(&ps).Error
	return ps, err
}

// DeletePhoto removes a photo
func (r *VendorRepo) DeletePhoto(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PortfolioPhoto{}).Error
}
