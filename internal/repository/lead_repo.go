package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/viahme/viah/internal/entity"
)

// LeadRepo is the repository for vendor leads
type LeadRepo struct {
	db *gorm.DB
}

// NewLeadRepo creates a new LeadRepo
func NewLeadRepo(db *gorm.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

// Create creates a lead
func (r *LeadRepo) Create(ctx context.Context, l *entity.VendorLead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// GetById gets a lead, nil when absent
func (r *LeadRepo) GetById(ctx context.Context, id string) (*entity.VendorLead, error) {
	var l entity.VendorLead
	return notFoundAsNil(&l, r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error)
}

// ListByVendor lists a vendor's leads, optionally filtered by status
func (r *LeadRepo) ListByVendor(ctx context.Context, vendorId, status string) ([]*entity.VendorLead, error) {
	q := r.db.WithContext(ctx).Where("vendor_id = ?", vendorId)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var ls []*entity.VendorLead
	err := q.Order("created_at DESC").Find(&ls).Error
	return ls, err
}

// UpdateStatus sets a lead's pipeline status
func (r *LeadRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&entity.VendorLead{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": entity.NowUnixMilli()}).Error
}
