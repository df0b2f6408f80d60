package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/viahme/viah/internal/entity"
)

// BookingRepo is the repository for bookings and contracts
type BookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo creates a new BookingRepo
func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// Create creates a booking
func (r *BookingRepo) Create(ctx context.Context, b *entity.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// GetById gets a booking, nil when absent
func (r *BookingRepo) GetById(ctx context.Context, id string) (*entity.Booking, error) {
	var b entity.Booking
	return notFoundAsNil(&b, r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error)
}

// ListByVendor lists a vendor's bookings, newest first
func (r *BookingRepo) ListByVendor(ctx context.Context, vendorId string) ([]*entity.Booking, error) {
	var bs []*entity.Booking
	err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorId).Order("created_at DESC").Find(&bs).Error
	return bs, err
}

// ListByWedding lists a wedding's bookings, newest first
func (r *BookingRepo) ListByWedding(ctx context.Context, weddingId string) ([]*entity.Booking, error) {
	var bs []*entity.Booking
	err := r.db.WithContext(ctx).Where("wedding_id = ?", weddingId).Order("created_at DESC").Find(&bs).Error
	return bs, err
}

// UpdateStatus moves a booking from one status to another. It reports false
// when the row was changed concurrently and no longer holds from.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": entity.NowUnixMilli()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreateContract creates a contract
func (r *BookingRepo) CreateContract(ctx context.Context, c *entity.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// ListContractsByWedding lists a wedding's contracts
func (r *BookingRepo) ListContractsByWedding(ctx context.Context, weddingId string) ([]*entity.Contract, error) {
	var cs []*entity.Contract
	err := r.db.WithContext(ctx).Where("wedding_id = ?", weddingId).Order("created_at ASC").Find(&cs).Error
	return cs, err
}
