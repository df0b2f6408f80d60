package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/viahme/viah/internal/entity"
)

// WeddingRepo is the repository for weddings, their events and websites
type WeddingRepo struct {
	db *gorm.DB
}

// NewWeddingRepo creates a new WeddingRepo
func NewWeddingRepo(db *gorm.DB) *WeddingRepo {
	return &WeddingRepo{db: db}
}

// Create creates a wedding within tx
func (r *WeddingRepo) Create(ctx context.Context, tx *gorm.DB, w *entity.Wedding) error {
	return tx.WithContext(ctx).Create(w).Error
}

// GetById gets a wedding, nil when absent
func (r *WeddingRepo) GetById(ctx context.Context, id string) (*entity.Wedding, error) {
	var w entity.Wedding
	return notFoundAsNil(&w, r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error)
}

// ListByOwner lists weddings owned by a user, newest first
func (r *WeddingRepo) ListByOwner(ctx context.Context, ownerId string) ([]*entity.Wedding, error) {
	var ws []*entity.Wedding
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerId).Order("created_at DESC").Find(&ws).Error
	return ws, err
}

// Update updates wedding columns
func (r *WeddingRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.Wedding{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes a wedding
func (r *WeddingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Wedding{}).Error
}

// CreateEvent creates an event
func (r *WeddingRepo) CreateEvent(ctx context.Context, e *entity.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// GetEvent gets an event, nil when absent
func (r *WeddingRepo) GetEvent(ctx context.Context, id string) (*entity.Event, error) {
	var e entity.Event
	return notFoundAsNil(&e, r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error)
}

// ListEvents lists a wedding's events in date order
func (r *WeddingRepo) ListEvents(ctx context.Context, weddingId string) ([]*entity.Event, error) {
	var es []*entity.Event
	err := r.db.WithContext(ctx).Where("wedding_id = ?", weddingId).Order("event_date ASC, created_at ASC").Find(&es).Error
	return es, err
}

// GetEventsByIds gets events by Ids
func (r *WeddingRepo) GetEventsByIds(ctx context.Context, ids []string) ([]*entity.Event, error) {
	var es []*entity.Event
	if len(ids) == 0 {
		return es, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&es).Error
	return es, err
}

// UpdateEvent updates event columns
func (r *WeddingRepo) UpdateEvent(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.Event{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteEvent removes an event
func (r *WeddingRepo) DeleteEvent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Event{}).Error
}

// UpsertWebsite creates or replaces a wedding's website
func (r *WeddingRepo) UpsertWebsite(ctx context.Context, site *entity.WeddingWebsite) error {
	now := entity.NowUnixMilli()
	site.UpdatedAt = now
	if site.CreatedAt == 0 {
		site.CreatedAt = now
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wedding_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"slug", "headline", "story", "published", "updated_at"}),
	}).Create(site).Error
}

// GetWebsite gets a wedding's website, nil when absent
func (r *WeddingRepo) GetWebsite(ctx context.Context, weddingId string) (*entity.WeddingWebsite, error) {
	var site entity.WeddingWebsite
	return notFoundAsNil(&site, r.db.WithContext(ctx).Where("wedding_id = ?", weddingId).First(&site).Error)
}

// GetWebsiteBySlug gets a website by slug, nil when absent
func (r *WeddingRepo) GetWebsiteBySlug(ctx context.Context, slug string) (*entity.WeddingWebsite, error) {
	var site entity.WeddingWebsite
	return notFoundAsNil(&site, r.db.WithContext(ctx).Where("slug = ?", slug).First(&site).Error)
}
