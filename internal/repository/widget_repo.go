package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/viahme/viah/internal/entity"
)

// WidgetRepo is the repository for dashboard widgets
type WidgetRepo struct {
	db *gorm.DB
}

// NewWidgetRepo creates a new WidgetRepo
func NewWidgetRepo(db *gorm.DB) *WidgetRepo {
	return &WidgetRepo{db: db}
}

// CreateBatch creates widgets within tx
func (r *WidgetRepo) CreateBatch(ctx context.Context, tx *gorm.DB, ws []*entity.DashboardWidget) error {
	if len(ws) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(ws).Error
}

// ListByWedding lists a wedding's widgets by position
func (r *WidgetRepo) ListByWedding(ctx context.Context, weddingId string) ([]*entity.DashboardWidget, error) {
	return r.listByWedding(r.db.WithContext(ctx), weddingId)
}

// ListByWeddingForUpdate lists and row-locks a wedding's widgets within tx
func (r *WidgetRepo) ListByWeddingForUpdate(ctx context.Context, tx *gorm.DB, weddingId string) ([]*entity.DashboardWidget, error) {
	return r.listByWedding(lockForUpdate(tx.WithContext(ctx)), weddingId)
}

func (r *WidgetRepo) listByWedding(q *gorm.DB, weddingId string) ([]*entity.DashboardWidget, error) {
	var ws []*entity.DashboardWidget
	err := q.Where("wedding_id = ?", weddingId).Order("position ASC, created_at ASC").Find(&ws).Error
	return ws, err
}

// GetById gets a widget, nil when absent
func (r *WidgetRepo) GetById(ctx context.Context, id string) (*entity.DashboardWidget, error) {
	var w entity.DashboardWidget
	return notFoundAsNil(&w, r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error)
}

// SetPosition writes one widget's position within tx
func (r *WidgetRepo) SetPosition(ctx context.Context, tx *gorm.DB, id string, position int) error {
	return tx.WithContext(ctx).Model(&entity.DashboardWidget{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"position": position, "updated_at": entity.NowUnixMilli()}).Error
}

// SetVisibility toggles a widget's visibility
func (r *WidgetRepo) SetVisibility(ctx context.Context, id string, visible bool) error {
	return r.db.WithContext(ctx).Model(&entity.DashboardWidget{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_visible": visible, "updated_at": entity.NowUnixMilli()}).Error
}
