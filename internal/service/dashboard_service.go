package service

import (
	"context"

	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"

	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/idgen"
)

// DashboardService handles the reorderable financial dashboard
type DashboardService struct {
	widgetRepo  *repository.WidgetRepo
	weddingRepo *repository.WeddingRepo
	repos       *repository.Repositories
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repos *repository.Repositories) *DashboardService {
	return &DashboardService{
		widgetRepo:  repos.Widget,
		weddingRepo: repos.Wedding,
		repos:       repos,
	}
}

// defaultWidgets builds the visible widget set seeded for a new wedding
func defaultWidgets(weddingId string) ([]*entity.DashboardWidget, error) {
	ws := make([]*entity.DashboardWidget, 0, len(constant.DefaultWidgets))
	for i, widgetType := range constant.DefaultWidgets {
		id, err := idgen.NextID()
		if err != nil {
			return nil, err
		}
		ws = append(ws, &entity.DashboardWidget{
			Id:         id,
			WeddingId:  weddingId,
			WidgetType: widgetType,
			Position:   i,
			IsVisible:  true,
		})
	}
	return ws, nil
}

// ListWidgets lists a wedding's widgets in display order
func (s *DashboardService) ListWidgets(ctx context.Context, userId, weddingId string) ([]*entity.DashboardWidget, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}
	ws, err := s.widgetRepo.ListByWedding(ctx, weddingId)
	if err != nil {
		log.CtxError(ctx, "list widgets failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}
	return ws, nil
}

// ReorderRequest represents a full widget order
type ReorderRequest struct {
	WidgetIds []string `json:"widget_ids"`
}

// Reorder rewrites positions 0..n-1 following widgetIds. The id set must
// match the wedding's widgets exactly.
func (s *DashboardService) Reorder(ctx context.Context, userId, weddingId string, widgetIds []string) ([]*entity.DashboardWidget, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}

	var ordered []*entity.DashboardWidget
	err := s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		current, err := s.widgetRepo.ListByWeddingForUpdate(ctx, tx, weddingId)
		if err != nil {
			return err
		}

		ordered, err = applyOrder(current, widgetIds)
		if err != nil {
			return err
		}

		for i, w := range ordered {
			if w.Position == i {
				continue
			}
			if err := s.widgetRepo.SetPosition(ctx, tx, w.Id, i); err != nil {
				return err
			}
			w.Position = i
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(ctx, err, errcode.ErrInternalServer, "reorder widgets failed: wedding_id=%s", weddingId)
	}

	log.CtxInfo(ctx, "widgets reordered: wedding_id=%s, count=%d", weddingId, len(ordered))
	return ordered, nil
}

// applyOrder arranges current by ids, rejecting unknown, missing or repeated ids
func applyOrder(current []*entity.DashboardWidget, ids []string) ([]*entity.DashboardWidget, error) {
	if len(ids) != len(current) {
		return nil, errcode.ErrWidgetOrder
	}
	byId := make(map[string]*entity.DashboardWidget, len(current))
	for _, w := range current {
		byId[w.Id] = w
	}

	ordered := make([]*entity.DashboardWidget, 0, len(ids))
	for _, id := range ids {
		w, ok := byId[id]
		if !ok {
			return nil, errcode.ErrWidgetOrder
		}
		delete(byId, id)
		ordered = append(ordered, w)
	}
	return ordered, nil
}

// VisibilityRequest represents a widget visibility toggle
type VisibilityRequest struct {
	IsVisible bool `json:"is_visible"`
}

// SetVisibility shows or hides one widget
func (s *DashboardService) SetVisibility(ctx context.Context, userId, widgetId string, visible bool) (*entity.DashboardWidget, error) {
	w, err := s.widgetRepo.GetById(ctx, widgetId)
	if err != nil {
		log.CtxError(ctx, "get widget failed: widget_id=%s, error=%v", widgetId, err)
		return nil, errcode.ErrInternalServer
	}
	if w == nil {
		return nil, errcode.ErrWidgetNotFound
	}
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, w.WeddingId); err != nil {
		return nil, err
	}

	if err := s.widgetRepo.SetVisibility(ctx, widgetId, visible); err != nil {
		log.CtxError(ctx, "set widget visibility failed: widget_id=%s, error=%v", widgetId, err)
		return nil, errcode.ErrInternalServer
	}
	w.IsVisible = visible
	return w, nil
}
