package sdk

import (
	"context"
	"sync"

	"github.com/viahme/viah/internal/entity"
)

// Dashboard holds a wedding's widget order. Reorders apply locally first and
// roll back to the last order the server accepted when saving fails.
type Dashboard struct {
	client    *Client
	cache     *QueryCache
	weddingId string

	mu       sync.Mutex
	widgets  []*DashboardWidget
	lastGood []*DashboardWidget
}

// NewDashboard creates a dashboard for weddingId
func NewDashboard(client *Client, cache *QueryCache, weddingId string) *Dashboard {
	return &Dashboard{client: client, cache: cache, weddingId: weddingId}
}

// Load fetches the widgets
func (d *Dashboard) Load(ctx context.Context) error {
	ws, err := Query(ctx, d.cache, keyWidgets(d.weddingId), 0,
		func(ctx context.Context) ([]*DashboardWidget, error) {
			return d.client.ListWidgets(ctx, d.weddingId)
		})
	if err != nil {
		return err
	}
	d.accept(ws)
	return nil
}

// Widgets returns the current local order
func (d *Dashboard) Widgets() []*DashboardWidget {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*DashboardWidget, len(d.widgets))
	copy(out, d.widgets)
	return out
}

// Reorder moves the widget at from to to and saves the full order. On
// failure the last accepted order is restored and the error returned.
func (d *Dashboard) Reorder(ctx context.Context, from, to int) error {
	d.mu.Lock()
	moved := entity.MoveWidget(d.widgets, from, to)
	d.widgets = moved
	d.mu.Unlock()

	ids := make([]string, len(moved))
	for i, w := range moved {
		ids[i] = w.Id
	}

	saved, err := d.client.ReorderWidgets(ctx, d.weddingId, ids)
	if err != nil {
		d.mu.Lock()
		d.widgets = append([]*DashboardWidget(nil), d.lastGood...)
		d.mu.Unlock()
		return err
	}
	d.accept(saved)
	d.cache.Set(keyWidgets(d.weddingId), saved)
	return nil
}

// SetVisible shows or hides a widget
func (d *Dashboard) SetVisible(ctx context.Context, widgetId string, visible bool) error {
	w, err := d.client.SetWidgetVisibility(ctx, widgetId, visible)
	if err != nil {
		return err
	}

	d.mu.Lock()
	replace := func(list []*DashboardWidget) {
		for i := range list {
			if list[i].Id == w.Id {
				list[i] = w
			}
		}
	}
	replace(d.widgets)
	replace(d.lastGood)
	d.mu.Unlock()

	d.cache.Invalidate(keyWidgets(d.weddingId))
	return nil
}

func (d *Dashboard) accept(ws []*DashboardWidget) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.widgets = append([]*DashboardWidget(nil), ws...)
	d.lastGood = append([]*DashboardWidget(nil), ws...)
}
