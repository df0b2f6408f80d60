package entity

import "gorm.io/datatypes"

// DashboardWidget is a reorderable panel on a wedding's financial dashboard
type DashboardWidget struct {
	Id         string         `json:"id" gorm:"column:id;primaryKey;size:64"`
	WeddingId  string         `json:"wedding_id" gorm:"column:wedding_id;index;size:64"`
	WidgetType string         `json:"widget_type" gorm:"column:widget_type;size:64"`
	Position   int            `json:"position" gorm:"column:position"`
	IsVisible  bool           `json:"is_visible" gorm:"column:is_visible"`
	Config     datatypes.JSON `json:"config,omitempty" gorm:"column:config"`
	CreatedAt  int64          `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt  int64          `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for DashboardWidget
func (DashboardWidget) TableName() string {
	return "dashboard_widgets"
}

// MoveWidget returns a copy of list with the element at from moved to to.
// Out-of-range indices return an unchanged copy.
func MoveWidget[T any](list []T, from, to int) []T {
	out := make([]T, len(list))
	copy(out, list)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}
