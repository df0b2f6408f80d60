package entity

import "github.com/viahme/viah/pkg/constant"

// Booking links a wedding (optionally one event) to a vendor
type Booking struct {
	Id        string `json:"id" gorm:"column:id;primaryKey;size:64"`
	WeddingId string `json:"wedding_id" gorm:"column:wedding_id;index;size:64"`
	VendorId  string `json:"vendor_id" gorm:"column:vendor_id;index;size:64"`
	EventId   string `json:"event_id,omitempty" gorm:"column:event_id;size:64"`
	Status    string `json:"status" gorm:"column:status;size:16"`
	Amount    int64  `json:"amount" gorm:"column:amount"`
	Notes     string `json:"notes" gorm:"column:notes;type:text"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// vendorTransitions are the moves a vendor may make; couples may only cancel.
var vendorTransitions = map[string][]string{
	constant.BookingStatusInquiry: {constant.BookingStatusPending, constant.BookingStatusConfirmed, constant.BookingStatusDeclined},
	constant.BookingStatusPending: {constant.BookingStatusConfirmed, constant.BookingStatusDeclined},
}

// CanTransition reports whether the booking may move to next for the given role
func (b *Booking) CanTransition(next, role string) bool {
	if role == constant.RoleCouple {
		return next == constant.BookingStatusCancelled && !b.IsTerminal()
	}
	for _, s := range vendorTransitions[b.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (b *Booking) IsTerminal() bool {
	return b.Status == constant.BookingStatusDeclined || b.Status == constant.BookingStatusCancelled
}
