package entity

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Contract is the agreed engagement for a booking with its payment schedule
type Contract struct {
	Id                string         `json:"id" gorm:"column:id;primaryKey;size:64"`
	BookingId         string         `json:"booking_id" gorm:"column:booking_id;index;size:64"`
	WeddingId         string         `json:"wedding_id" gorm:"column:wedding_id;index;size:64"`
	VendorId          string         `json:"vendor_id" gorm:"column:vendor_id;index;size:64"`
	TotalAmount       int64          `json:"total_amount" gorm:"column:total_amount"`
	Status            string         `json:"status" gorm:"column:status;size:16"`
	PaymentMilestones datatypes.JSON `json:"payment_milestones" gorm:"column:payment_milestones"`
	CreatedAt         int64          `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt         int64          `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// Milestone status
const (
	MilestoneStatusPending = "pending"
	MilestoneStatusPaid    = "paid"
)

// Milestone is a scheduled partial payment within a contract
type Milestone struct {
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
	DueDate int64  `json:"due_date"`
	Status  string `json:"status"`
}

// Milestones returns the contract's parsed payment schedule
func (c *Contract) Milestones() []Milestone {
	return ParseMilestones(c.PaymentMilestones)
}

// SetMilestones stores ms as a JSON array
func (c *Contract) SetMilestones(ms []Milestone) error {
	if ms == nil {
		ms = []Milestone{}
	}
	raw, err := json.Marshal(ms)
	if err != nil {
		return err
	}
	c.PaymentMilestones = datatypes.JSON(raw)
	return nil
}

// ParseMilestones decodes a persisted milestone column. Rows written by older
// clients hold a JSON string wrapping the array, so both a bare array and a
// string-encoded array are accepted. Anything else yields an empty list.
func ParseMilestones(raw datatypes.JSON) []Milestone {
	data := []byte(raw)
	if len(data) == 0 {
		return []Milestone{}
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		data = []byte(encoded)
	}

	var ms []Milestone
	if err := json.Unmarshal(data, &ms); err != nil || ms == nil {
		return []Milestone{}
	}
	return ms
}
