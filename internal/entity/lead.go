package entity

import "github.com/viahme/viah/pkg/constant"

// VendorLead is an inbound inquiry captured for a vendor
type VendorLead struct {
	Id         string `json:"id" gorm:"column:id;primaryKey;size:64"`
	VendorId   string `json:"vendor_id" gorm:"column:vendor_id;index;size:64"`
	WeddingId  string `json:"wedding_id,omitempty" gorm:"column:wedding_id;size:64"`
	CoupleName string `json:"couple_name" gorm:"column:couple_name;size:255"`
	Email      string `json:"email" gorm:"column:email;size:255"`
	Phone      string `json:"phone" gorm:"column:phone;size:32"`
	EventDate  int64  `json:"event_date" gorm:"column:event_date"`
	Budget     int64  `json:"budget" gorm:"column:budget"`
	GuestCount int    `json:"guest_count" gorm:"column:guest_count"`
	EventCount int    `json:"event_count" gorm:"column:event_count"`
	Message    string `json:"message" gorm:"column:message;type:text"`
	Source     string `json:"source" gorm:"column:source;size:64"`
	Status     string `json:"status" gorm:"column:status;index;size:16"`
	Score      int    `json:"score" gorm:"column:score"`
	Tier       string `json:"tier" gorm:"column:tier;size:8"`
	CreatedAt  int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt  int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for VendorLead
func (VendorLead) TableName() string {
	return "vendor_leads"
}

// ValidLeadStatus reports whether s is a known lead pipeline status
func ValidLeadStatus(s string) bool {
	switch s {
	case constant.LeadStatusNew, constant.LeadStatusContacted, constant.LeadStatusQualified,
		constant.LeadStatusProposal, constant.LeadStatusWon, constant.LeadStatusLost:
		return true
	}
	return false
}
