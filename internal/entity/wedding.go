package entity

import "regexp"

// Wedding is the root planning aggregate owned by a couple account
type Wedding struct {
	Id          string `json:"id" gorm:"column:id;primaryKey;size:64"`
	OwnerId     string `json:"owner_id" gorm:"column:owner_id;index;size:64"`
	Title       string `json:"title" gorm:"column:title;size:255"`
	PartnerOne  string `json:"partner_one" gorm:"column:partner_one;size:128"`
	PartnerTwo  string `json:"partner_two" gorm:"column:partner_two;size:128"`
	WeddingDate int64  `json:"wedding_date" gorm:"column:wedding_date"`
	City        string `json:"city" gorm:"column:city;size:128"`
	TotalBudget int64  `json:"total_budget" gorm:"column:total_budget"`
	Currency    string `json:"currency" gorm:"column:currency;size:8"`
	CreatedAt   int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt   int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Wedding
func (Wedding) TableName() string {
	return "weddings"
}

// Event is one ceremony of a multi-day wedding (Mehndi, Sangeet, ...)
type Event struct {
	Id         string `json:"id" gorm:"column:id;primaryKey;size:64"`
	WeddingId  string `json:"wedding_id" gorm:"column:wedding_id;index;size:64"`
	Name       string `json:"name" gorm:"column:name;size:128"`
	EventDate  int64  `json:"event_date" gorm:"column:event_date"`
	Venue      string `json:"venue" gorm:"column:venue;size:255"`
	GuestCount int    `json:"guest_count" gorm:"column:guest_count"`
	CreatedAt  int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt  int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Event
func (Event) TableName() string {
	return "events"
}

// WeddingWebsite is the public site published by a couple
type WeddingWebsite struct {
	WeddingId string `json:"wedding_id" gorm:"column:wedding_id;primaryKey;size:64"`
	Slug      string `json:"slug" gorm:"column:slug;uniqueIndex;size:64"`
	Headline  string `json:"headline" gorm:"column:headline;size:255"`
	Story     string `json:"story" gorm:"column:story;type:text"`
	Published bool   `json:"published" gorm:"column:published"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for WeddingWebsite
func (WeddingWebsite) TableName() string {
	return "wedding_websites"
}

var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{1,48}[a-z0-9])$`)

// ValidSlug reports whether slug is usable as a public site path
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// PublicSite is the unauthenticated view of a published website
type PublicSite struct {
	Slug        string   `json:"slug"`
	Headline    string   `json:"headline"`
	Story       string   `json:"story"`
	PartnerOne  string   `json:"partner_one"`
	PartnerTwo  string   `json:"partner_two"`
	WeddingDate int64    `json:"wedding_date"`
	City        string   `json:"city"`
	Events      []*Event `json:"events"`
}
