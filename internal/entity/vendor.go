package entity

import (
	"strings"
	"unicode"
)

// Vendor is a marketplace listing (photographer, caterer, decorator, ...)
type Vendor struct {
	Id             string `json:"id" gorm:"column:id;primaryKey;size:64"`
	OwnerUserId    string `json:"owner_user_id" gorm:"column:owner_user_id;index;size:64"`
	Name           string `json:"name" gorm:"column:name;size:255"`
	NormalizedName string `json:"-" gorm:"column:normalized_name;uniqueIndex:uk_vendor_name_city;size:191"`
	Category       string `json:"category" gorm:"column:category;index;size:64"`
	City           string `json:"city" gorm:"column:city;size:128"`
	CityKey        string `json:"-" gorm:"column:city_key;uniqueIndex:uk_vendor_name_city;index;size:128"`
	Description    string `json:"description" gorm:"column:description;type:text"`
	StartingPrice  int64  `json:"starting_price" gorm:"column:starting_price"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt      int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Vendor
func (Vendor) TableName() string {
	return "vendors"
}

// NormalizeVendorName lowercases name, drops punctuation and collapses
// whitespace so "The  Royal Caterers!" and "the royal caterers" collide.
func NormalizeVendorName(name string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

// NormalizeCity is the city half of the duplicate key
func NormalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// PortfolioPhoto is an image in a vendor's portfolio gallery
type PortfolioPhoto struct {
	Id        string `json:"id" gorm:"column:id;primaryKey;size:64"`
	VendorId  string `json:"vendor_id" gorm:"column:vendor_id;index;size:64"`
	ObjectKey string `json:"object_key" gorm:"column:object_key;size:512"`
	URL       string `json:"url" gorm:"column:url;size:1024"`
	Caption   string `json:"caption" gorm:"column:caption;size:255"`
	Position  int    `json:"position" gorm:"column:position"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
}

// TableName returns the table name for PortfolioPhoto
func (PortfolioPhoto) TableName() string {
	return "portfolio_photos"
}
