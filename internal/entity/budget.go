package entity

import "github.com/viahme/viah/pkg/constant"

// BudgetCategory is a named allocation within a wedding budget
type BudgetCategory struct {
	Id        string `json:"id" gorm:"column:id;primaryKey;size:64"`
	WeddingId string `json:"wedding_id" gorm:"column:wedding_id;index;size:64"`
	Name      string `json:"name" gorm:"column:name;size:128"`
	Allocated int64  `json:"allocated" gorm:"column:allocated"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for BudgetCategory
func (BudgetCategory) TableName() string {
	return "budget_categories"
}

// Expense is a single spend line. Amounts are in minor currency units.
type Expense struct {
	Id            string `json:"id" gorm:"column:id;primaryKey;size:64"`
	WeddingId     string `json:"wedding_id" gorm:"column:wedding_id;index;size:64"`
	CategoryId    string `json:"category_id" gorm:"column:category_id;index;size:64"`
	EventId       string `json:"event_id,omitempty" gorm:"column:event_id;size:64"`
	VendorId      string `json:"vendor_id,omitempty" gorm:"column:vendor_id;size:64"`
	Description   string `json:"description" gorm:"column:description;size:512"`
	Amount        int64  `json:"amount" gorm:"column:amount"`
	AmountPaid    int64  `json:"amount_paid" gorm:"column:amount_paid"`
	PaymentStatus string `json:"payment_status" gorm:"column:payment_status;size:16"`
	ExpenseDate   *int64 `json:"expense_date,omitempty" gorm:"column:expense_date"`
	CreatedAt     int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt     int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}

// EffectiveDate returns expense_date, falling back to created_at
func (e *Expense) EffectiveDate() int64 {
	if e.ExpenseDate != nil && *e.ExpenseDate > 0 {
		return *e.ExpenseDate
	}
	return e.CreatedAt
}

// Outstanding returns the unpaid remainder, never negative
func (e *Expense) Outstanding() int64 {
	if e.AmountPaid >= e.Amount {
		return 0
	}
	return e.Amount - e.AmountPaid
}

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s string) bool {
	switch s {
	case constant.PaymentStatusPending, constant.PaymentStatusPartial, constant.PaymentStatusPaid:
		return true
	}
	return false
}
