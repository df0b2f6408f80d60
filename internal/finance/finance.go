// Package finance derives the financial dashboard views of a wedding from its
// expenses, budget categories and contracts. Every function is pure.
package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/pkg/constant"
)

// Alert kinds
const (
	AlertDanger  = "danger"
	AlertWarning = "warning"
	AlertInfo    = "info"
)

// Alert scopes
const (
	ScopeOverall  = "overall"
	ScopeCategory = "category"
	ScopePartial  = "partial_payments"
)

const (
	upcomingLimit = 5
	urgentWindow  = 7 * 24 * time.Hour
)

// BudgetOverview is the headline budget widget
type BudgetOverview struct {
	TotalBudget int64   `json:"total_budget"`
	TotalSpent  int64   `json:"total_spent"`
	TotalPaid   int64   `json:"total_paid"`
	Remaining   int64   `json:"remaining"`
	PercentUsed float64 `json:"percent_used"`
}

// Alert is one budget warning
type Alert struct {
	Kind       string `json:"kind"`
	Scope      string `json:"scope"`
	CategoryId string `json:"category_id,omitempty"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Amount     int64  `json:"amount"`
}

// TrendPoint is one month of the spending trend
type TrendPoint struct {
	Month      string `json:"month"`
	Total      int64  `json:"total"`
	Cumulative int64  `json:"cumulative"`
}

// UpcomingPayment is a not yet paid contract milestone
type UpcomingPayment struct {
	ContractId string `json:"contract_id"`
	VendorId   string `json:"vendor_id"`
	Name       string `json:"name"`
	Amount     int64  `json:"amount"`
	DueDate    int64  `json:"due_date"`
	DaysUntil  int    `json:"days_until"`
	Urgent     bool   `json:"urgent"`
}

// Summary bundles every widget for one response
type Summary struct {
	Overview         BudgetOverview    `json:"overview"`
	Alerts           []Alert           `json:"alerts"`
	SpendingTrend    []TrendPoint      `json:"spending_trend"`
	UpcomingPayments []UpcomingPayment `json:"upcoming_payments"`
}

// Summarize computes every widget at once
func Summarize(totalBudget int64, expenses []*entity.Expense, categories []*entity.BudgetCategory, contracts []*entity.Contract, now time.Time) *Summary {
	return &Summary{
		Overview:         Overview(totalBudget, expenses),
		Alerts:           Alerts(totalBudget, expenses, categories),
		SpendingTrend:    SpendingTrend(expenses),
		UpcomingPayments: UpcomingPayments(contracts, now),
	}
}

// Overview sums spending against the budget. PercentUsed is 0 when there is no budget.
func Overview(totalBudget int64, expenses []*entity.Expense) BudgetOverview {
	var spent, paid int64
	for _, e := range expenses {
		spent += e.Amount
		paid += e.AmountPaid
	}

	o := BudgetOverview{
		TotalBudget: totalBudget,
		TotalSpent:  spent,
		TotalPaid:   paid,
		Remaining:   totalBudget - spent,
	}
	if totalBudget > 0 {
		o.PercentUsed = float64(spent) / float64(totalBudget) * 100
	}
	return o
}

// Alerts applies the threshold rules. Thresholds compare integers so exact
// boundaries (spend == budget, spend == 90%) are never lost to rounding.
func Alerts(totalBudget int64, expenses []*entity.Expense, categories []*entity.BudgetCategory) []Alert {
	alerts := make([]Alert, 0)

	var spent int64
	byCategory := make(map[string]int64)
	var partialRemainder int64
	partialCount := 0
	for _, e := range expenses {
		spent += e.Amount
		byCategory[e.CategoryId] += e.Amount
		if e.PaymentStatus == constant.PaymentStatusPartial {
			partialRemainder += e.Outstanding()
			partialCount++
		}
	}

	if totalBudget > 0 {
		switch {
		case spent >= totalBudget:
			alerts = append(alerts, Alert{
				Kind:    AlertDanger,
				Scope:   ScopeOverall,
				Title:   "Over budget",
				Message: fmt.Sprintf("Spending of %d has reached the total budget of %d", spent, totalBudget),
				Amount:  spent - totalBudget,
			})
		case spent*10 >= totalBudget*9:
			alerts = append(alerts, Alert{
				Kind:    AlertWarning,
				Scope:   ScopeOverall,
				Title:   "Approaching budget limit",
				Message: fmt.Sprintf("Spending of %d is at least 90%% of the total budget of %d", spent, totalBudget),
				Amount:  totalBudget - spent,
			})
		}
	}

	for _, c := range categories {
		if c.Allocated <= 0 {
			continue
		}
		catSpent := byCategory[c.Id]
		switch {
		case catSpent >= c.Allocated:
			alerts = append(alerts, Alert{
				Kind:       AlertDanger,
				Scope:      ScopeCategory,
				CategoryId: c.Id,
				Title:      fmt.Sprintf("%s over budget", c.Name),
				Message:    fmt.Sprintf("%s spending of %d has reached its allocation of %d", c.Name, catSpent, c.Allocated),
				Amount:     catSpent - c.Allocated,
			})
		case catSpent*10 >= c.Allocated*8:
			alerts = append(alerts, Alert{
				Kind:       AlertWarning,
				Scope:      ScopeCategory,
				CategoryId: c.Id,
				Title:      fmt.Sprintf("%s nearing allocation", c.Name),
				Message:    fmt.Sprintf("%s spending of %d is at least 80%% of its allocation of %d", c.Name, catSpent, c.Allocated),
				Amount:     c.Allocated - catSpent,
			})
		}
	}

	if partialCount > 0 {
		alerts = append(alerts, Alert{
			Kind:    AlertInfo,
			Scope:   ScopePartial,
			Title:   "Partial payments outstanding",
			Message: fmt.Sprintf("%d partially paid expenses have %d left to pay", partialCount, partialRemainder),
			Amount:  partialRemainder,
		})
	}

	return alerts
}

// SpendingTrend buckets expenses by calendar month (of expense_date, else
// created_at) and accumulates a running total across the sorted months.
func SpendingTrend(expenses []*entity.Expense) []TrendPoint {
	buckets := make(map[string]int64)
	for _, e := range expenses {
		buckets[entity.MonthKey(e.EffectiveDate())] += e.Amount
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	points := make([]TrendPoint, 0, len(months))
	var cumulative int64
	for _, m := range months {
		cumulative += buckets[m]
		points = append(points, TrendPoint{Month: m, Total: buckets[m], Cumulative: cumulative})
	}
	return points
}

// UpcomingPayments flattens contract milestones, keeps those due after now
// and not paid, and returns the nearest five in due-date order.
func UpcomingPayments(contracts []*entity.Contract, now time.Time) []UpcomingPayment {
	nowMs := now.UnixMilli()
	payments := make([]UpcomingPayment, 0)

	for _, c := range contracts {
		for _, m := range c.Milestones() {
			if m.Status == entity.MilestoneStatusPaid || m.DueDate <= nowMs {
				continue
			}
			until := time.Duration(m.DueDate-nowMs) * time.Millisecond
			payments = append(payments, UpcomingPayment{
				ContractId: c.Id,
				VendorId:   c.VendorId,
				Name:       m.Name,
				Amount:     m.Amount,
				DueDate:    m.DueDate,
				DaysUntil:  int(until / (24 * time.Hour)),
				Urgent:     until <= urgentWindow,
			})
		}
	}

	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].DueDate < payments[j].DueDate
	})
	if len(payments) > upcomingLimit {
		payments = payments[:upcomingLimit]
	}
	return payments
}
