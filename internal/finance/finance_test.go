package finance

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/pkg/constant"
)

func expense(category string, amount, paid int64, status string) *entity.Expense {
	return &entity.Expense{CategoryId: category, Amount: amount, AmountPaid: paid, PaymentStatus: status}
}

func kinds(alerts []Alert, scope string) []string {
	var out []string
	for _, a := range alerts {
		if a.Scope == scope {
			out = append(out, a.Kind)
		}
	}
	return out
}

func TestOverviewZeroBudget(t *testing.T) {
	o := Overview(0, []*entity.Expense{expense("c", 500, 0, constant.PaymentStatusPending)})
	assert.Equal(t, float64(0), o.PercentUsed)
	assert.Equal(t, int64(-500), o.Remaining)

	o = Overview(0, nil)
	assert.Equal(t, float64(0), o.PercentUsed)
}

func TestOverview(t *testing.T) {
	o := Overview(1000, []*entity.Expense{
		expense("c", 200, 200, constant.PaymentStatusPaid),
		expense("c", 300, 100, constant.PaymentStatusPartial),
	})
	assert.Equal(t, int64(500), o.TotalSpent)
	assert.Equal(t, int64(300), o.TotalPaid)
	assert.Equal(t, int64(500), o.Remaining)
	assert.InDelta(t, 50.0, o.PercentUsed, 1e-9)
}

func TestAlertsOverallThresholds(t *testing.T) {
	tests := []struct {
		name  string
		spent int64
		want  []string
	}{
		{"exactly budget is danger", 1000, []string{AlertDanger}},
		{"over budget is danger", 1500, []string{AlertDanger}},
		{"exactly 90 percent is warning", 900, []string{AlertWarning}},
		{"between 90 and 100 is warning", 999, []string{AlertWarning}},
		{"below 90 percent is quiet", 899, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := Alerts(1000, []*entity.Expense{expense("c", tt.spent, 0, constant.PaymentStatusPending)}, nil)
			assert.Equal(t, tt.want, kinds(alerts, ScopeOverall))
		})
	}
}

func TestAlertsZeroBudgetHasNoOverallAlert(t *testing.T) {
	alerts := Alerts(0, []*entity.Expense{expense("c", 10, 0, constant.PaymentStatusPending)}, nil)
	assert.Empty(t, kinds(alerts, ScopeOverall))
}

func TestAlertsCategoryThresholds(t *testing.T) {
	categories := []*entity.BudgetCategory{
		{Id: "venue", Name: "Venue", Allocated: 100},
		{Id: "decor", Name: "Decor", Allocated: 100},
		{Id: "food", Name: "Catering", Allocated: 100},
		{Id: "misc", Name: "Misc", Allocated: 0},
	}
	expenses := []*entity.Expense{
		expense("venue", 100, 0, constant.PaymentStatusPending),
		expense("decor", 50, 0, constant.PaymentStatusPending),
		expense("decor", 30, 0, constant.PaymentStatusPending),
		expense("food", 79, 0, constant.PaymentStatusPending),
		expense("misc", 50, 0, constant.PaymentStatusPending),
	}

	alerts := Alerts(0, expenses, categories)
	got := map[string]string{}
	for _, a := range alerts {
		if a.Scope == ScopeCategory {
			got[a.CategoryId] = a.Kind
		}
	}
	assert.Equal(t, map[string]string{"venue": AlertDanger, "decor": AlertWarning}, got)
}

func TestAlertsPartialPaymentsAggregated(t *testing.T) {
	alerts := Alerts(0, []*entity.Expense{
		expense("c", 100, 40, constant.PaymentStatusPartial),
		expense("c", 200, 150, constant.PaymentStatusPartial),
		expense("c", 500, 0, constant.PaymentStatusPending),
	}, nil)

	var partial []Alert
	for _, a := range alerts {
		if a.Scope == ScopePartial {
			partial = append(partial, a)
		}
	}
	require.Len(t, partial, 1)
	assert.Equal(t, AlertInfo, partial[0].Kind)
	assert.Equal(t, int64(110), partial[0].Amount)
}

func TestSpendingTrend(t *testing.T) {
	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC).UnixMilli()
	mar := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC).UnixMilli()
	feb := time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC).UnixMilli()

	expenses := []*entity.Expense{
		{Amount: 300, ExpenseDate: &mar, CreatedAt: jan},
		{Amount: 100, CreatedAt: jan},
		{Amount: 50, ExpenseDate: &jan, CreatedAt: mar},
		{Amount: 200, CreatedAt: feb},
	}

	points := SpendingTrend(expenses)
	assert.Equal(t, []TrendPoint{
		{Month: "2025-01", Total: 150, Cumulative: 150},
		{Month: "2025-02", Total: 200, Cumulative: 350},
		{Month: "2025-03", Total: 300, Cumulative: 650},
	}, points)

	assert.Empty(t, SpendingTrend(nil))
}

func TestUpcomingPayments(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := func(n int) int64 { return now.Add(time.Duration(n) * 24 * time.Hour).UnixMilli() }

	c1 := &entity.Contract{Id: "k1", VendorId: "v1"}
	require.NoError(t, c1.SetMilestones([]entity.Milestone{
		{Name: "past", Amount: 1, DueDate: day(-1)},
		{Name: "paid", Amount: 2, DueDate: day(2), Status: entity.MilestoneStatusPaid},
		{Name: "d3", Amount: 3, DueDate: day(3)},
		{Name: "d30", Amount: 4, DueDate: day(30)},
	}))
	c2 := &entity.Contract{Id: "k2", VendorId: "v2", PaymentMilestones: []byte(`"[{\"name\":\"d7\",\"amount\":5,\"due_date\":` + itoa(day(7)) + `},{\"name\":\"d1\",\"amount\":6,\"due_date\":` + itoa(day(1)) + `}]"`)}
	c3 := &entity.Contract{Id: "k3", PaymentMilestones: []byte(`{broken`)}
	c4 := &entity.Contract{Id: "k4"}
	require.NoError(t, c4.SetMilestones([]entity.Milestone{
		{Name: "d8", DueDate: day(8)},
		{Name: "d9", DueDate: day(9)},
	}))

	got := UpcomingPayments([]*entity.Contract{c1, c2, c3, c4}, now)
	require.Len(t, got, 5)

	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"d1", "d3", "d7", "d8", "d9"}, names)

	assert.True(t, got[0].Urgent)
	assert.True(t, got[1].Urgent)
	assert.True(t, got[2].Urgent, "exactly seven days out is urgent")
	assert.False(t, got[3].Urgent)
	assert.Equal(t, 3, got[1].DaysUntil)
	assert.Equal(t, "k2", got[0].ContractId)
}

func TestSummarize(t *testing.T) {
	s := Summarize(0, nil, nil, nil, time.Now())
	assert.NotNil(t, s.Alerts)
	assert.NotNil(t, s.SpendingTrend)
	assert.NotNil(t, s.UpcomingPayments)
	assert.Equal(t, float64(0), s.Overview.PercentUsed)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
