package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/viahme/viah/pkg/constant"
)

func TestGenConversationId(t *testing.T) {
	assert.Equal(t, "cv_w1:v1", GenConversationId("w1", "v1", ""))
	assert.Equal(t, "cv_w1:v1:e1", GenConversationId("w1", "v1", "e1"))

	w, v, e, ok := ParseConversationId("cv_w1:v1:e1")
	assert.True(t, ok)
	assert.Equal(t, []string{"w1", "v1", "e1"}, []string{w, v, e})

	w, v, e, ok = ParseConversationId(GenConversationId("w2", "v2", ""))
	assert.True(t, ok)
	assert.Equal(t, []string{"w2", "v2", ""}, []string{w, v, e})

	for _, bad := range []string{"", "si_a:b", "cv_", "cv_w1", "cv_:v1", "cv_a:b:c:d"} {
		_, _, _, ok = ParseConversationId(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseMilestones(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"array", `[{"name":"advance","amount":100,"due_date":1,"status":"paid"},{"name":"final","amount":200,"due_date":2}]`, 2},
		{"string encoded array", `"[{\"name\":\"advance\",\"amount\":100,\"due_date\":1}]"`, 1},
		{"empty", ``, 0},
		{"null", `null`, 0},
		{"object", `{"name":"x"}`, 0},
		{"malformed", `[{"name":`, 0},
		{"string with garbage", `"not json"`, 0},
		{"number", `42`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMilestones(datatypes.JSON(tt.raw))
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestContractSetMilestones(t *testing.T) {
	c := &Contract{}
	assert.NoError(t, c.SetMilestones([]Milestone{{Name: "advance", Amount: 5000, DueDate: 10}}))
	ms := c.Milestones()
	assert.Len(t, ms, 1)
	assert.Equal(t, int64(5000), ms[0].Amount)

	assert.NoError(t, c.SetMilestones(nil))
	assert.Equal(t, "[]", string(c.PaymentMilestones))
}

func TestNormalizeVendorName(t *testing.T) {
	assert.Equal(t, "the royal caterers", NormalizeVendorName("  The  Royal Caterers! "))
	assert.Equal(t, NormalizeVendorName("the royal caterers"), NormalizeVendorName("THE Royal\tCaterers"))
	assert.Equal(t, "", NormalizeVendorName("!!!"))
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("priya-and-arjun"))
	assert.True(t, ValidSlug("abc"))
	assert.False(t, ValidSlug("ab"))
	assert.False(t, ValidSlug("-abc"))
	assert.False(t, ValidSlug("abc-"))
	assert.False(t, ValidSlug("Priya"))
	assert.False(t, ValidSlug("a_b_c"))
}

func TestUnreadCountNeverNegative(t *testing.T) {
	assert.Equal(t, int64(3), UnreadCount(5, 2))
	assert.Equal(t, int64(0), UnreadCount(5, 5))
	assert.Equal(t, int64(0), UnreadCount(2, 5))
}

func TestClampSeqRange(t *testing.T) {
	b, e := ClampSeqRange(0, 0, 10)
	assert.Equal(t, int64(1), b)
	assert.Equal(t, int64(10), e)

	b, e = ClampSeqRange(3, 20, 10)
	assert.Equal(t, int64(3), b)
	assert.Equal(t, int64(10), e)
}

func TestMoveWidget(t *testing.T) {
	list := []string{"a", "b", "c", "d"}

	assert.Equal(t, []string{"b", "c", "a", "d"}, MoveWidget(list, 0, 2))
	assert.Equal(t, []string{"d", "a", "b", "c"}, MoveWidget(list, 3, 0))
	assert.Equal(t, []string{"a", "b", "c", "d"}, MoveWidget(list, 1, 1))
	assert.Equal(t, []string{"a", "b", "c", "d"}, MoveWidget(list, -1, 2))
	assert.Equal(t, []string{"a", "b", "c", "d"}, list, "input is not mutated")
}

func TestBookingTransitions(t *testing.T) {
	b := &Booking{Status: constant.BookingStatusInquiry}
	assert.True(t, b.CanTransition(constant.BookingStatusConfirmed, constant.RoleVendor))
	assert.False(t, b.CanTransition(constant.BookingStatusCancelled, constant.RoleVendor))
	assert.True(t, b.CanTransition(constant.BookingStatusCancelled, constant.RoleCouple))
	assert.False(t, b.CanTransition(constant.BookingStatusConfirmed, constant.RoleCouple))

	b.Status = constant.BookingStatusDeclined
	assert.False(t, b.CanTransition(constant.BookingStatusCancelled, constant.RoleCouple))
	assert.False(t, b.CanTransition(constant.BookingStatusConfirmed, constant.RoleVendor))
}

func TestExpenseHelpers(t *testing.T) {
	d := int64(500)
	e := &Expense{Amount: 100, AmountPaid: 40, CreatedAt: 100, ExpenseDate: &d}
	assert.Equal(t, int64(60), e.Outstanding())
	assert.Equal(t, int64(500), e.EffectiveDate())

	e.ExpenseDate = nil
	e.AmountPaid = 150
	assert.Equal(t, int64(0), e.Outstanding())
	assert.Equal(t, int64(100), e.EffectiveDate())
}
