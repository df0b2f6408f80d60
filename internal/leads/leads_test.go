package leads

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/pkg/constant"
)

func TestScoreHotLead(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := Score(Input{
		Budget:        500000,
		StartingPrice: 200000,
		EventDate:     now.AddDate(0, 2, 0).UnixMilli(),
		GuestCount:    400,
		EventCount:    4,
		Message:       strings.Repeat("We are planning a three day celebration. ", 6),
		Phone:         "+91 98765 43210",
	}, now)

	assert.Equal(t, 30, b.Budget)
	assert.Equal(t, 20, b.Timing)
	assert.Equal(t, 20, b.Guests)
	assert.Equal(t, 15, b.Events)
	assert.Equal(t, 15, b.Detail)
	assert.Equal(t, 100, b.Total)
	assert.Equal(t, TierHot, b.Tier)
}

func TestScoreColdLead(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := Score(Input{
		Budget:        10000,
		StartingPrice: 100000,
		EventDate:     now.AddDate(-1, 0, 0).UnixMilli(),
		Message:       "hi",
	}, now)

	assert.Equal(t, 0, b.Budget)
	assert.Equal(t, 0, b.Timing)
	assert.Equal(t, 3, b.Total)
	assert.Equal(t, TierCold, b.Tier)
}

func TestScoreBounds(t *testing.T) {
	now := time.Now()
	for _, in := range []Input{
		{},
		{Budget: 1, StartingPrice: 0},
		{Budget: 1 << 40, StartingPrice: 1, GuestCount: 1 << 20, EventCount: 99, Message: strings.Repeat("x", 1000), Phone: "1", EventDate: now.Add(time.Hour).UnixMilli()},
	} {
		b := Score(in, now)
		assert.GreaterOrEqual(t, b.Total, 0)
		assert.LessOrEqual(t, b.Total, 100)
	}
}

func TestTier(t *testing.T) {
	assert.Equal(t, TierHot, Tier(70))
	assert.Equal(t, TierWarm, Tier(69))
	assert.Equal(t, TierWarm, Tier(40))
	assert.Equal(t, TierCold, Tier(39))
}

func TestAnalyze(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC).UnixMilli()
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC).UnixMilli()

	a := Analyze([]*entity.VendorLead{
		{Status: constant.LeadStatusWon, Score: 80, CreatedAt: feb},
		{Status: constant.LeadStatusLost, Score: 30, CreatedAt: jan},
		{Status: constant.LeadStatusWon, Score: 50, CreatedAt: jan},
		{Status: constant.LeadStatusNew, Score: 40, CreatedAt: feb},
	})

	assert.Equal(t, 4, a.Total)
	assert.Equal(t, 2, a.ByStatus[constant.LeadStatusWon])
	assert.Equal(t, 0, a.ByStatus[constant.LeadStatusProposal])
	assert.InDelta(t, 66.666, a.ConversionRate, 0.01)
	assert.InDelta(t, 50.0, a.AverageScore, 1e-9)
	assert.Equal(t, map[string]int{TierHot: 1, TierWarm: 2, TierCold: 1}, a.ByTier)
	assert.Equal(t, []MonthCount{{Month: "2025-01", Count: 2}, {Month: "2025-02", Count: 2}}, a.ByMonth)
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil)
	assert.Equal(t, 0, a.Total)
	assert.Equal(t, float64(0), a.ConversionRate)
	assert.Len(t, a.ByStatus, 6)
	assert.NotNil(t, a.ByMonth)
}
