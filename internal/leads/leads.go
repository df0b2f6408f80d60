// Package leads scores inbound vendor inquiries and summarizes a vendor's pipeline.
package leads

import (
	"sort"
	"strings"
	"time"

	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/pkg/constant"
)

// Tiers
const (
	TierHot  = "hot"
	TierWarm = "warm"
	TierCold = "cold"
)

const (
	hotThreshold  = 70
	warmThreshold = 40
)

// Input is what scoring looks at
type Input struct {
	Budget        int64
	StartingPrice int64
	EventDate     int64
	GuestCount    int
	EventCount    int
	Message       string
	Phone         string
}

// Breakdown is the per-factor score
type Breakdown struct {
	Budget int    `json:"budget"`
	Timing int    `json:"timing"`
	Guests int    `json:"guests"`
	Events int    `json:"events"`
	Detail int    `json:"detail"`
	Total  int    `json:"total"`
	Tier   string `json:"tier"`
}

// Score rates a lead from 0 to 100
func Score(in Input, now time.Time) Breakdown {
	b := Breakdown{
		Budget: budgetScore(in.Budget, in.StartingPrice),
		Timing: timingScore(in.EventDate, now),
		Guests: guestScore(in.GuestCount),
		Events: eventScore(in.EventCount),
		Detail: detailScore(in.Message, in.Phone),
	}
	b.Total = b.Budget + b.Timing + b.Guests + b.Events + b.Detail
	if b.Total > 100 {
		b.Total = 100
	}
	b.Tier = Tier(b.Total)
	return b
}

// Tier buckets a score
func Tier(score int) string {
	switch {
	case score >= hotThreshold:
		return TierHot
	case score >= warmThreshold:
		return TierWarm
	default:
		return TierCold
	}
}

// budgetScore is worth up to 30
func budgetScore(budget, startingPrice int64) int {
	if budget <= 0 {
		return 0
	}
	if startingPrice <= 0 {
		return 15
	}
	// compare in hundredths to stay in integers
	ratio := budget * 100 / startingPrice
	switch {
	case ratio >= 200:
		return 30
	case ratio >= 100:
		return 25
	case ratio >= 75:
		return 15
	case ratio >= 50:
		return 8
	default:
		return 0
	}
}

// timingScore is worth up to 20; nearer weddings are likelier to book
func timingScore(eventDate int64, now time.Time) int {
	if eventDate <= 0 {
		return 0
	}
	days := time.UnixMilli(eventDate).Sub(now).Hours() / 24
	switch {
	case days < 0:
		return 0
	case days <= 90:
		return 20
	case days <= 180:
		return 16
	case days <= 365:
		return 12
	default:
		return 6
	}
}

// guestScore is worth up to 20
func guestScore(guests int) int {
	switch {
	case guests >= 300:
		return 20
	case guests >= 150:
		return 15
	case guests >= 50:
		return 10
	case guests > 0:
		return 5
	default:
		return 0
	}
}

// eventScore is worth up to 15; multi-event weddings book more services
func eventScore(events int) int {
	switch {
	case events >= 4:
		return 15
	case events == 3:
		return 12
	case events == 2:
		return 8
	case events == 1:
		return 4
	default:
		return 0
	}
}

// detailScore is worth up to 15
func detailScore(message, phone string) int {
	score := 0
	switch n := len(strings.TrimSpace(message)); {
	case n >= 200:
		score = 10
	case n >= 50:
		score = 6
	case n > 0:
		score = 3
	}
	if strings.TrimSpace(phone) != "" {
		score += 5
	}
	return score
}

// MonthCount is the number of leads created in one month
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Analytics summarizes a vendor's lead pipeline
type Analytics struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ByTier         map[string]int `json:"by_tier"`
	ConversionRate float64        `json:"conversion_rate"`
	AverageScore   float64        `json:"average_score"`
	ByMonth        []MonthCount   `json:"by_month"`
}

var allStatuses = []string{
	constant.LeadStatusNew,
	constant.LeadStatusContacted,
	constant.LeadStatusQualified,
	constant.LeadStatusProposal,
	constant.LeadStatusWon,
	constant.LeadStatusLost,
}

// Analyze computes pipeline analytics. Conversion is won over closed
// (won + lost) leads and is 0 while nothing has closed.
func Analyze(leads []*entity.VendorLead) *Analytics {
	a := &Analytics{
		Total:    len(leads),
		ByStatus: make(map[string]int, len(allStatuses)),
		ByTier:   map[string]int{TierHot: 0, TierWarm: 0, TierCold: 0},
		ByMonth:  make([]MonthCount, 0),
	}
	for _, s := range allStatuses {
		a.ByStatus[s] = 0
	}
	if len(leads) == 0 {
		return a
	}

	months := make(map[string]int)
	scoreSum := 0
	for _, l := range leads {
		a.ByStatus[l.Status]++
		a.ByTier[Tier(l.Score)]++
		scoreSum += l.Score
		months[entity.MonthKey(l.CreatedAt)]++
	}

	won := a.ByStatus[constant.LeadStatusWon]
	if closed := won + a.ByStatus[constant.LeadStatusLost]; closed > 0 {
		a.ConversionRate = float64(won) / float64(closed) * 100
	}
	a.AverageScore = float64(scoreSum) / float64(len(leads))

	for m, n := range months {
		a.ByMonth = append(a.ByMonth, MonthCount{Month: m, Count: n})
	}
	sort.Slice(a.ByMonth, func(i, j int) bool { return a.ByMonth[i].Month < a.ByMonth[j].Month })
	return a
}
