package revenueshare

import (
	"time"

	"github.com/CrestwoodRealty/api-brokerage/internal/agent"
	"github.com/shopspring/decimal"
)

// Payout rates as a fraction of company GCI. The rate depends on the
// sponsor's agent type only; the tier a sponsor sits at changes which
// level the payout is booked under, not the percentage.
var (
	principalRate = decimal.NewFromFloat(0.125)
	supportRate   = decimal.NewFromFloat(0.02)
)

// Annual payout ceilings per (recipient, source) pair, reset each
// calendar year. Principals on the team plan compress to half the
// standard ceiling; support agents get the standard one.
const (
	StandardAnnualCap = 2000
	TeamAnnualCap     = 1000
)

// RateFor returns the revenue share rate for a sponsor of the given type.
func RateFor(t agent.AgentType) decimal.Decimal {
	if t == agent.TypeSupport {
		return supportRate
	}
	return principalRate
}

// CapFor returns the annual ceiling for a sponsor. Cap type only
// differentiates principals; a principal without one gets the standard cap.
func CapFor(t agent.AgentType, ct *agent.CapType) float64 {
	if t == agent.TypePrincipal && ct != nil && *ct == agent.CapTeam {
		return TeamAnnualCap
	}
	return StandardAnnualCap
}

// StartOfYear returns January 1st 00:00 of the year containing now.
// Cap accounting uses calendar years, not rolling windows.
func StartOfYear(now time.Time) time.Time {
	return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
}
