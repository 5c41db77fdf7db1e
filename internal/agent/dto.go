package agent

import "time"

// AgentSummaryDTO aggregates the fields the dashboard agent card needs.
type AgentSummaryDTO struct {
	ID            uint      `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	AgentType     AgentType `json:"agentType"`
	CapType       *CapType  `json:"capType,omitempty"`
	SponsorID     *uint     `json:"sponsorId,omitempty"`
	DownlineCount int       `json:"downlineCount"`
	ShareYTD      float64   `json:"revenueShareYtd"`
	ShareAllTime  float64   `json:"revenueShareAllTime"`
	MemberSince   time.Time `json:"memberSince"`
}

// ShareTotals is implemented by the revenue share repository; declared here
// so the summary endpoint does not pull that package in.
type ShareTotals interface {
	TotalReceived(recipientID uint) (float64, error)
	TotalReceivedSince(recipientID uint, since time.Time) (float64, error)
}

// startOfYear is the calendar-year boundary used for YTD figures.
func startOfYear() time.Time {
	now := time.Now()
	return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
}
