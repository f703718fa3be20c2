package models

import "time"

type Status string

const (
	StatusPending         Status = "pending"
	StatusResolved        Status = "resolved"
	StatusHumanAssistance Status = "human_assistance"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusResolved, StatusHumanAssistance:
		return true
	}
	return false
}

type Category string

const (
	CategoryTechnical     Category = "technical"
	CategoryBilling       Category = "billing"
	CategoryNewConnection Category = "new_connection"
	CategoryBundleOffer   Category = "bundle_offer"
	// CategoryNone is stored when the classifier could not produce a label.
	CategoryNone Category = ""
)

type Complaint struct {
	ID                    int64      `json:"complaint_id"`
	CustomerName          string     `json:"customer_name"`
	CustomerPhone         string     `json:"customer_phone_number"`
	Description           string     `json:"complaint_description"`
	Category              Category   `json:"complaint_category"`
	Sentiment             float64    `json:"sentiment_score"`
	Urgency               float64    `json:"urgency_score"`
	Politeness            float64    `json:"politeness_score"`
	Priority              float64    `json:"priority_score"`
	Status                Status     `json:"status"`
	TicketID              string     `json:"ticket_id"`
	PastCount             int        `json:"past_count"`
	ScheduledCallback     *time.Time `json:"scheduled_callback"`
	KnowledgeBaseSolution string     `json:"knowledge_base_solution"`
	CreatedAt             time.Time  `json:"created_at"`
}

// TicketCorrelation is the similarity-comparison input derived from a
// customer's open complaints. Descriptions and TicketIDs are index-aligned.
// It is never persisted.
type TicketCorrelation struct {
	Descriptions []string
	TicketIDs    []string
}

func (t TicketCorrelation) Empty() bool {
	return len(t.Descriptions) == 0
}

type DashboardMetrics struct {
	TotalCases      int     `json:"total_cases"`
	PendingCases    int     `json:"pending_cases"`
	AveragePriority float64 `json:"average_priority"`
}
