package domain

// ActionKind distinguishes the two billable events of the action log.
type ActionKind string

const (
	ActionImpression ActionKind = "impression"
	ActionClick      ActionKind = "click"
)

// Action is a billed impression or click. At most one exists per
// (kind, campaign, client).
type Action struct {
	Kind       ActionKind
	CampaignID string
	ClientID   string
	Day        int
	Price      float64
}
