package domain

// Targeting narrows the audience of a campaign. Nil fields match everyone.
type Targeting struct {
	Gender   *Gender
	AgeFrom  *int
	AgeTo    *int
	Location *string
}

// Matches reports whether a client falls inside the targeted audience.
func (t Targeting) Matches(c Client) bool {
	if t.Gender != nil && *t.Gender != GenderAll && *t.Gender != c.Gender {
		return false
	}
	if t.AgeFrom != nil && *t.AgeFrom > c.Age {
		return false
	}
	if t.AgeTo != nil && *t.AgeTo < c.Age {
		return false
	}
	if t.Location != nil && *t.Location != c.Location {
		return false
	}
	return true
}

type Campaign struct {
	ID           string
	AdvertiserID string

	ImpressionsLimit  int
	ClicksLimit       int
	CostPerImpression float64
	CostPerClick      float64

	Title string
	Text  string

	// StartDay and EndDay are inclusive virtual days.
	StartDay int
	EndDay   int

	Targeting Targeting

	// ImageKey is the blob store object name, nil when no image is attached.
	ImageKey *string
	Deleted  bool
}

// ScheduledOn reports whether the campaign runs on the given day.
func (c Campaign) ScheduledOn(day int) bool {
	return !c.Deleted && c.StartDay <= day && day <= c.EndDay
}

// ImpressionBudgetLeft applies the 5% overdelivery tolerance.
func (c Campaign) ImpressionBudgetLeft(delivered int64) bool {
	return float64(delivered) < float64(c.ImpressionsLimit)*1.05
}

func (c Campaign) ClickBudgetLeft(clicked int64) bool {
	return clicked <= int64(c.ClicksLimit)
}

func (c Campaign) scheduleDiffers(o Campaign) bool {
	return c.ClicksLimit != o.ClicksLimit ||
		c.ImpressionsLimit != o.ImpressionsLimit ||
		c.StartDay != o.StartDay ||
		c.EndDay != o.EndDay
}

// ValidateNew checks a campaign about to be created on the given day.
func (c Campaign) ValidateNew(day int) error {
	if day > c.StartDay || day > c.EndDay {
		return ErrCampaignInPast()
	}
	if c.EndDay < c.StartDay {
		return ErrInvalidSchedule()
	}
	return nil
}

// CheckUpdate guards schedule and budget fields once a campaign has started.
//
// A started campaign keeps its start, end and limits; its copy and targeting
// may still change. A campaign that has not started yet cannot be moved to
// start today or earlier.
func CheckUpdate(stored, next Campaign, day int) error {
	started := day >= stored.StartDay
	if started && stored.scheduleDiffers(next) {
		return ErrCampaignActive()
	}
	if !started && next.StartDay <= day {
		return ErrCampaignActive()
	}
	if next.EndDay < next.StartDay {
		return ErrInvalidSchedule()
	}
	return nil
}
