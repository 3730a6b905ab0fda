package domain

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	// GenderAll is only meaningful as a targeting value.
	GenderAll Gender = "ALL"
)

func (g Gender) ValidClient() bool {
	return g == GenderMale || g == GenderFemale
}

func (g Gender) ValidTarget() bool {
	return g == GenderMale || g == GenderFemale || g == GenderAll
}

type Client struct {
	ID       string
	Login    string
	Age      int
	Location string
	Gender   Gender
}

type Advertiser struct {
	ID   string
	Name string
}

// Score is the externally computed affinity of a client for an advertiser.
// A missing score counts as 0.
type Score struct {
	ClientID     string
	AdvertiserID string
	Score        int64
}
