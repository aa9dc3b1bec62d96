package models

import (
	"time"
)

// DrawKind tags the variant of a draw
type DrawKind string

const (
	DrawKindRandomNumber DrawKind = "random_number"
	DrawKindLetter       DrawKind = "letter"
	DrawKindRaffle       DrawKind = "raffle"
	DrawKindLottery      DrawKind = "lottery"
	DrawKindGroups       DrawKind = "groups"
	DrawKindLink         DrawKind = "link"
	DrawKindSpinner      DrawKind = "spinner"
	DrawKindCoin         DrawKind = "coin"
	DrawKindTournament   DrawKind = "tournament"
	DrawKindShifts       DrawKind = "shifts"
	DrawKindInstagram    DrawKind = "instagram"
	DrawKindTiktok       DrawKind = "tiktok"
)

// DrawKinds lists every supported kind, in the order they are documented
var DrawKinds = []DrawKind{
	DrawKindRandomNumber,
	DrawKindLetter,
	DrawKindRaffle,
	DrawKindLottery,
	DrawKindGroups,
	DrawKindLink,
	DrawKindSpinner,
	DrawKindCoin,
	DrawKindTournament,
	DrawKindShifts,
	DrawKindInstagram,
	DrawKindTiktok,
}

// Valid reports whether k is a known draw kind
func (k DrawKind) Valid() bool {
	for _, known := range DrawKinds {
		if k == known {
			return true
		}
	}
	return false
}

// UsesComments reports whether tossing the draw needs a fetched comment pool
func (k DrawKind) UsesComments() bool {
	return k == DrawKindInstagram || k == DrawKindTiktok
}

// Draw is a configured randomization task. Only the fields relevant to its
// Kind are meaningful; the rest stay at their zero value.
type Draw struct {
	ID          string     `bson:"_id" json:"id"`
	PrivateID   string     `bson:"privateId" json:"private_id,omitempty"`
	Kind        DrawKind   `bson:"kind" json:"kind"`
	Title       string     `bson:"title,omitempty" json:"title,omitempty"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Metadata    []Metadata `bson:"metadata,omitempty" json:"metadata,omitempty"`

	// random_number, letter, lottery
	RangeMin             int64 `bson:"rangeMin" json:"range_min"`
	RangeMax             int64 `bson:"rangeMax" json:"range_max"`
	NumberOfResults      int   `bson:"numberOfResults" json:"number_of_results"`
	AllowRepeatedResults bool  `bson:"allowRepeatedResults" json:"allow_repeated_results"`

	// groups
	NumberOfGroups int `bson:"numberOfGroups,omitempty" json:"number_of_groups,omitempty"`

	// link
	ItemsSet1 []string `bson:"itemsSet1,omitempty" json:"items_set1,omitempty"`
	ItemsSet2 []string `bson:"itemsSet2,omitempty" json:"items_set2,omitempty"`

	// shifts
	Intervals []Interval `bson:"intervals,omitempty" json:"intervals,omitempty"`

	// instagram, tiktok
	PostURL     string `bson:"postUrl,omitempty" json:"post_url,omitempty"`
	MinMentions int    `bson:"minMentions,omitempty" json:"min_mentions,omitempty"`
	UseLikes    bool   `bson:"useLikes,omitempty" json:"use_likes,omitempty"`

	Participants []Participant `bson:"participants,omitempty" json:"participants,omitempty"`
	Prizes       []Prize       `bson:"prizes,omitempty" json:"prizes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// Participant takes part in raffles, lotteries, groups, shifts and tournaments.
// FacebookID is the optional external identity used for de-duplication.
type Participant struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	FacebookID string    `bson:"facebookId,omitempty" json:"facebook_id,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"created_at"`
}

// Interval is one shift slot
type Interval struct {
	StartTime time.Time `bson:"startTime" json:"start_time"`
	EndTime   time.Time `bson:"endTime" json:"end_time"`
}

// Metadata is opaque client data attached to a draw
type Metadata struct {
	Client string `bson:"client" json:"client"`
	Key    string `bson:"key" json:"key"`
	Value  string `bson:"value" json:"value"`
}

// PublicView returns a copy of the draw without the owner capability.
func (d *Draw) PublicView() *Draw {
	cp := *d
	cp.PrivateID = ""
	return &cp
}

// DrawExport is a draw together with its results, as written by backups
type DrawExport struct {
	Draw    *Draw     `json:"draw"`
	Results []*Result `json:"results"`
}
