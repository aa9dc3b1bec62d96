package models

// The types below define the JSON shape of a Result value per draw kind.
// Serialization and the UI depend on these field names.

// ParticipantRef is the participant as embedded in a result
type ParticipantRef struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	FacebookID *string `json:"facebook_id"`
}

// PrizeRef is the prize as embedded in a result
type PrizeRef struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	URL  *string `json:"url"`
}

// Ref converts a stored participant into its result form
func (p Participant) Ref() ParticipantRef {
	return ParticipantRef{ID: p.ID, Name: p.Name, FacebookID: optional(p.FacebookID)}
}

// Ref converts a stored prize into its result form
func (p Prize) Ref() PrizeRef {
	return PrizeRef{ID: p.ID, Name: p.Name, URL: optional(p.URL)}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// RaffleWinner pairs a prize with a participant
type RaffleWinner struct {
	Prize       PrizeRef       `json:"prize"`
	Participant ParticipantRef `json:"participant"`
}

// CommentWinner pairs a prize with a social media comment
type CommentWinner struct {
	Prize   PrizeRef `json:"prize"`
	Comment Comment  `json:"comment"`
}

// LinkPair is one positional pairing of a link draw
type LinkPair struct {
	Element1 string `json:"element1"`
	Element2 string `json:"element2"`
}

// ShiftAssignment gives an interval to its participants
type ShiftAssignment struct {
	Interval     Interval         `json:"interval"`
	Participants []ParticipantRef `json:"participants"`
}

// BracketMatch is one match of a single elimination bracket.
// Score and WinnerID stay null until decided; NextMatchID is null for the final.
type BracketMatch struct {
	ID           int              `json:"id"`
	Participants []ParticipantRef `json:"participants"`
	Score        any              `json:"score"`
	WinnerID     *string          `json:"winner_id"`
	NextMatchID  *int             `json:"next_match_id"`
}
