package models

import "time"

// Prize is awarded by raffles and comment raffles. Duplicated names are
// allowed; prizes are told apart by ID.
type Prize struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	URL       string    `bson:"url,omitempty" json:"url,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}
