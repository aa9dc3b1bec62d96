package models

import "time"

// SecretSanta groups the assignments produced by one secret santa toss
type SecretSanta struct {
	ID        string    `bson:"_id" json:"id"`
	Language  string    `bson:"language" json:"language"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

// SecretSantaParticipant is one person entering a secret santa.
// Exclusions names the participants this person must not be assigned to.
type SecretSantaParticipant struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Exclusions []string `json:"exclusions,omitempty"`
}

// SecretSantaResult is a single source -> target pairing. A resent pairing
// invalidates the previous record instead of deleting it.
type SecretSantaResult struct {
	ID            string    `bson:"_id" json:"id"`
	SecretSantaID string    `bson:"secretSantaId" json:"secret_santa_id"`
	Source        string    `bson:"source" json:"source"`
	Target        string    `bson:"target" json:"target,omitempty"`
	Email         string    `bson:"email,omitempty" json:"-"`
	Revealed      bool      `bson:"revealed" json:"revealed"`
	Valid         bool      `bson:"valid" json:"valid"`
	CreatedAt     time.Time `bson:"createdAt" json:"created_at"`
}

// SecretSantaRequest creates a secret santa
type SecretSantaRequest struct {
	Language     string                   `json:"language"`
	Participants []SecretSantaParticipant `json:"participants" binding:"required,min=2,dive"`
}

// ResendRequest asks to send a pairing again, optionally to a corrected address
type ResendRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}
