package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entry records one admitted lottery entry. Audit record only; the engine's
// in-memory round is the source of truth for the live round.
type Entry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Tier      int                `bson:"tier" json:"tier"`
	Account   string             `bson:"account" json:"account"`
	Amount    int64              `bson:"amount" json:"amount"` // Entry fee paid, in smallest units
	EnteredAt time.Time          `bson:"enteredAt" json:"enteredAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
