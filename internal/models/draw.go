package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Draw records one completed draw: the winner, what was paid out, and how
// many participants the round had when it settled.
type Draw struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Tier         int                `bson:"tier" json:"tier"`
	Winner       string             `bson:"winner" json:"winner"`
	PrizeAmount  int64              `bson:"prizeAmount" json:"prizeAmount"`
	ProfitAmount int64              `bson:"profitAmount" json:"profitAmount"`
	Participants int                `bson:"participants" json:"participants"`
	DrawnAt      time.Time          `bson:"drawnAt" json:"drawnAt"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
