package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Winner records a prize payout to one account for one draw.
type Winner struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Account     string             `bson:"account" json:"account"`
	DrawID      primitive.ObjectID `bson:"drawId" json:"drawId"`
	Tier        int                `bson:"tier" json:"tier"`
	PrizeAmount int64              `bson:"prizeAmount" json:"prizeAmount"`
	WonAt       time.Time          `bson:"wonAt" json:"wonAt"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
