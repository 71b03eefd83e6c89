package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType classifies a custody balance movement.
type TransactionType string

const (
	TransactionDeposit  TransactionType = "DEPOSIT"   // Selector-less funds into custody
	TransactionEntryFee TransactionType = "ENTRY_FEE" // Admission fee into custody
	TransactionPrize    TransactionType = "PRIZE"     // Prize payout to a winner
	TransactionProfit   TransactionType = "PROFIT"    // Profit payout to the operator
	TransactionSweep    TransactionType = "SWEEP"     // Emergency withdrawal to the operator
)

// Transaction records one movement of the custody balance.
type Transaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Type      TransactionType    `bson:"type" json:"type"`
	Account   string             `bson:"account" json:"account"` // Counterparty of the movement
	Amount    int64              `bson:"amount" json:"amount"`   // In smallest units
	Tier      int                `bson:"tier,omitempty" json:"tier,omitempty"`
	DrawID    primitive.ObjectID `bson:"drawId,omitempty" json:"drawId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
