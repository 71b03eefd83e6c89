package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OperatorUser is a backend login for the operator-only operations. Stored in
// the "operator_users" collection; the password is a bcrypt hash and never
// serialized in responses.
type OperatorUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"` // "operator"
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
