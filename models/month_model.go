package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Month is a billing/content grouping scoped to a Batch. Content under a
// priced month is access-gated; price 0 means free.
type Month struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BatchID   primitive.ObjectID `json:"batch_id" bson:"batch_id"`
	Name      string             `json:"name" bson:"name"`
	Title     string             `json:"title,omitempty" bson:"title,omitempty"`
	Price     float64            `json:"price" bson:"price"`
	Currency  string             `json:"currency" bson:"currency"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
