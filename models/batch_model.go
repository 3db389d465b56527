package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Batch is a year-scoped container used for filtering months and courses.
type Batch struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Year      int                `json:"year" bson:"year"`
	Name      string             `json:"name" bson:"name"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
