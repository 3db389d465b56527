package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a single content item (video or live meeting link). Students
// holds the ids of users who have been granted access; it is the
// enrollment ledger the reconciler writes into.
type Course struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Year        int                  `json:"year" bson:"year"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	MonthID     *primitive.ObjectID  `json:"month_id,omitempty" bson:"month_id,omitempty"`
	VideoURL    string               `json:"video_url,omitempty" bson:"video_url,omitempty"`
	MeetingLink string               `json:"meeting_link,omitempty" bson:"meeting_link,omitempty"`
	Students    []primitive.ObjectID `json:"students" bson:"students"`
	CreatedBy   primitive.ObjectID   `json:"created_by" bson:"created_by"`
	Archived    bool                 `json:"archived" bson:"archived"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" bson:"updated_at"`
}
