package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FullName string             `json:"full_name" bson:"full_name"`
	Email    string             `json:"email" bson:"email"`
	Phone    string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Password string             `json:"-" bson:"password"`
	Role     string             `json:"role" bson:"role"`

	// StudentNo is the human-facing registration number, students only.
	StudentNo string `json:"student_no,omitempty" bson:"student_no,omitempty"`

	OTPHash      string     `json:"-" bson:"otp_hash,omitempty"`
	OTPExpiresAt *time.Time `json:"-" bson:"otp_expires_at,omitempty"`

	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
