package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const studentNoDigits = 5

// GenerateStudentNo returns a registration number like "EB-2026-04821"
// that is not yet taken in the users collection.
func GenerateStudentNo(ctx context.Context, users *mongo.Collection, year int) (string, error) {
	for {
		n, err := rand.Int(rand.Reader, big.NewInt(100000))
		if err != nil {
			return "", err
		}
		no := fmt.Sprintf("EB-%d-%0*d", year, studentNoDigits, n.Int64())

		count, err := users.CountDocuments(ctx, bson.M{"student_no": no})
		if err != nil {
			return "", err
		}
		if count == 0 {
			return no, nil
		}
	}
}

// GenerateOTP returns a 6-digit numeric login code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

const passwordBytes = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword returns a random initial password for admin-created
// accounts; the user is emailed the value and expected to change it.
func GeneratePassword(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordBytes))))
		if err != nil {
			return "", err
		}
		b[i] = passwordBytes[n.Int64()]
	}
	return string(b), nil
}
