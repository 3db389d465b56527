package services

import (
	"context"
	"log"

	"github.com/edubridge-lk/edubridge-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CourseStore is the persistence surface the reconciler needs: one bulk
// set-add across every course under the given months.
type CourseStore interface {
	EnrollStudent(ctx context.Context, monthIDs []primitive.ObjectID, studentID primitive.ObjectID) (int64, error)
}

type MongoCourseStore struct {
	Courses *mongo.Collection
}

// EnrollStudent adds the student to the student set of every course whose
// month is in monthIDs. $addToSet keeps the operation idempotent and
// commutative under racing confirmations.
func (s MongoCourseStore) EnrollStudent(ctx context.Context, monthIDs []primitive.ObjectID, studentID primitive.ObjectID) (int64, error) {
	res, err := s.Courses.UpdateMany(ctx,
		bson.M{"month_id": bson.M{"$in": monthIDs}},
		bson.M{"$addToSet": bson.M{"students": studentID}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// EnrollmentService grants a paid order's purchaser access to all course
// content gated behind the purchased months. It mutates courses only;
// stamping the order is the caller's business.
type EnrollmentService struct {
	store CourseStore
}

func NewEnrollmentService(store CourseStore) *EnrollmentService {
	return &EnrollmentService{store: store}
}

// Reconcile runs after an order has been marked paid. Re-running it for
// the same order any number of times leaves the same student-set
// membership behind. A returned error must be logged by the caller and
// must not alter the outcome of the status change that triggered it.
func (s *EnrollmentService) Reconcile(ctx context.Context, order models.Order) error {
	if order.UserID == nil || order.UserID.IsZero() {
		log.Printf("Order %s has no purchaser, skipping enrollment", order.ID.Hex())
		return nil
	}

	monthIDs := order.MonthIDs()
	if len(monthIDs) == 0 {
		return nil
	}

	matched, err := s.store.EnrollStudent(ctx, monthIDs, *order.UserID)
	if err != nil {
		return err
	}

	log.Printf("✅ Enrolled user %s into %d course(s) for order %s", order.UserID.Hex(), matched, order.ID.Hex())
	return nil
}
