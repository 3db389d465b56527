package services

import (
	"context"
	"errors"
	"testing"

	"github.com/edubridge-lk/edubridge-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCourse struct {
	id       primitive.ObjectID
	monthID  primitive.ObjectID
	students []primitive.ObjectID
}

// fakeCourseStore mirrors the $addToSet/$in semantics of the mongo store.
type fakeCourseStore struct {
	courses []*fakeCourse
	calls   int
	err     error
}

func (s *fakeCourseStore) EnrollStudent(_ context.Context, monthIDs []primitive.ObjectID, studentID primitive.ObjectID) (int64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}

	var matched int64
	for _, course := range s.courses {
		for _, monthID := range monthIDs {
			if course.monthID != monthID {
				continue
			}
			matched++
			present := false
			for _, sid := range course.students {
				if sid == studentID {
					present = true
					break
				}
			}
			if !present {
				course.students = append(course.students, studentID)
			}
			break
		}
	}
	return matched, nil
}

func orderWith(userID *primitive.ObjectID, monthIDs ...*primitive.ObjectID) models.Order {
	items := make([]models.OrderItem, 0, len(monthIDs))
	for _, id := range monthIDs {
		items = append(items, models.OrderItem{MonthID: id, Title: "x", Currency: "LKR"})
	}
	return models.Order{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Items:  items,
		Status: models.OrderCompleted,
	}
}

func TestReconcileSkipsWithoutPurchaser(t *testing.T) {
	m1 := primitive.NewObjectID()

	tests := []struct {
		name   string
		userID *primitive.ObjectID
	}{
		{name: "nil purchaser"},
		{name: "zero purchaser", userID: &primitive.ObjectID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeCourseStore{}
			svc := NewEnrollmentService(store)

			if err := svc.Reconcile(context.Background(), orderWith(tt.userID, &m1)); err != nil {
				t.Fatalf("Reconcile() error = %v, want nil", err)
			}
			if store.calls != 0 {
				t.Errorf("store called %d time(s), want 0", store.calls)
			}
		})
	}
}

func TestReconcileNoMonths(t *testing.T) {
	user := primitive.NewObjectID()
	store := &fakeCourseStore{}
	svc := NewEnrollmentService(store)

	// One item without a month reference at all.
	if err := svc.Reconcile(context.Background(), orderWith(&user, nil)); err != nil {
		t.Fatalf("Reconcile() error = %v, want nil", err)
	}
	if store.calls != 0 {
		t.Errorf("store called %d time(s), want 0", store.calls)
	}
}

func TestReconcileScope(t *testing.T) {
	user := primitive.NewObjectID()
	m1 := primitive.NewObjectID()
	m2 := primitive.NewObjectID()
	m3 := primitive.NewObjectID()

	c1 := &fakeCourse{id: primitive.NewObjectID(), monthID: m1}
	c2 := &fakeCourse{id: primitive.NewObjectID(), monthID: m1}
	c3 := &fakeCourse{id: primitive.NewObjectID(), monthID: m3}
	store := &fakeCourseStore{courses: []*fakeCourse{c1, c2, c3}}
	svc := NewEnrollmentService(store)

	// Items cover months 1 and 2; no course exists under month 2.
	order := orderWith(&user, &m1, &m2)
	if err := svc.Reconcile(context.Background(), order); err != nil {
		t.Fatalf("Reconcile() error = %v, want nil", err)
	}

	for _, course := range []*fakeCourse{c1, c2} {
		if len(course.students) != 1 || course.students[0] != user {
			t.Errorf("course %s students = %v, want [%s]", course.id.Hex(), course.students, user.Hex())
		}
	}
	if len(c3.students) != 0 {
		t.Errorf("course under unrelated month gained students: %v", c3.students)
	}
}

func TestReconcileIdempotence(t *testing.T) {
	user := primitive.NewObjectID()
	m1 := primitive.NewObjectID()

	c1 := &fakeCourse{id: primitive.NewObjectID(), monthID: m1}
	store := &fakeCourseStore{courses: []*fakeCourse{c1}}
	svc := NewEnrollmentService(store)

	// Duplicate month references in the items must collapse to one id,
	// and re-running must not duplicate the membership.
	order := orderWith(&user, &m1, &m1)
	for i := 0; i < 3; i++ {
		if err := svc.Reconcile(context.Background(), order); err != nil {
			t.Fatalf("Reconcile() run %d error = %v, want nil", i+1, err)
		}
	}

	if len(c1.students) != 1 || c1.students[0] != user {
		t.Errorf("students = %v, want exactly [%s]", c1.students, user.Hex())
	}
}

func TestReconcileStoreError(t *testing.T) {
	user := primitive.NewObjectID()
	m1 := primitive.NewObjectID()

	wantErr := errors.New("update failed")
	store := &fakeCourseStore{err: wantErr}
	svc := NewEnrollmentService(store)

	if err := svc.Reconcile(context.Background(), orderWith(&user, &m1)); !errors.Is(err, wantErr) {
		t.Errorf("Reconcile() error = %v, want %v", err, wantErr)
	}
}
