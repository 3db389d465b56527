package jobs

import (
	"context"
	"log"
	"time"

	"github.com/edubridge-lk/edubridge-api/database"
	"github.com/edubridge-lk/edubridge-api/models"
	"github.com/edubridge-lk/edubridge-api/services"
	"go.mongodb.org/mongo-driver/bson"
)

// reconcileWindow bounds the sweep; anything completed longer ago has
// either been synced or needs a manual re-save of the order.
const reconcileWindow = 7 * 24 * time.Hour

// ReconcileEnrollments re-runs the enrollment reconciler for recently
// completed orders. The underlying set-add is idempotent, so orders that
// were already synced are harmless to touch again; orders whose first
// reconciliation failed (or whose months gained courses after payment)
// are healed here.
func ReconcileEnrollments(enroll *services.EnrollmentService) {
	log.Println("Running job: ReconcileEnrollments...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cursor, err := database.Orders().Find(ctx, bson.M{
		"status":     models.OrderCompleted,
		"user_id":    bson.M{"$ne": nil},
		"updated_at": bson.M{"$gte": time.Now().Add(-reconcileWindow)},
	})
	if err != nil {
		log.Printf("Error fetching completed orders for reconcile sweep: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var swept, failed int
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			log.Printf("Error decoding order in reconcile sweep: %v", err)
			continue
		}

		if err := enroll.Reconcile(ctx, order); err != nil {
			log.Printf("🔥 Reconcile sweep failed for order %s: %v", order.ID.Hex(), err)
			failed++
			continue
		}

		now := time.Now()
		_, err := database.Orders().UpdateOne(ctx,
			bson.M{"_id": order.ID},
			bson.M{"$set": bson.M{"enrollment_synced_at": now}},
		)
		if err != nil {
			log.Printf("Error stamping enrollment_synced_at for order %s: %v", order.ID.Hex(), err)
		}
		swept++
	}

	if swept > 0 || failed > 0 {
		log.Printf("Reconcile sweep done: %d order(s) synced, %d failed", swept, failed)
	}
}
