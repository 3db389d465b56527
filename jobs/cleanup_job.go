package jobs

import (
	"context"
	"log"
	"time"

	"github.com/edubridge-lk/edubridge-api/database"
	"github.com/edubridge-lk/edubridge-api/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Online checkouts the buyer abandoned never get a gateway callback; after
// a day they are dead and only clutter the admin order list.
const pendingOnlineTTL = 24 * time.Hour

func CancelStaleOnlineOrders() {
	log.Println("Running job: CancelStaleOnlineOrders...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := database.Orders().UpdateMany(ctx,
		bson.M{
			"status":     models.OrderPending,
			"method":     models.MethodOnline,
			"created_at": bson.M{"$lt": time.Now().Add(-pendingOnlineTTL)},
		},
		bson.M{"$set": bson.M{
			"status":     models.OrderCancelled,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		log.Printf("Error cancelling stale online orders: %v", err)
		return
	}

	if res.ModifiedCount > 0 {
		log.Printf("Cancelled %d stale pending online order(s)", res.ModifiedCount)
	}
}
