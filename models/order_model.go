package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderFailed    = "failed"
	OrderCancelled = "cancelled"
)

const (
	MethodBank   = "bank"
	MethodCash   = "cash"
	MethodOnline = "online"
)

type OrderItem struct {
	MonthID  *primitive.ObjectID `json:"month_id,omitempty" bson:"month_id,omitempty"`
	Title    string              `json:"title" bson:"title"`
	Price    float64             `json:"price" bson:"price"`
	Currency string              `json:"currency" bson:"currency"`
}

// Customer carries contact details for anonymous checkouts (UserID unset).
type Customer struct {
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

type BankPayment struct {
	Reference string `json:"reference" bson:"reference"`
	SlipURL   string `json:"slip_url,omitempty" bson:"slip_url,omitempty"`
}

type CashPayment struct {
	Reference string `json:"reference" bson:"reference"`
}

type OnlinePayment struct {
	Provider   string `json:"provider" bson:"provider"`
	PaymentID  string `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	StatusCode int    `json:"status_code" bson:"status_code"`
	Amount     string `json:"amount,omitempty" bson:"amount,omitempty"`
	Currency   string `json:"currency,omitempty" bson:"currency,omitempty"`
}

// Payment is the verification envelope around exactly one method-specific
// variant; the populated variant matches Order.Method.
type Payment struct {
	Bank   *BankPayment   `json:"bank,omitempty" bson:"bank,omitempty"`
	Cash   *CashPayment   `json:"cash,omitempty" bson:"cash,omitempty"`
	Online *OnlinePayment `json:"online,omitempty" bson:"online,omitempty"`

	Verified   bool                `json:"verified" bson:"verified"`
	VerifiedBy *primitive.ObjectID `json:"verified_by,omitempty" bson:"verified_by,omitempty"`
	VerifiedAt *time.Time          `json:"verified_at,omitempty" bson:"verified_at,omitempty"`
}

type Order struct {
	ID       primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID   *primitive.ObjectID `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Customer Customer            `json:"customer,omitempty" bson:"customer,omitempty"`
	Items    []OrderItem         `json:"items" bson:"items"`
	Total    float64             `json:"total" bson:"total"`
	Currency string              `json:"currency" bson:"currency"`
	Method   string              `json:"method" bson:"method"`
	Payment  Payment             `json:"payment" bson:"payment"`
	Status   string              `json:"status" bson:"status"`

	ReceiptURL string `json:"receipt_url,omitempty" bson:"receipt_url,omitempty"`

	// EnrollmentSyncedAt is stamped by callers after a successful
	// reconciliation; the reconcile job re-checks completed orders
	// regardless, so a missing stamp self-heals.
	EnrollmentSyncedAt *time.Time `json:"enrollment_synced_at,omitempty" bson:"enrollment_synced_at,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// MonthIDs returns the distinct non-nil month ids across the order's items.
func (o Order) MonthIDs() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(o.Items))
	ids := make([]primitive.ObjectID, 0, len(o.Items))
	for _, item := range o.Items {
		if item.MonthID == nil || item.MonthID.IsZero() {
			continue
		}
		if _, ok := seen[*item.MonthID]; ok {
			continue
		}
		seen[*item.MonthID] = struct{}{}
		ids = append(ids, *item.MonthID)
	}
	return ids
}
