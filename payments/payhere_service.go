package payments

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/edubridge-lk/edubridge-api/models"
)

// PayHere hosted-checkout integration. The provider signs both directions
// with md5 over a fixed field concatenation; the merchant secret is itself
// md5-digested and upper-cased before use, per the provider's scheme.

type PayHere struct {
	MerchantID     string
	MerchantSecret string
	ReturnURL      string
	CancelURL      string
	NotifyURL      string
}

func md5Upper(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// CheckoutHash signs the outbound checkout form. Amount must already be
// formatted to two decimals.
func (p PayHere) CheckoutHash(orderID, amount, currency string) string {
	return md5Upper(p.MerchantID + orderID + amount + currency + md5Upper(p.MerchantSecret))
}

// VerifyNotification checks the md5sig of an inbound callback. The amount,
// currency and status code are used exactly as the provider sent them; the
// comparison is case-insensitive.
func (p PayHere) VerifyNotification(merchantID, orderID, amount, currency, statusCode, md5sig string) bool {
	local := md5Upper(merchantID + orderID + amount + currency + statusCode + md5Upper(p.MerchantSecret))
	return strings.EqualFold(local, md5sig)
}

// FormatAmount renders an order total the way PayHere expects it.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// PayHere notify status codes.
const (
	StatusSuccess    = 2
	StatusPending    = 0
	StatusCanceled   = -1
	StatusFailed     = -2
	StatusChargeback = -3
)

// OrderStatusFor maps a provider status code onto the order state machine:
// success completes the order, in-progress leaves it pending, anything
// else fails it.
func OrderStatusFor(statusCode int) string {
	switch statusCode {
	case StatusSuccess:
		return models.OrderCompleted
	case StatusPending:
		return models.OrderPending
	default:
		return models.OrderFailed
	}
}

// CheckoutFields returns the form fields the frontend posts to the hosted
// checkout page.
func (p PayHere) CheckoutFields(order models.Order, customerName, customerEmail, customerPhone string) map[string]string {
	amount := FormatAmount(order.Total)
	orderID := order.ID.Hex()

	items := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, item.Title)
	}

	return map[string]string{
		"merchant_id": p.MerchantID,
		"return_url":  p.ReturnURL,
		"cancel_url":  p.CancelURL,
		"notify_url":  p.NotifyURL,
		"order_id":    orderID,
		"items":       strings.Join(items, ", "),
		"amount":      amount,
		"currency":    order.Currency,
		"first_name":  customerName,
		"email":       customerEmail,
		"phone":       customerPhone,
		"hash":        p.CheckoutHash(orderID, amount, order.Currency),
	}
}
