package payments

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/edubridge-lk/edubridge-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func providerSig(merchantID, orderID, amount, currency, statusCode, secret string) string {
	inner := md5.Sum([]byte(secret))
	innerHex := strings.ToUpper(hex.EncodeToString(inner[:]))
	outer := md5.Sum([]byte(merchantID + orderID + amount + currency + statusCode + innerHex))
	return strings.ToUpper(hex.EncodeToString(outer[:]))
}

func TestVerifyNotification(t *testing.T) {
	p := PayHere{MerchantID: "1211149", MerchantSecret: "supersecret"}
	goodSig := providerSig("1211149", "abc123", "1500.00", "LKR", "2", "supersecret")

	tests := []struct {
		name string
		sig  string
		want bool
	}{
		{name: "valid signature", sig: goodSig, want: true},
		{name: "lowercase signature accepted", sig: strings.ToLower(goodSig), want: true},
		{name: "tampered signature", sig: "0" + goodSig[1:], want: false},
		{name: "empty signature", sig: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.VerifyNotification("1211149", "abc123", "1500.00", "LKR", "2", tt.sig)
			if got != tt.want {
				t.Errorf("VerifyNotification() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyNotificationRejectsFieldTampering(t *testing.T) {
	p := PayHere{MerchantID: "1211149", MerchantSecret: "supersecret"}
	sig := providerSig("1211149", "abc123", "1500.00", "LKR", "2", "supersecret")

	// A signature computed over the real amount must not verify a
	// callback claiming a different amount or status.
	if p.VerifyNotification("1211149", "abc123", "1.00", "LKR", "2", sig) {
		t.Error("signature verified despite tampered amount")
	}
	if p.VerifyNotification("1211149", "abc123", "1500.00", "LKR", "-2", sig) {
		t.Error("signature verified despite tampered status code")
	}
}

func TestCheckoutHash(t *testing.T) {
	p := PayHere{MerchantID: "1211149", MerchantSecret: "supersecret"}

	// The checkout hash is the notify formula without the status code.
	inner := md5.Sum([]byte("supersecret"))
	innerHex := strings.ToUpper(hex.EncodeToString(inner[:]))
	outer := md5.Sum([]byte("1211149" + "abc123" + "1500.00" + "LKR" + innerHex))
	want := strings.ToUpper(hex.EncodeToString(outer[:]))

	if got := p.CheckoutHash("abc123", "1500.00", "LKR"); got != want {
		t.Errorf("CheckoutHash() = %s, want %s", got, want)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1500, "1500.00"},
		{999.9, "999.90"},
		{0, "0.00"},
		{1234.567, "1234.57"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestOrderStatusFor(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{StatusSuccess, models.OrderCompleted},
		{StatusPending, models.OrderPending},
		{StatusCanceled, models.OrderFailed},
		{StatusFailed, models.OrderFailed},
		{StatusChargeback, models.OrderFailed},
		{99, models.OrderFailed},
	}
	for _, tt := range tests {
		if got := OrderStatusFor(tt.code); got != tt.want {
			t.Errorf("OrderStatusFor(%d) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestCheckoutFields(t *testing.T) {
	p := PayHere{
		MerchantID:     "1211149",
		MerchantSecret: "supersecret",
		ReturnURL:      "https://site/return",
		CancelURL:      "https://site/cancel",
		NotifyURL:      "https://api/notify",
	}

	monthID := primitive.NewObjectID()
	order := models.Order{
		ID:       primitive.NewObjectID(),
		Items:    []models.OrderItem{{MonthID: &monthID, Title: "January 2026", Price: 1500, Currency: "LKR"}},
		Total:    1500,
		Currency: "LKR",
	}

	fields := p.CheckoutFields(order, "Kasun Perera", "kasun@example.com", "0771234567")

	if fields["amount"] != "1500.00" {
		t.Errorf("amount = %s, want 1500.00", fields["amount"])
	}
	if fields["order_id"] != order.ID.Hex() {
		t.Errorf("order_id = %s, want %s", fields["order_id"], order.ID.Hex())
	}
	if fields["items"] != "January 2026" {
		t.Errorf("items = %s, want January 2026", fields["items"])
	}
	if want := p.CheckoutHash(order.ID.Hex(), "1500.00", "LKR"); fields["hash"] != want {
		t.Errorf("hash = %s, want %s", fields["hash"], want)
	}
}
