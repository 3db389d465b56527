package handlers

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/edubridge-lk/edubridge-api/payments"
	"github.com/gofiber/fiber/v2"
)

// signedNotify reproduces the provider's md5sig for a callback.
func signedNotify(p payments.PayHere, merchantID, orderID, amount, currency, statusCode string) string {
	inner := md5.Sum([]byte(p.MerchantSecret))
	innerHex := strings.ToUpper(hex.EncodeToString(inner[:]))
	outer := md5.Sum([]byte(merchantID + orderID + amount + currency + statusCode + innerHex))
	return strings.ToUpper(hex.EncodeToString(outer[:]))
}

func notifyRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/payhere/notify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// The signature check runs before any database access, so these paths are
// exercised without a store behind the handler.
func TestHandlePayHereNotifyRejections(t *testing.T) {
	p := payments.PayHere{MerchantID: "1211149", MerchantSecret: "supersecret"}
	h := &PaymentHandler{PayHere: p}

	app := fiber.New()
	app.Post("/api/v1/payments/payhere/notify", h.HandlePayHereNotify)

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantBody   string
	}{
		{
			name: "signature mismatch",
			form: url.Values{
				"merchant_id":      {"1211149"},
				"order_id":         {"64f000000000000000000001"},
				"payhere_amount":   {"1500.00"},
				"payhere_currency": {"LKR"},
				"status_code":      {"2"},
				"md5sig":           {"DEADBEEFDEADBEEFDEADBEEFDEADBEEF"},
			},
			wantStatus: fiber.StatusBadRequest,
			wantBody:   "Invalid signature",
		},
		{
			name:       "missing fields",
			form:       url.Values{"order_id": {"64f000000000000000000001"}},
			wantStatus: fiber.StatusBadRequest,
			wantBody:   "Invalid signature",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(notifyRequest(tt.form))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body, _ := io.ReadAll(resp.Body)
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", string(body), tt.wantBody)
			}
		})
	}
}

func TestHandlePayHereNotifyMalformedOrderID(t *testing.T) {
	p := payments.PayHere{MerchantID: "1211149", MerchantSecret: "supersecret"}
	h := &PaymentHandler{PayHere: p}

	app := fiber.New()
	app.Post("/api/v1/payments/payhere/notify", h.HandlePayHereNotify)

	// Correctly signed callback for an order id that cannot exist.
	sig := signedNotify(p, "1211149", "not-an-object-id", "1500.00", "LKR", "2")
	form := url.Values{
		"merchant_id":      {"1211149"},
		"order_id":         {"not-an-object-id"},
		"payhere_amount":   {"1500.00"},
		"payhere_currency": {"LKR"},
		"status_code":      {"2"},
		"md5sig":           {sig},
	}

	resp, err := app.Test(notifyRequest(form))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Order not found" {
		t.Errorf("body = %q, want %q", string(body), "Order not found")
	}
}
