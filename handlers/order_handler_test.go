package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func tokenFor(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

// optionalUserID backs anonymous checkout: a valid token yields the
// purchaser id, anything else silently yields none.
func TestOptionalUserID(t *testing.T) {
	userID := primitive.NewObjectID()
	validClaims := jwt.MapClaims{
		"user_id": userID.Hex(),
		"role":    "student",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name   string
		header string
		want   *primitive.ObjectID
	}{
		{name: "no header"},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not.a.jwt"},
		{name: "wrong secret", header: "Bearer " + tokenFor(t, "other-secret", validClaims)},
		{
			name: "malformed user id",
			header: "Bearer " + tokenFor(t, testSecret, jwt.MapClaims{
				"user_id": "nope",
				"exp":     time.Now().Add(time.Hour).Unix(),
			}),
		},
		{name: "valid token", header: "Bearer " + tokenFor(t, testSecret, validClaims), want: &userID},
	}

	h := &OrderHandler{JWTSecret: testSecret}
	app := fiber.New()
	app.Post("/probe", func(c *fiber.Ctx) error {
		got := h.optionalUserID(c)
		if got == nil {
			return c.SendString("")
		}
		return c.SendString(got.Hex())
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/probe", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			body := make([]byte, 64)
			n, _ := resp.Body.Read(body)
			got := string(body[:n])

			want := ""
			if tt.want != nil {
				want = tt.want.Hex()
			}
			if got != want {
				t.Errorf("optionalUserID() = %q, want %q", got, want)
			}
		})
	}
}
