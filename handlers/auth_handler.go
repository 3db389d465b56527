package handlers

import (
	"fmt"
	"time"

	"github.com/edubridge-lk/edubridge-api/models"
	"github.com/edubridge-lk/edubridge-api/notifications"
	"github.com/edubridge-lk/edubridge-api/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const otpValidity = 10 * time.Minute

type AuthHandler struct {
	Users     *mongo.Collection
	Mailer    notifications.Mailer
	JWTSecret string
	SiteName  string
}

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" validate:"required,min=6"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	StudentNo string    `json:"student_no,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	ctx := c.Context()
	studentNo, err := utils.GenerateStudentNo(ctx, h.Users, time.Now().Year())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate student number"})
	}

	now := time.Now()
	newUser := models.User{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  string(hashedPassword),
		Role:      models.RoleStudent,
		StudentNo: studentNo,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := h.Users.InsertOne(ctx, newUser)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}
	newUser.ID = res.InsertedID.(primitive.ObjectID)

	notifications.SendAsync(h.Mailer, newUser.FullName, newUser.Email,
		fmt.Sprintf("Welcome to %s!", h.SiteName),
		fmt.Sprintf("<h1>Welcome!</h1><p>Your account has been created. Your student number is <b>%s</b>.</p>", studentNo))

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        newUser.ID.Hex(),
		FullName:  newUser.FullName,
		Email:     newUser.Email,
		Role:      newUser.Role,
		StudentNo: newUser.StudentNo,
		CreatedAt: newUser.CreatedAt,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := h.Users.FindOne(c.Context(), bson.M{"email": req.Email}).Decode(&user); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is deactivated"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	t, err := h.signToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": t})
}

type OTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestOTP emails a short-lived login code. The response is identical
// whether or not the account exists; a mail-gateway failure is surfaced as
// send_error but never fails the request.
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	resp := fiber.Map{"message": "If an account with that email exists, a login code has been sent."}

	ctx := c.Context()
	var user models.User
	if err := h.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		return c.Status(fiber.StatusOK).JSON(resp)
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate login code"})
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate login code"})
	}

	expiry := time.Now().Add(otpValidity)
	_, err = h.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"otp_hash":       string(codeHash),
		"otp_expires_at": expiry,
		"updated_at":     time.Now(),
	}})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store login code"})
	}

	sendErr := h.Mailer.Send(user.FullName, user.Email,
		"Your login code",
		fmt.Sprintf("<h1>Login Code</h1><p>Your code is <b>%s</b>. It is valid for 10 minutes.</p>", code))
	if sendErr != nil {
		resp["send_error"] = sendErr.Error()
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

type OTPVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req OTPVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx := c.Context()
	var user models.User
	if err := h.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired login code"})
	}

	if user.OTPHash == "" || user.OTPExpiresAt == nil || user.OTPExpiresAt.Before(time.Now()) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired login code"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.OTPHash), []byte(req.Code)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired login code"})
	}

	// Single use: clear the code before handing out a token.
	_, err := h.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$unset": bson.M{
		"otp_hash":       "",
		"otp_expires_at": "",
	}})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to consume login code"})
	}

	t, err := h.signToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": t})
}

func (h *AuthHandler) signToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.JWTSecret))
}
