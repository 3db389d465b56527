package handlers

import (
	"fmt"
	"time"

	"github.com/edubridge-lk/edubridge-api/models"
	"github.com/edubridge-lk/edubridge-api/notifications"
	"github.com/edubridge-lk/edubridge-api/utils"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	Users    *mongo.Collection
	Mailer   notifications.Mailer
	SiteName string
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	filter := bson.M{}
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}
	if q := c.Query("q"); q != "" {
		filter["$or"] = bson.A{
			bson.M{"full_name": bson.M{"$regex": q, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": q, "$options": "i"}},
			bson.M{"student_no": bson.M{"$regex": q, "$options": "i"}},
		}
	}

	ctx := c.Context()
	cursor, err := h.Users.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error decoding users"})
	}
	return c.JSON(users)
}

type CreateUserRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role" validate:"required,oneof=student teacher admin"`
}

// CreateUser lets an admin provision an account. The generated initial
// password is emailed; a delivery failure is reported as send_error so the
// admin can pass the credentials on manually.
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	password, err := utils.GeneratePassword(10)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate password"})
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	ctx := c.Context()
	now := time.Now()
	newUser := models.User{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  string(hashedPassword),
		Role:      req.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Role == models.RoleStudent {
		studentNo, err := utils.GenerateStudentNo(ctx, h.Users, now.Year())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate student number"})
		}
		newUser.StudentNo = studentNo
	}

	res, err := h.Users.InsertOne(ctx, newUser)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}
	newUser.ID = res.InsertedID.(primitive.ObjectID)

	resp := fiber.Map{
		"id":         newUser.ID.Hex(),
		"full_name":  newUser.FullName,
		"email":      newUser.Email,
		"role":       newUser.Role,
		"student_no": newUser.StudentNo,
	}

	sendErr := h.Mailer.Send(newUser.FullName, newUser.Email,
		fmt.Sprintf("Your %s account", h.SiteName),
		fmt.Sprintf("<h1>Account Created</h1><p>Your account is ready.</p><p>Email: <b>%s</b><br>Password: <b>%s</b></p><p>Please change the password after your first login.</p>",
			newUser.Email, password))
	if sendErr != nil {
		resp["send_error"] = sendErr.Error()
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=student teacher admin"`
	IsActive *bool   `json:"is_active,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	set := bson.M{"updated_at": time.Now()}
	if req.FullName != nil {
		set["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Role != nil {
		set["role"] = *req.Role
	}
	if req.IsActive != nil {
		set["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
		}
		set["password"] = string(hashed)
	}

	res, err := h.Users.UpdateOne(c.Context(), bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}
	if res.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{"message": "User updated successfully"})
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	res, err := h.Users.DeleteOne(c.Context(), bson.M{"_id": userID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}
	if res.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.Users.FindOne(c.Context(), bson.M{"_id": userID}).Decode(&user); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}
