package handlers

import (
	"strconv"
	"time"

	"github.com/edubridge-lk/edubridge-api/models"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CourseHandler struct {
	Courses *mongo.Collection
	Months  *mongo.Collection
}

type CreateCourseRequest struct {
	Year        int    `json:"year" validate:"required,min=2000,max=2100"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	MonthID     string `json:"month_id,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	MeetingLink string `json:"meeting_link,omitempty"`
}

func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	creatorID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Context()
	var monthID *primitive.ObjectID
	if req.MonthID != "" {
		id, err := primitive.ObjectIDFromHex(req.MonthID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month ID"})
		}
		count, err := h.Months.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify month"})
		}
		if count == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Month not found"})
		}
		monthID = &id
	}

	now := time.Now()
	course := models.Course{
		Year:        req.Year,
		Name:        req.Name,
		Description: req.Description,
		MonthID:     monthID,
		VideoURL:    req.VideoURL,
		MeetingLink: req.MeetingLink,
		Students:    []primitive.ObjectID{},
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := h.Courses.InsertOne(ctx, course)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create course"})
	}
	course.ID = res.InsertedID.(primitive.ObjectID)

	return c.Status(fiber.StatusCreated).JSON(course)
}

// ListCourses returns catalog entries without the content links or the
// student sets; those are served by GetCourseContent after the access
// check.
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	filter := bson.M{"archived": false}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid year"})
		}
		filter["year"] = year
	}
	if monthIDStr := c.Query("month_id"); monthIDStr != "" {
		monthID, err := primitive.ObjectIDFromHex(monthIDStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month ID"})
		}
		filter["month_id"] = monthID
	}

	ctx := c.Context()
	projection := bson.M{"students": 0, "video_url": 0, "meeting_link": 0}
	cursor, err := h.Courses.Find(ctx, filter,
		options.Find().SetProjection(projection).SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch courses"})
	}
	defer cursor.Close(ctx)

	courses := make([]models.Course, 0)
	if err := cursor.All(ctx, &courses); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error decoding courses"})
	}
	return c.JSON(courses)
}

// GetCourseContent serves the video/meeting links, gated by the purchased
// month: a priced month requires the caller to be in the course's student
// set. The materialized set is the single source of truth for access.
func (h *CourseHandler) GetCourseContent(c *fiber.Ctx) error {
	courseID, err := primitive.ObjectIDFromHex(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Context()
	var course models.Course
	if err := h.Courses.FindOne(ctx, bson.M{"_id": courseID, "archived": false}).Decode(&course); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	role := currentRole(c)
	locked := false
	if role == models.RoleStudent && course.MonthID != nil {
		var month models.Month
		if err := h.Months.FindOne(ctx, bson.M{"_id": *course.MonthID}).Decode(&month); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve month"})
		}
		if month.Price > 0 {
			locked = true
			for _, sid := range course.Students {
				if sid == userID {
					locked = false
					break
				}
			}
		}
	}

	if locked {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":    "This content is locked. Purchase the month to get access.",
			"month_id": course.MonthID.Hex(),
		})
	}

	return c.JSON(fiber.Map{
		"id":           course.ID.Hex(),
		"name":         course.Name,
		"description":  course.Description,
		"video_url":    course.VideoURL,
		"meeting_link": course.MeetingLink,
	})
}

type UpdateCourseRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	MonthID     *string `json:"month_id,omitempty"`
	VideoURL    *string `json:"video_url,omitempty"`
	MeetingLink *string `json:"meeting_link,omitempty"`
	Archived    *bool   `json:"archived,omitempty"`
}

func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := primitive.ObjectIDFromHex(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	ctx := c.Context()
	set := bson.M{"updated_at": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.MonthID != nil {
		if *req.MonthID == "" {
			set["month_id"] = nil
		} else {
			monthID, err := primitive.ObjectIDFromHex(*req.MonthID)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month ID"})
			}
			count, err := h.Months.CountDocuments(ctx, bson.M{"_id": monthID})
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify month"})
			}
			if count == 0 {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Month not found"})
			}
			set["month_id"] = monthID
		}
	}
	if req.VideoURL != nil {
		set["video_url"] = *req.VideoURL
	}
	if req.MeetingLink != nil {
		set["meeting_link"] = *req.MeetingLink
	}
	if req.Archived != nil {
		set["archived"] = *req.Archived
	}

	res, err := h.Courses.UpdateOne(ctx, bson.M{"_id": courseID}, bson.M{"$set": set})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update course"})
	}
	if res.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	return c.JSON(fiber.Map{"message": "Course updated successfully"})
}

func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := primitive.ObjectIDFromHex(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	res, err := h.Courses.DeleteOne(c.Context(), bson.M{"_id": courseID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete course"})
	}
	if res.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	return c.JSON(fiber.Map{"message": "Course deleted successfully"})
}
