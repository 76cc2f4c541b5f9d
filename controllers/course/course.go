package controllers

import (
	"coursehub/database"
	"coursehub/middleware"
	"coursehub/models"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists active courses with optional filters and pagination
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseList").(*struct {
		Page     int     `json:"page"`
		Limit    int     `json:"limit"`
		Category string  `json:"category"`
		Level    string  `json:"level"`
		Search   string  `json:"search"`
		MinPrice float64 `json:"minPrice"`
		MaxPrice float64 `json:"maxPrice"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
	}

	offset := (reqData.Page - 1) * reqData.Limit

	db := database.Database.Db.Model(&models.Course{}).Where("is_active = ? AND is_deleted = ?", true, false)

	if reqData.Category != "" {
		db = db.Where("category = ?", reqData.Category)
	}
	if reqData.Level != "" {
		db = db.Where("level = ?", reqData.Level)
	}
	if reqData.Search != "" {
		db = db.Where("title ILIKE ?", "%"+reqData.Search+"%")
	}
	if reqData.MinPrice > 0 {
		db = db.Where("price >= ?", reqData.MinPrice)
	}
	if reqData.MaxPrice > 0 {
		db = db.Where("price <= ?", reqData.MaxPrice)
	}

	var total int64
	db.Count(&total)

	var courses []models.Course
	if err := db.Order("is_featured desc, created_at desc").Offset(offset).Limit(reqData.Limit).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

// GetCourseDetails returns one course with its lessons and review stats
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_active = ? AND is_deleted = ?", courseID, true, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessons []models.Lesson
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&lessons)

	// Check if user already owns this course (completed payment only)
	var enrollment models.Enrollment
	isEnrolled := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND payment_status = ? AND is_active = ?", userID, courseID, models.PaymentStatusCompleted, true).
		First(&enrollment).Error == nil

	// Lesson video URLs stay hidden until the user owns the course
	if !isEnrolled {
		for i := range lessons {
			lessons[i].VideoURL = ""
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":      course,
		"lessons":     lessons,
		"is_enrolled": isEnrolled,
	})
}
