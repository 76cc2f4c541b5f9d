package controllers

import (
	"coursehub/database"
	"coursehub/middleware"
	"coursehub/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmitReview allows an enrolled user to review a course
func SubmitReview(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData := new(struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Rating < 1 || reqData.Rating > 5 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rating must be between 1 and 5!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Only students who completed payment can review
	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND payment_status = ? AND is_active = ?",
		userId, courseID, models.PaymentStatusCompleted, true).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course to review it!", nil)
	}

	// Check if user has already reviewed this course
	var existingReview models.Review
	if err := db.Where("course_id = ? AND user_id = ? AND is_deleted = ?", courseID, userId, false).First(&existingReview).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
	}

	review := models.Review{
		CourseID: course.ID,
		UserID:   userId,
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
	}

	// Review row and rating aggregates move together
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		newTotal := course.TotalRatings + 1
		newRating := (course.Rating*float64(course.TotalRatings) + float64(reqData.Rating)) / float64(newTotal)
		return tx.Model(&models.Course{}).Where("id = ?", course.ID).
			Updates(map[string]interface{}{"rating": newRating, "total_ratings": newTotal}).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review submitted successfully!", review)
}

// GetCourseReviews returns reviews for a course (visible to all)
func GetCourseReviews(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var total int64
	db.Model(&models.Review{}).Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&total)

	var reviews []models.Review
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at desc").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", fiber.Map{
		"reviews": reviews,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
