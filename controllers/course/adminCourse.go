package controllers

import (
	"coursehub/database"
	"coursehub/middleware"
	"coursehub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// AdminCreateCourse creates a new course with its lessons
func AdminCreateCourse(c *fiber.Ctx) error {
	// Check admin role
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title            string  `json:"title" validate:"required"`
		ShortDescription string  `json:"short_description" validate:"required"`
		Description      string  `json:"description"`
		Category         string  `json:"category" validate:"required"`
		Level            string  `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
		Price            float64 `json:"price" validate:"gte=0"`
		OriginalPrice    float64 `json:"original_price"`
		Thumbnail        string  `json:"thumbnail"`
		Duration         string  `json:"duration"`
		InstructorName   string  `json:"instructor_name"`
		InstructorBio    string  `json:"instructor_bio"`
		Lessons          []struct {
			Title       string `json:"title" validate:"required"`
			Description string `json:"description"`
			VideoURL    string `json:"video_url" validate:"required"`
			Duration    string `json:"duration"`
			OrderIndex  int    `json:"order_index" validate:"gte=1"`
		} `json:"lessons" validate:"required,min=1,dive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := models.Course{
		Title:            reqData.Title,
		ShortDescription: reqData.ShortDescription,
		Description:      reqData.Description,
		Category:         reqData.Category,
		Level:            reqData.Level,
		Price:            reqData.Price,
		OriginalPrice:    reqData.OriginalPrice,
		Thumbnail:        reqData.Thumbnail,
		Duration:         reqData.Duration,
		InstructorName:   reqData.InstructorName,
		InstructorBio:    reqData.InstructorBio,
		IsActive:         true,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}
	for _, l := range reqData.Lessons {
		lesson := models.Lesson{
			CourseID:    course.ID,
			Title:       l.Title,
			Description: l.Description,
			VideoURL:    l.VideoURL,
			Duration:    l.Duration,
			OrderIndex:  l.OrderIndex,
		}
		if err := tx.Create(&lesson).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course lessons!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates an existing course
func AdminUpdateCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title            string   `json:"title"`
		ShortDescription string   `json:"short_description"`
		Description      string   `json:"description"`
		Category         string   `json:"category"`
		Level            string   `json:"level"`
		Price            *float64 `json:"price"`
		Thumbnail        string   `json:"thumbnail"`
		Duration         string   `json:"duration"`
		InstructorName   string   `json:"instructor_name"`
		IsActive         *bool    `json:"is_active"`
		IsFeatured       *bool    `json:"is_featured"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields. Note: a price change affects future
	// enrollments only, existing enrollments keep their charged amount.
	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.ShortDescription != "" {
		course.ShortDescription = reqData.ShortDescription
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.Category != "" {
		course.Category = reqData.Category
	}
	if reqData.Level != "" {
		course.Level = reqData.Level
	}
	if reqData.Price != nil && *reqData.Price >= 0 {
		course.Price = *reqData.Price
	}
	if reqData.Thumbnail != "" {
		course.Thumbnail = reqData.Thumbnail
	}
	if reqData.Duration != "" {
		course.Duration = reqData.Duration
	}
	if reqData.InstructorName != "" {
		course.InstructorName = reqData.InstructorName
	}
	if reqData.IsActive != nil {
		course.IsActive = *reqData.IsActive
	}
	if reqData.IsFeatured != nil {
		course.IsFeatured = *reqData.IsFeatured
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminDeleteCourse soft deletes a course. Existing enrollments keep
// working; the course just leaves the catalog.
func AdminDeleteCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsDeleted = true
	course.IsActive = false
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminDashboard returns enrollment and revenue stats
func AdminDashboard(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	db := database.Database.Db
	monthStart := now.BeginningOfMonth()

	var totalCourses, totalEnrollments, pendingEnrollments, monthEnrollments int64
	db.Model(&models.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&models.Enrollment{}).Where("payment_status = ?", models.PaymentStatusCompleted).Count(&totalEnrollments)
	db.Model(&models.Enrollment{}).Where("payment_status = ?", models.PaymentStatusPending).Count(&pendingEnrollments)
	db.Model(&models.Enrollment{}).Where("payment_status = ? AND created_at >= ?", models.PaymentStatusCompleted, monthStart).Count(&monthEnrollments)

	var totalRevenue, monthRevenue float64
	db.Model(&models.Enrollment{}).Where("payment_status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue)
	db.Model(&models.Enrollment{}).Where("payment_status = ? AND created_at >= ?", models.PaymentStatusCompleted, monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&monthRevenue)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"totalCourses":       totalCourses,
		"totalEnrollments":   totalEnrollments,
		"pendingEnrollments": pendingEnrollments,
		"enrollmentsThisMonth": monthEnrollments,
		"totalRevenue":       totalRevenue,
		"revenueThisMonth":   monthRevenue,
	})
}
