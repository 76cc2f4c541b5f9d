package enrollmentController

import (
	"coursehub/database"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/utils"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse starts an enrollment. Free and direct-completion
// methods return the completed enrollment; checkout returns a redirect
// URL for the hosted payment page.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollment").(*struct {
		CourseID      uint   `json:"courseId" validate:"required"`
		PaymentMethod string `json:"paymentMethod" validate:"required,oneof=free checkout admin-grant"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := InitiateEnrollment(database.Database.Db, Gateway, userID, reqData.CourseID, reqData.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		case errors.Is(err, ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
		case errors.Is(err, ErrInvalidCourse):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course has no lessons yet!", nil)
		case errors.Is(err, ErrGatewayUnavailable):
			log.Printf("Checkout session creation failed for user %d course %d: %v", userID, reqData.CourseID, err)
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Payment gateway unavailable, please retry!", nil)
		default:
			log.Printf("Enrollment failed for user %d course %d: %v", userID, reqData.CourseID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}
	}

	if result.RedirectURL != "" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created!", fiber.Map{
			"sessionUrl": result.RedirectURL,
			"sessionId":  result.Enrollment.TransactionID,
		})
	}

	sendConfirmation(user, result.Enrollment.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", result.Enrollment)
}

// VerifyEnrollment completes a pending checkout enrollment once the
// gateway confirms payment. Safe to call repeatedly for the same
// session.
func VerifyEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedVerification").(*struct {
		SessionID string `json:"sessionId" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, completedNow, err := VerifyEnrollmentBySession(database.Database.Db, Gateway, reqData.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotCompleted):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment not completed!", nil)
		case errors.Is(err, ErrGatewayUnavailable):
			log.Printf("Gateway lookup failed for session %s: %v", reqData.SessionID, err)
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Payment gateway unavailable, please retry!", nil)
		default:
			log.Printf("Verification failed for session %s: %v", reqData.SessionID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify enrollment!", nil)
		}
	}

	if completedNow {
		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err == nil {
			sendConfirmation(user, enrollment.CourseID)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified and enrollment completed!", nil)
}

// UpdateProgress records that a lesson was accessed and, if new, marks
// it completed.
func UpdateProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProgress").(*struct {
		CourseID    uint `json:"courseId" validate:"required"`
		LessonIndex int  `json:"lessonIndex" validate:"required,gte=1"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := RecordLessonAccess(database.Database.Db, userID, reqData.CourseID, reqData.LessonIndex)
	if err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		}
		log.Printf("Progress update failed for user %d course %d: %v", userID, reqData.CourseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", fiber.Map{
		"totalLessons":       enrollment.TotalLessons,
		"completedLessons":   enrollment.CompletedLessons,
		"progressPercentage": enrollment.ProgressPercentage,
		"lastAccessedLesson": enrollment.LastAccessedLesson,
	})
}

// GetMyEnrollments lists the user's completed enrollments with course data
func GetMyEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	enrollments, err := ListCompletedEnrollments(database.Database.Db, userID)
	if err != nil {
		log.Printf("Failed to fetch enrollments for user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}

func sendConfirmation(user models.User, courseID uint) {
	var course models.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return
	}
	go func() {
		if err := utils.SendEnrollmentConfirmation(user.Email, user.Name, course.Title); err != nil {
			log.Printf("Failed to send enrollment confirmation to %s: %v", user.Email, err)
		}
	}()
}
