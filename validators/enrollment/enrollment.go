package enrollmentValidator

import (
	"coursehub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// EnrollInCourse validates the enrollment request body
func EnrollInCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID      uint   `json:"courseId" validate:"required"`
			PaymentMethod string `json:"paymentMethod" validate:"required,oneof=free checkout admin-grant"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "CourseID":
					errors["courseId"] = "Course ID is required!"
				case "PaymentMethod":
					errors["paymentMethod"] = "Payment method must be one of: free, checkout, admin-grant!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}

// VerifyEnrollment validates the payment verification request body
func VerifyEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			SessionID string `json:"sessionId" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"sessionId": "Session ID is required!",
			})
		}

		c.Locals("validatedVerification", reqData)
		return c.Next()
	}
}

// UpdateProgress validates the lesson progress request body
func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID    uint `json:"courseId" validate:"required"`
			LessonIndex int  `json:"lessonIndex" validate:"required,gte=1"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "CourseID":
					errors["courseId"] = "Course ID is required!"
				case "LessonIndex":
					errors["lessonIndex"] = "Lesson index must be 1 or greater!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
