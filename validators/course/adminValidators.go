package courseValidator

import (
	"coursehub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateCourse validates the admin course-creation payload
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Title":
					errors["title"] = "Title is required!"
				case "ShortDescription":
					errors["short_description"] = "Short description is required!"
				case "Category":
					errors["category"] = "Category is required!"
				case "Level":
					errors["level"] = "Level must be Beginner, Intermediate or Advanced!"
				case "Price":
					errors["price"] = "Price must not be negative!"
				case "Lessons":
					errors["lessons"] = "At least one lesson is required!"
				case "VideoURL":
					errors["lessons"] = "Each lesson needs a title and video URL!"
				case "OrderIndex":
					errors["lessons"] = "Lesson order index must be 1 or greater!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the admin course-update payload
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Level != "" && reqData.Level != "Beginner" && reqData.Level != "Intermediate" && reqData.Level != "Advanced" {
			errors["level"] = "Level must be Beginner, Intermediate or Advanced!"
		}
		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}
