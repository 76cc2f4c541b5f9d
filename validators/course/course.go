package courseValidator

import (
	"coursehub/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CourseList validates catalog listing query parameters
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page     int     `json:"page"`
			Limit    int     `json:"limit"`
			Category string  `json:"category"`
			Level    string  `json:"level"`
			Search   string  `json:"search"`
			MinPrice float64 `json:"minPrice"`
			MaxPrice float64 `json:"maxPrice"`
		})

		reqData.Page = c.QueryInt("page", 1)
		reqData.Limit = c.QueryInt("limit", 12)
		reqData.Category = strings.TrimSpace(c.Query("category"))
		reqData.Level = strings.TrimSpace(c.Query("level"))
		reqData.Search = strings.TrimSpace(c.Query("search"))
		reqData.MinPrice = c.QueryFloat("minPrice", 0)
		reqData.MaxPrice = c.QueryFloat("maxPrice", 0)

		if reqData.Page < 1 {
			reqData.Page = 1
		}
		if reqData.Limit < 1 || reqData.Limit > 100 {
			reqData.Limit = 12
		}

		errors := make(map[string]string)

		if reqData.Level != "" && reqData.Level != "Beginner" && reqData.Level != "Intermediate" && reqData.Level != "Advanced" {
			errors["level"] = "Level must be Beginner, Intermediate or Advanced!"
		}
		if reqData.MinPrice < 0 || reqData.MaxPrice < 0 {
			errors["price"] = "Price filters must not be negative!"
		}
		if reqData.MaxPrice > 0 && reqData.MinPrice > reqData.MaxPrice {
			errors["price"] = "minPrice must not exceed maxPrice!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

// GetCourseDetail validates the course id path parameter
func GetCourseDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		// Validate CourseID is a valid integer
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
