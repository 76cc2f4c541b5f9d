package courseRoutes

import (
	controllers "coursehub/controllers/course"
	"coursehub/middleware"
	validators "coursehub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog (public published courses)
	courseGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Reviews
	courseGroup.Get("/:id/reviews", validators.GetCourseDetail(), controllers.GetCourseReviews)
	courseGroup.Post("/:id/reviews", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.SubmitReview)
}
