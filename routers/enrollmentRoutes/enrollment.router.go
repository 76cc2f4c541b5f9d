package enrollmentRoutes

import (
	controllers "coursehub/controllers/enrollment"
	"coursehub/middleware"
	validators "coursehub/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up enrollment and progress routes.
// All routes require authentication.
func SetupEnrollmentRoutes(app *fiber.App) {
	enrollGroup := app.Group("/enrollment")

	enrollGroup.Post("/enroll", middleware.JWTMiddleware, validators.EnrollInCourse(), controllers.EnrollInCourse)
	enrollGroup.Post("/verify", middleware.JWTMiddleware, validators.VerifyEnrollment(), controllers.VerifyEnrollment)
	enrollGroup.Post("/progress", middleware.JWTMiddleware, validators.UpdateProgress(), controllers.UpdateProgress)
	enrollGroup.Get("/my-courses", middleware.JWTMiddleware, controllers.GetMyEnrollments)
}
