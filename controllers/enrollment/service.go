package enrollmentController

import (
	"coursehub/models"
	"coursehub/utils"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment flow outcomes. Validation-class errors are terminal for
// the request; ErrGatewayUnavailable and ErrStorageUnavailable are
// transient and retriable by the caller.
var (
	ErrAlreadyEnrolled     = errors.New("user already enrolled in this course")
	ErrCourseNotFound      = errors.New("course not found or not active")
	ErrInvalidCourse       = errors.New("course has no lessons")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

// CheckoutGateway is the slice of the payment provider the enrollment
// flow needs. utils.CheckoutClient satisfies it in production.
type CheckoutGateway interface {
	CreateCheckoutSession(req utils.CheckoutSessionRequest) (*utils.CheckoutSession, error)
	GetCheckoutSession(sessionID string) (*utils.CheckoutSession, error)
}

// Gateway is the process-wide checkout client, assigned in main
var Gateway CheckoutGateway

// EnrollmentResult is the outcome of InitiateEnrollment. RedirectURL is
// set only when the caller still has to complete hosted checkout.
type EnrollmentResult struct {
	Enrollment  *models.Enrollment
	RedirectURL string
}

// InitiateEnrollment runs the enrollment state machine for one
// user/course pair. Free and admin-grant enrollments complete
// synchronously together with their aggregate updates; checkout
// enrollments are persisted PENDING after the session is created and
// only complete through VerifyEnrollment.
func InitiateEnrollment(db *gorm.DB, gateway CheckoutGateway, userID, courseID uint, paymentMethod string) (*EnrollmentResult, error) {
	// Fast-path duplicate check; the unique index on (user_id,
	// course_id) remains the authoritative guard against races.
	var existing models.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND is_active = ?", userID, courseID, true).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyEnrolled
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var course models.Course
	if err := db.Where("id = ? AND is_active = ? AND is_deleted = ?", courseID, true, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var totalLessons int64
	if err := db.Model(&models.Lesson{}).Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&totalLessons).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	// Progress percentage divides by the lesson count, so a course
	// without lessons cannot be enrolled in
	if totalLessons == 0 {
		return nil, ErrInvalidCourse
	}

	enrollment := models.Enrollment{
		UserID:           userID,
		CourseID:         courseID,
		TotalLessons:     int(totalLessons),
		CompletedLessons: datatypes.JSONSlice[int]{},
		Amount:           course.Price, // price snapshot, later changes don't affect this enrollment
		PaymentMethod:    paymentMethod,
		PaymentStatus:    models.PaymentStatusPending,
		IsActive:         true,
	}

	if paymentMethod == models.PaymentMethodCheckout {
		session, err := gateway.CreateCheckoutSession(utils.CheckoutSessionRequest{
			Amount:          course.Price,
			Currency:        "usd",
			Description:     course.Title,
			ImageURL:        course.Thumbnail,
			ClientReference: uuid.NewString(),
			Metadata: map[string]string{
				"userId":   fmt.Sprint(userID),
				"courseId": fmt.Sprint(courseID),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}

		// The pending enrollment is written only after the session
		// exists, so a gateway failure leaves nothing behind
		enrollment.TransactionID = session.ID
		if err := db.Create(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrAlreadyEnrolled
			}
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}

		return &EnrollmentResult{Enrollment: &enrollment, RedirectURL: session.URL}, nil
	}

	// Free and other direct-completion methods never pass through
	// PENDING; the record, course counter and user projection commit
	// together.
	enrollment.PaymentStatus = models.PaymentStatusCompleted
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}
		return applyCompletionSideEffects(tx, enrollment.UserID, enrollment.CourseID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &EnrollmentResult{Enrollment: &enrollment}, nil
}

// VerifyEnrollmentBySession transitions a pending checkout enrollment to
// COMPLETED once the gateway confirms payment. Idempotent: replays and
// duplicate callbacks find no pending row and return without touching
// the aggregates again. The returned bool reports whether this call
// performed the transition.
func VerifyEnrollmentBySession(db *gorm.DB, gateway CheckoutGateway, sessionID string) (*models.Enrollment, bool, error) {
	session, err := gateway.GetCheckoutSession(sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if !session.Paid() {
		return nil, false, ErrPaymentNotCompleted
	}

	var enrollment models.Enrollment
	completedNow := false
	err = db.Transaction(func(tx *gorm.DB) error {
		// The pending-only guard makes replays no-ops; aggregates are
		// keyed off this transition, not off the request
		res := tx.Model(&models.Enrollment{}).
			Where("transaction_id = ? AND payment_status = ?", sessionID, models.PaymentStatusPending).
			Update("payment_status", models.PaymentStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		completedNow = true

		if err := tx.Where("transaction_id = ?", sessionID).First(&enrollment).Error; err != nil {
			return err
		}
		return applyCompletionSideEffects(tx, enrollment.UserID, enrollment.CourseID)
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !completedNow {
		return nil, false, nil
	}

	return &enrollment, true, nil
}

// applyCompletionSideEffects updates the course student counter and the
// user's enrolled-course projection for a completion event. Both
// updates are idempotent-by-guard at the call sites: they run at most
// once per PENDING -> COMPLETED transition.
func applyCompletionSideEffects(tx *gorm.DB, userID, courseID uint) error {
	if err := tx.Model(&models.Course{}).Where("id = ?", courseID).
		UpdateColumn("students_enrolled", gorm.Expr("students_enrolled + ?", 1)).Error; err != nil {
		return err
	}

	projection := models.UserCourse{UserID: userID, CourseID: courseID}
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).FirstOrCreate(&projection).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent writer already added the row, set semantics hold
		return nil
	}
	return err
}

// RecordLessonAccess marks a lesson as completed (set semantics) and
// always moves the resume pointer, so replaying a lesson never inflates
// progress but still updates where the student left off.
func RecordLessonAccess(db *gorm.DB, userID, courseID uint, lessonIndex int) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_active = ?", userID, courseID, true).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	alreadyCompleted := false
	for _, lesson := range enrollment.CompletedLessons {
		if lesson == lessonIndex {
			alreadyCompleted = true
			break
		}
	}
	if !alreadyCompleted {
		enrollment.CompletedLessons = append(enrollment.CompletedLessons, lessonIndex)
		enrollment.ProgressPercentage = float64(len(enrollment.CompletedLessons)) / float64(enrollment.TotalLessons) * 100
	}
	enrollment.LastAccessedLesson = lessonIndex

	if err := db.Model(&enrollment).Updates(map[string]interface{}{
		"completed_lessons":    enrollment.CompletedLessons,
		"progress_percentage":  enrollment.ProgressPercentage,
		"last_accessed_lesson": enrollment.LastAccessedLesson,
	}).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &enrollment, nil
}

// ListCompletedEnrollments returns the user's enrollments whose payment
// completed, joined with course data. Pending and failed enrollments
// are never part of "my courses".
func ListCompletedEnrollments(db *gorm.DB, userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := db.Where("user_id = ? AND payment_status = ? AND is_active = ?", userID, models.PaymentStatusCompleted, true).
		Preload("Course").
		Order("created_at desc").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return enrollments, nil
}
