package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentStatus defines the payment lifecycle of an enrollment.
// Transitions only move forward: PENDING -> COMPLETED or PENDING -> FAILED.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment methods accepted at enrollment time. Free and admin-grant
// enrollments complete synchronously; checkout goes through the hosted
// payment provider and completes on verification.
const (
	PaymentMethodFree       = "free"
	PaymentMethodCheckout   = "checkout"
	PaymentMethodAdminGrant = "admin-grant"
)

// Enrollment links a user to a course they joined, including payment
// and progress state. The composite unique index is the authoritative
// guard against duplicate enrollments for the same pair.
type Enrollment struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID uint `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`

	// Progress; TotalLessons is snapshotted at enrollment time
	TotalLessons       int                      `json:"total_lessons" gorm:"not null"`
	CompletedLessons   datatypes.JSONSlice[int] `json:"completed_lessons"`
	ProgressPercentage float64                  `json:"progress_percentage" gorm:"default:0"`
	LastAccessedLesson int                      `json:"last_accessed_lesson" gorm:"default:0"`

	// Payment; Amount is the course price at enrollment time, later
	// price changes never alter it
	Amount        float64       `json:"amount" gorm:"not null"`
	PaymentMethod string        `json:"payment_method" gorm:"type:varchar(50);not null"`
	TransactionID string        `json:"transaction_id" gorm:"type:varchar(100);index"` // checkout session id from the gateway
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'PENDING'"`

	CertificateIssued bool   `json:"certificate_issued" gorm:"default:false"`
	CertificateURL    string `json:"certificate_url"`
	IsActive          bool   `json:"is_active" gorm:"default:true"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
