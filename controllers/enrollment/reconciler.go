package enrollmentController

import (
	"coursehub/database"
	"coursehub/models"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeReconcileScheduler sets up the pending-payment repair job.
// Students sometimes pay and never return to the success redirect; this
// job re-runs the idempotent verification for stale pending
// enrollments, so a confirmed payment eventually completes even without
// the client callback.
func InitializeReconcileScheduler() {
	log.Println("[RECONCILER] Initializing pending-payment reconciler...")

	c := cron.New()

	// Run hourly
	c.AddFunc("0 * * * *", func() {
		ReconcilePendingEnrollments()
	})

	c.Start()
	log.Println("[RECONCILER] Pending-payment reconciler started - runs hourly")
}

// ReconcilePendingEnrollments re-verifies checkout enrollments that
// stayed PENDING for over an hour. Replays are safe: completion is
// keyed off the pending -> completed transition, never off this job.
func ReconcilePendingEnrollments() {
	db := database.Database.Db
	cutoff := time.Now().Add(-1 * time.Hour)

	var pending []models.Enrollment
	if err := db.
		Where("payment_status = ? AND payment_method = ? AND transaction_id <> ''", models.PaymentStatusPending, models.PaymentMethodCheckout).
		Where("created_at < ?", cutoff).
		Limit(100).
		Find(&pending).Error; err != nil {
		log.Printf("[RECONCILER] Error fetching pending enrollments: %v", err)
		return
	}

	if len(pending) == 0 {
		return
	}
	log.Printf("[RECONCILER] Found %d stale pending enrollments", len(pending))

	for _, enrollment := range pending {
		_, completedNow, err := VerifyEnrollmentBySession(db, Gateway, enrollment.TransactionID)
		if err != nil {
			if errors.Is(err, ErrPaymentNotCompleted) {
				continue // still unpaid, leave it pending
			}
			log.Printf("[RECONCILER] Error verifying session %s: %v", enrollment.TransactionID, err)
			continue
		}
		if completedNow {
			log.Printf("[RECONCILER] Completed enrollment %d from session %s", enrollment.ID, enrollment.TransactionID)
		}
	}
}
