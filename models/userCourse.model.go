package models

import "gorm.io/gorm"

// UserCourse is the denormalized set of courses a user owns, kept in
// sync with enrollments whose payment completed. Rows are only ever
// added (set semantics via the unique index), never removed by the
// enrollment flow.
type UserCourse struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course_set"`
	CourseID uint `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course_set"`
}
