package models

import "gorm.io/gorm"

// Course represents a sellable course in the catalog
type Course struct {
	gorm.Model
	Title            string  `json:"title"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"description" gorm:"type:text"`
	Category         string  `json:"category" gorm:"index"`
	Level            string  `json:"level"` // Beginner, Intermediate, Advanced
	Price            float64 `json:"price" gorm:"not null"`
	OriginalPrice    float64 `json:"original_price" gorm:"default:0"` // for showing discounts
	Thumbnail        string  `json:"thumbnail"`
	Duration         string  `json:"duration"` // e.g. "4 hours", "2 weeks"
	InstructorName   string  `json:"instructor_name"`
	InstructorBio    string  `json:"instructor_bio" gorm:"type:text"`
	Rating           float64 `json:"rating" gorm:"default:0"`
	TotalRatings     int     `json:"total_ratings" gorm:"default:0"`
	StudentsEnrolled int     `json:"students_enrolled" gorm:"default:0"` // only incremented by completed enrollments
	IsActive         bool    `json:"is_active" gorm:"default:true"`
	IsFeatured       bool    `json:"is_featured" gorm:"default:false"`
	IsDeleted        bool    `gorm:"default:false"`

	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
}

// Lesson is a single unit of course content. OrderIndex is the value
// enrollments track in their completed-lesson set.
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	Duration    string `json:"duration"` // e.g. "15 mins"
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsDeleted   bool   `gorm:"default:false"`
}
