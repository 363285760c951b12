package model

import (
	"time"
)

type EnrollmentStatus string

const (
	Enrolled   EnrollmentStatus = "enrolled"
	InProgress EnrollmentStatus = "in-progress"
	Completed  EnrollmentStatus = "completed"
	Dropped    EnrollmentStatus = "dropped"
)

// Enrollment 一个学生对一门课程的报名记录，(user_id, course_id) 唯一
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID             uint             `gorm:"index:idx_user_course,unique;not null" json:"userId"`
	CourseID           uint             `gorm:"index:idx_user_course,unique;not null" json:"courseId"`
	Status             EnrollmentStatus `gorm:"size:20;default:'enrolled'" json:"status"`
	ProgressPercentage float64          `gorm:"default:0" json:"progressPercentage"`
	EnrolledAt         time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"enrolledAt"`
	CompletedAt        *time.Time       `json:"completedAt"`
	Course             *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	User               *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// Progress 单个学生对单个知识点的完成状态，(user_id, course_id, topic_id) 唯一
// swagger:model Progress
type Progress struct {
	BaseModel
	UserID      uint       `gorm:"index:idx_user_course_topic,unique;not null" json:"userId"`
	CourseID    uint       `gorm:"index:idx_user_course_topic,unique;not null" json:"courseId"`
	TopicID     uint       `gorm:"index:idx_user_course_topic,unique;not null" json:"topicId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	TimeSpent   int        `gorm:"default:0" json:"timeSpent"` // 学习时长（秒）
}

func (Progress) TableName() string {
	return "progresses"
}
