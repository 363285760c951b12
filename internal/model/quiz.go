package model

import (
	"time"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	TopicID      uint           `gorm:"index;not null" json:"topicId"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	PassingScore int            `gorm:"default:60" json:"passingScore"` // 百分制及格线
	Questions    []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID   uint     `gorm:"index;not null" json:"quizId"`
	Question string   `gorm:"type:text;not null" json:"question"`
	Options  []string `gorm:"type:json;serializer:json" json:"options"`
	Answer   int      `gorm:"not null" json:"-"` // 正确选项下标，不下发给学生
	Order    int      `gorm:"default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizAttempt 存储学生的测验提交结果
type QuizAttempt struct {
	BaseModel
	UserID      uint         `gorm:"index" json:"userId"`
	QuizID      uint         `gorm:"index" json:"quizId"`
	Score       int          `gorm:"not null" json:"score"`
	Total       int          `gorm:"not null" json:"total"`
	Answers     map[uint]int `gorm:"type:json;serializer:json" json:"answers"`
	Passed      bool         `gorm:"default:false" json:"passed"`
	CompletedAt time.Time    `json:"completedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
