package model

type CourseLevel string

const (
	Beginner     CourseLevel = "beginner"
	Intermediate CourseLevel = "intermediate"
	Advanced     CourseLevel = "advanced"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	CategoryID   uint        `gorm:"index" json:"categoryId"`
	InstructorID uint        `gorm:"index" json:"instructorId"`
	Level        CourseLevel `gorm:"size:20;default:'beginner'" json:"level"`
	Thumbnail    string      `gorm:"size:255" json:"thumbnail"`
	Duration     int         `gorm:"default:0" json:"duration"` // 预计学时（分钟）
	Price        float64     `gorm:"default:0" json:"price"`
	Published    bool        `gorm:"default:false" json:"published"`
	Topics       []Topic     `gorm:"foreignKey:CourseID" json:"topics,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Topic
type Topic struct {
	BaseModel
	CourseID      uint    `gorm:"index;not null" json:"courseId"`
	Title         string  `gorm:"size:255;not null" json:"title"`
	Description   string  `gorm:"type:text" json:"description"`
	Content       string  `gorm:"type:longtext" json:"content"`
	VideoURL      string  `gorm:"size:255" json:"videoUrl"`
	VideoDuration float64 `gorm:"default:0" json:"videoDuration"` // 视频时长（秒）
	Order         int     `gorm:"default:0" json:"order"`
	Quizzes       []Quiz  `gorm:"foreignKey:TopicID" json:"quizzes,omitempty"`
}

func (Topic) TableName() string {
	return "topics"
}
