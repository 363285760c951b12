package model

type NotificationType string

const (
	NotifyCertificate  NotificationType = "certificate"
	NotifyEnrollment   NotificationType = "enrollment"
	NotifyCourseUpdate NotificationType = "course_update"
	NotifySystem       NotificationType = "system"
)

// swagger:model Notification
type Notification struct {
	BaseModel
	UserID  uint             `gorm:"index;not null" json:"userId"`
	Type    NotificationType `gorm:"size:20;default:'system'" json:"type"`
	Title   string           `gorm:"size:255;not null" json:"title"`
	Message string           `gorm:"type:text" json:"message"`
	Link    string           `gorm:"size:255" json:"link"`
	Read    bool             `gorm:"default:false" json:"read"`
}

func (Notification) TableName() string {
	return "notifications"
}
