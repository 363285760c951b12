package model

import (
	"time"
)

// Certificate 结课证书，(user_id, course_id) 唯一，创建后不可变更
// swagger:model Certificate
type Certificate struct {
	BaseModel
	UserID            uint      `gorm:"index:idx_cert_user_course,unique;not null" json:"userId"`
	CourseID          uint      `gorm:"index:idx_cert_user_course,unique;not null" json:"courseId"`
	CertificateNumber string    `gorm:"size:100;unique;not null" json:"certificateNumber"`
	IssuedDate        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"issuedDate"`
	VerificationURL   string    `gorm:"size:255" json:"verificationUrl"`
	Grade             string    `gorm:"size:20;default:'Pass'" json:"grade"`
	CertificateURL    string    `gorm:"size:255" json:"certificateUrl"`
	User              *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course            *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Certificate) TableName() string {
	return "certificates"
}
