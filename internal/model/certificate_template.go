package model

// CertificateTemplate 证书外观配置。IsActive 标记全局默认模板；
// 针对单门课程的覆盖通过 TemplateCourse 上的 IsActive 实现。
// swagger:model CertificateTemplate
type CertificateTemplate struct {
	BaseModel
	Name           string           `gorm:"size:100;not null" json:"name"`
	Title          string           `gorm:"size:255" json:"title"`
	Subtitle       string           `gorm:"size:255" json:"subtitle"`
	FooterText     string           `gorm:"size:255" json:"footerText"`
	PrimaryColor   string           `gorm:"size:7" json:"primaryColor"`
	SecondaryColor string           `gorm:"size:7" json:"secondaryColor"`
	FontFamily     string           `gorm:"size:50;default:'Helvetica'" json:"fontFamily"`
	BackgroundURL  string           `gorm:"size:255" json:"backgroundUrl"`
	SignatureURL   string           `gorm:"size:255" json:"signatureUrl"`
	SignatureName  string           `gorm:"size:100" json:"signatureName"`
	IsActive       bool             `gorm:"default:false" json:"isActive"`
	Courses        []TemplateCourse `gorm:"foreignKey:TemplateID" json:"courses,omitempty"`
}

func (CertificateTemplate) TableName() string {
	return "certificate_templates"
}

// TemplateCourse 模板与课程的多对多关联，携带自身的 IsActive 作用域标记
// swagger:model TemplateCourse
type TemplateCourse struct {
	BaseModel
	TemplateID uint                 `gorm:"index:idx_template_course,unique;not null" json:"templateId"`
	CourseID   uint                 `gorm:"index:idx_template_course,unique;not null" json:"courseId"`
	IsActive   bool                 `gorm:"default:false" json:"isActive"`
	Template   *CertificateTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

func (TemplateCourse) TableName() string {
	return "template_courses"
}
