package model

// Category 课程分类
// swagger:model Category
type Category struct {
	BaseModel
	Name        string   `gorm:"size:100;unique;not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Icon        string   `gorm:"size:255" json:"icon"`
	Order       int      `gorm:"default:0" json:"order"`
	Courses     []Course `gorm:"foreignKey:CategoryID" json:"courses,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}
