package models

type Student struct {
	BaseModel
	UserID     string  `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Name       string  `gorm:"not null" json:"name"`
	CollegeID  string  `gorm:"type:uuid;not null;index" json:"collegeId"`
	Branch     string  `gorm:"not null;index" json:"branch"`
	Batch      string  `gorm:"not null;index" json:"batch"`
	CGPA       float64 `gorm:"not null" json:"cgpa"`
	ResumeLink string  `json:"resumeLink"`
	IsVerified bool    `gorm:"not null;default:false;index" json:"isVerified"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	College *College `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
}

// HasResume - резюме обязательно для подачи заявки
func (s *Student) HasResume() bool {
	return s.ResumeLink != ""
}
