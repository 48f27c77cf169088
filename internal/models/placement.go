package models

type PlacementRecord struct {
	BaseModel
	StudentID     string        `gorm:"type:uuid;not null;uniqueIndex:idx_placement_key" json:"studentId"`
	DriveID       string        `gorm:"type:uuid;not null;uniqueIndex:idx_placement_key" json:"driveId"`
	CollegeID     string        `gorm:"type:uuid;not null;uniqueIndex:idx_placement_key;index" json:"collegeId"`
	OfferAccepted bool          `gorm:"not null;default:false" json:"offerAccepted"`
	JoiningStatus JoiningStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"joiningStatus"`

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Drive   *Drive   `gorm:"foreignKey:DriveID" json:"drive,omitempty"`
}
