package models

import "gorm.io/datatypes"

type Company struct {
	BaseModel
	Name              string                       `gorm:"not null" json:"name"`
	Domain            string                       `json:"domain"`
	RecruiterContacts datatypes.JSONSlice[Contact] `json:"recruiterContacts"`
}
