package models

import "gorm.io/datatypes"

type College struct {
	BaseModel
	Name        string                       `gorm:"not null" json:"name"`
	Location    string                       `json:"location"`
	Departments StringList                   `json:"departments"`
	TPOContacts datatypes.JSONSlice[Contact] `json:"tpoContacts"`
}
