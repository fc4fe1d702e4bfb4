package models

// Specialist is a referral target.
type Specialist struct {
	NumericModel
	Name         string `gorm:"size:255;not null" json:"name"`
	Category     string `gorm:"index;size:100;not null" json:"category"`
	Hospital     string `gorm:"size:255" json:"hospital"`
	Contact      string `gorm:"size:100" json:"contact"`
	Availability string `gorm:"size:255" json:"availability"`
}
