package models

import (
	"strings"
	"time"
)

// Patient holds demographics and the vital signs captured at intake.
// Temperature and blood pressure are display strings ("37.2°C", "120/80").
type Patient struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:255" json:"name"`
	Age           int       `json:"age"`
	Gender        string    `gorm:"size:20" json:"gender"`
	Temperature   string    `gorm:"size:20" json:"temperature"`
	BloodPressure string    `gorm:"size:20" json:"bloodPressure"`
	PreConditions string    `gorm:"type:text" json:"preConditions"`
	Language      string    `gorm:"size:50;default:'English'" json:"language"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Conditions splits the comma-joined pre-existing conditions.
// "None" and blanks are dropped.
func (p *Patient) Conditions() []string {
	var out []string
	for _, c := range strings.Split(p.PreConditions, ",") {
		c = strings.TrimSpace(c)
		if c == "" || strings.EqualFold(c, "none") {
			continue
		}
		out = append(out, c)
	}
	return out
}

// VitalSigns is the snapshot stored with a consultation.
func (p *Patient) VitalSigns() map[string]interface{} {
	return map[string]interface{}{
		"temperature":    p.Temperature,
		"blood_pressure": p.BloodPressure,
	}
}
