package models

import (
	"fmt"

	"gorm.io/gorm"
)

var seedPatients = []Patient{
	{ID: "P001", Name: "Ahmed Khan", Age: 45, Gender: "Male", Temperature: "37.2°C", BloodPressure: "130/85", PreConditions: "Hypertension", Language: "Urdu"},
	{ID: "P002", Name: "Fatima Ali", Age: 32, Gender: "Female", Temperature: "36.8°C", BloodPressure: "120/80", PreConditions: "None", Language: "English"},
	{ID: "P003", Name: "Imran Shah", Age: 28, Gender: "Male", Temperature: "37.5°C", BloodPressure: "118/76", PreConditions: "Asthma", Language: "Urdu"},
	{ID: "P004", Name: "Ayesha Ahmed", Age: 56, Gender: "Female", Temperature: "37.0°C", BloodPressure: "140/90", PreConditions: "Diabetes, Hypertension", Language: "Punjabi"},
	{ID: "P005", Name: "Zainab Malik", Age: 22, Gender: "Female", Temperature: "36.7°C", BloodPressure: "110/70", PreConditions: "None", Language: "Sindhi"},
}

var seedSpecialists = []Specialist{
	{Name: "Dr. Ahmed Khan", Category: "Cardiology", Hospital: "Aga Khan University Hospital", Contact: "+92-21-111-911-911", Availability: "Mon, Wed, Fri: 9AM-1PM"},
	{Name: "Dr. Saima Zubair", Category: "Cardiology", Hospital: "National Institute of Cardiovascular Diseases", Contact: "+92-21-9920-1271", Availability: "Tue, Thu: 10AM-2PM"},
	{Name: "Dr. Farhan Ali", Category: "Neurology", Hospital: "Liaquat National Hospital", Contact: "+92-21-3412-7600", Availability: "Mon, Wed: 5PM-8PM"},
	{Name: "Dr. Nadia Memon", Category: "Neurology", Hospital: "Shifa International Hospital", Contact: "+92-51-8464-646", Availability: "Mon-Fri: 9AM-12PM"},
	{Name: "Dr. Adeel Iqbal", Category: "Orthopedics", Hospital: "South City Hospital", Contact: "+92-21-3520-0935", Availability: "Tue, Thu, Sat: 6PM-9PM"},
	{Name: "Dr. Zainab Raza", Category: "Orthopedics", Hospital: "Indus Hospital", Contact: "+92-21-3511-2709", Availability: "Mon, Wed, Fri: 2PM-5PM"},
	{Name: "Dr. Sadia Aslam", Category: "Dermatology", Hospital: "Patel Hospital", Contact: "+92-21-3453-0941", Availability: "Tue, Thu: 3PM-6PM"},
	{Name: "Dr. Kamal Hassan", Category: "Dermatology", Hospital: "Dr. Ziauddin Hospital", Contact: "+92-21-3538-3892", Availability: "Mon, Wed, Fri: 4PM-7PM"},
	{Name: "Dr. Faisal Mahmood", Category: "Psychiatry", Hospital: "Institute of Behavioral Sciences", Contact: "+92-42-3578-5643", Availability: "Mon-Fri: 10AM-1PM"},
	{Name: "Dr. Ayesha Malik", Category: "Psychiatry", Hospital: "Karachi Psychiatric Hospital", Contact: "+92-21-3661-1290", Availability: "Tue, Thu, Sat: 11AM-3PM"},
	{Name: "Dr. Sohail Ahmed", Category: "Ophthalmology", Hospital: "Al-Shifa Trust Eye Hospital", Contact: "+92-51-5487-820", Availability: "Mon, Wed, Fri: 9AM-12PM"},
	{Name: "Dr. Rabia Zuberi", Category: "Ophthalmology", Hospital: "LRBT Free Eye Hospital", Contact: "+92-21-3666-1056", Availability: "Tue, Thu: 2PM-5PM"},
	{Name: "Dr. Taimur Shah", Category: "ENT", Hospital: "National ENT Center", Contact: "+92-51-2876-534", Availability: "Mon-Fri: 5PM-8PM"},
	{Name: "Dr. Hina Qureshi", Category: "ENT", Hospital: "Liaquat National Hospital", Contact: "+92-21-3412-7600", Availability: "Sat-Sun: 10AM-2PM"},
	{Name: "Dr. Bilal Javed", Category: "Pulmonology", Hospital: "Ojha Institute of Chest Diseases", Contact: "+92-21-9920-4776", Availability: "Mon, Wed, Fri: 10AM-1PM"},
	{Name: "Dr. Sana Khan", Category: "Pulmonology", Hospital: "National Institute of Diseases of Chest", Contact: "+92-42-9921-3471", Availability: "Tue, Thu: 3PM-6PM"},
	{Name: "Dr. Sameera Abid", Category: "Gynecology", Hospital: "Lady Dufferin Hospital", Contact: "+92-21-3276-1355", Availability: "Mon-Fri: 9AM-1PM"},
	{Name: "Dr. Humera Syed", Category: "Gynecology", Hospital: "Civil Hospital", Contact: "+92-21-9921-5960", Availability: "Mon, Wed, Fri: 2PM-5PM"},
	{Name: "Dr. Amjad Ali", Category: "Pediatrics", Hospital: "National Institute of Child Health", Contact: "+92-21-9920-4932", Availability: "Mon-Fri: 8AM-12PM"},
	{Name: "Dr. Fatima Jaffar", Category: "Pediatrics", Hospital: "Children's Hospital", Contact: "+92-42-9923-0402", Availability: "Tue, Thu, Sat: 10AM-2PM"},
}

// Seed inserts the default admin doctor, sample patients and the specialist
// directory. Each table is only filled when it is empty.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Doctor{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count doctors: %w", err)
		}
		if count == 0 {
			admin := Doctor{
				Username:       "admin",
				Name:           "Admin Doctor",
				Email:          "admin@example.com",
				Specialization: "General Practice",
				Role:           RoleAdmin,
			}
			if err := admin.SetPassword("admin"); err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			if err := tx.Create(&admin).Error; err != nil {
				return fmt.Errorf("seed admin doctor: %w", err)
			}
		}

		if err := tx.Model(&Patient{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count patients: %w", err)
		}
		if count == 0 {
			patients := make([]Patient, len(seedPatients))
			copy(patients, seedPatients)
			if err := tx.Create(&patients).Error; err != nil {
				return fmt.Errorf("seed patients: %w", err)
			}
		}

		if err := tx.Model(&Specialist{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count specialists: %w", err)
		}
		if count == 0 {
			specialists := make([]Specialist, len(seedSpecialists))
			copy(specialists, seedSpecialists)
			if err := tx.Create(&specialists).Error; err != nil {
				return fmt.Errorf("seed specialists: %w", err)
			}
		}
		return nil
	})
}
