package models

// ContactSubmission is a stored contact form message
type ContactSubmission struct {
	Record  `bson:",inline"`
	Name    string `json:"name" gorm:"not null" bson:"name"`
	Email   string `json:"email" gorm:"not null" bson:"email"`
	Phone   string `json:"phone,omitempty" bson:"phone"`
	Message string `json:"message" gorm:"type:text;not null" bson:"message"`
}

func (ContactSubmission) TableName() string { return "contact_submissions" }
