package models

// AdminUser is a back-office operator
type AdminUser struct {
	Record       `bson:",inline"`
	Email        string `json:"email" gorm:"uniqueIndex;size:191;not null" bson:"email"`
	Name         string `json:"name" bson:"name"`
	PasswordHash string `json:"-" gorm:"not null" bson:"password_hash"` // Never serialize
}

func (AdminUser) TableName() string { return "admin_users" }
