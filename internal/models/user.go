package models

// UserModel is an account identified by email.
type UserModel struct {
	Base
	Email       string `json:"email"        gorm:"uniqueIndex;not null"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Password    string `json:"-"            gorm:"not null"`
	IsActive    bool   `json:"is_active"    gorm:"default:true"`
	IsStaff     bool   `json:"is_staff"     gorm:"default:false"`
	IsSuperuser bool   `json:"is_superuser" gorm:"default:false"`
}

func (UserModel) TableName() string { return "users" }

// FullName joins first and last name for display.
func (u UserModel) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
