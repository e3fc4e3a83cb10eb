package models

// ContactMessageModel is an inbound contact-form submission. Messages are
// immutable after creation apart from the read flag.
type ContactMessageModel struct {
	Base
	Name    string `json:"name"    gorm:"not null"`
	Email   string `json:"email"   gorm:"not null"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message" gorm:"type:longtext;not null"`
	IsRead  bool   `json:"is_read" gorm:"default:false;index"`
}

func (ContactMessageModel) TableName() string { return "contact_messages" }
