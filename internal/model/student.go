package model

import (
	"time"
)

// Student is a portal account. PublicID is the 5-digit identifier students
// hand to each other for friend requests and file sharing; it stays NULL
// until the email is verified, and the unique index is the authoritative
// guard against two accounts committing the same id.
//
// swagger:model Student
type Student struct {
	BaseModel
	Name        string     `gorm:"size:255;not null" json:"name"`
	Email       string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	Phone       string     `gorm:"size:20" json:"phone,omitempty"`
	Address     string     `gorm:"size:500" json:"address,omitempty"`
	DateOfBirth *time.Time `gorm:"type:date" json:"dateOfBirth,omitempty"`
	PublicID    *int       `gorm:"uniqueIndex" json:"publicId,omitempty"`
	OTP         string     `gorm:"size:6" json:"-"`
	OTPExpiry   *time.Time `json:"-"`
	IsVerified  bool       `gorm:"default:false" json:"isVerified"`
}

func (Student) TableName() string {
	return "students"
}

// Summary is the shape returned to other students: no email, no contact
// details, nothing beyond what the friend list and shared-file views show.
func (s *Student) Summary() StudentSummary {
	summary := StudentSummary{
		ID:   s.ID,
		Name: s.Name,
	}
	if s.PublicID != nil {
		summary.PublicID = *s.PublicID
	}
	return summary
}

// swagger:model StudentSummary
type StudentSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	PublicID int    `json:"publicId"`
}
