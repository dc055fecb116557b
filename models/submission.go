package models

import "time"

type SubmissionStatus string

const (
	SubmissionNew      SubmissionStatus = "new"
	SubmissionReviewed SubmissionStatus = "reviewed"
	SubmissionClosed   SubmissionStatus = "closed"
)

// Contact is a message left through the contact form.
type Contact struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Name      string           `gorm:"not null" json:"name"`
	Email     string           `gorm:"not null" json:"email"`
	Phone     *string          `json:"phone"`
	Company   *string          `json:"company"`
	Message   string           `gorm:"not null" json:"message"`
	Status    SubmissionStatus `gorm:"type:VARCHAR(20);default:'new'" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// Quote is a bulk/export price request.
type Quote struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"not null" json:"name"`
	Email       string           `gorm:"not null" json:"email"`
	Phone       *string          `json:"phone"`
	Company     *string          `json:"company"`
	Product     string           `gorm:"not null" json:"product"`
	Quantity    string           `gorm:"not null" json:"quantity"`
	Destination string           `gorm:"not null" json:"destination"`
	Message     *string          `json:"message"`
	Status      SubmissionStatus `gorm:"type:VARCHAR(20);default:'new'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Career is a job application. Only the resume's file name is stored; the
// file itself travels as an email attachment.
type Career struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"not null" json:"name"`
	Email       string           `gorm:"not null" json:"email"`
	Phone       *string          `json:"phone"`
	Position    string           `gorm:"not null" json:"position"`
	Experience  string           `gorm:"not null" json:"experience"`
	Location    *string          `json:"location"`
	CoverLetter *string          `json:"cover_letter"`
	ResumeName  *string          `json:"resume_name"`
	Status      SubmissionStatus `gorm:"type:VARCHAR(20);default:'new'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}

// OptionalString maps "" to nil so blank optional form fields are stored as
// NULL.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
