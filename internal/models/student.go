package models

import "time"

type Student struct {
	ID        string    `json:"id"`
	TeacherID string    `json:"teacherId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	BirthDate string    `json:"birthDate"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
