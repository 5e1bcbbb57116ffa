package models

import "time"

// Photo is an evidence photo attributed to a student and, optionally, to one
// of the student's booklets. Both references are nullable: the restore engine
// nulls them when the referenced entity is absent from the snapshot.
type Photo struct {
	ID          string    `json:"id"`
	TeacherID   string    `json:"teacherId"`
	StudentID   *string   `json:"studentId"`
	BookletID   *string   `json:"bookletId"`
	Caption     string    `json:"caption"`
	ContentType string    `json:"contentType"`
	Data        []byte    `json:"data"`
	TakenAt     time.Time `json:"takenAt"`
}

// PendingPhoto is a captured photo not yet attributed to any student.
type PendingPhoto struct {
	ID          string    `json:"id"`
	TeacherID   string    `json:"teacherId"`
	ContentType string    `json:"contentType"`
	Data        []byte    `json:"data"`
	CapturedAt  time.Time `json:"capturedAt"`
}
