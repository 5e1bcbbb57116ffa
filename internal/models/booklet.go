package models

import "time"

// Skill evaluation statuses as stored in a booklet.
const (
	SkillNotEvaluated = "not-evaluated"
	SkillInProgress   = "in-progress"
	SkillAcquired     = "acquired"
)

// SkillEvaluation is one observed skill inside a booklet. Evaluations are
// persisted as a single JSON column and restored verbatim.
type SkillEvaluation struct {
	SkillID     string     `json:"skillId"`
	Domain      string     `json:"domain"`
	Label       string     `json:"label"`
	Status      string     `json:"status"`
	Comment     string     `json:"comment,omitempty"`
	EvaluatedAt *time.Time `json:"evaluatedAt,omitempty"`
}

// Booklet is one student's skill-tracking carnet for a period.
type Booklet struct {
	ID        string            `json:"id"`
	TeacherID string            `json:"teacherId"`
	StudentID string            `json:"studentId"`
	Period    string            `json:"period"`
	Synthesis string            `json:"synthesis"`
	Skills    []SkillEvaluation `json:"skills"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
