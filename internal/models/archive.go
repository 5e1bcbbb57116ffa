package models

import "time"

// ArchiveEntry is the catalog record describing where one snapshot's bytes
// live, without containing them. Entries are immutable after creation.
type ArchiveEntry struct {
	ID            string    `json:"id"`
	TeacherID     string    `json:"teacherId"`
	BlobKey       string    `json:"-"`
	SizeBytes     int64     `json:"sizeBytes"`
	FormatVersion string    `json:"formatVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ArchiveStats aggregates a teacher's archive for caller-visible reporting.
type ArchiveStats struct {
	Count      int        `json:"count"`
	TotalBytes int64      `json:"totalBytes"`
	NewestAt   *time.Time `json:"newestAt,omitempty"`
}
