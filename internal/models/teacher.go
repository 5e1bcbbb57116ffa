// Package models defines the data models shared by the durable (PostgreSQL)
// and local (SQLite) stores. JSON tags match the snapshot document format,
// which embeds each entity fully denormalized.
package models

import "time"

// Teacher is the tenant: every other entity carries its id, and no operation
// in the backup subsystem ever crosses two teachers.
type Teacher struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}
