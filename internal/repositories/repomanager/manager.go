// Package repomanager vends repository implementations bound to a DBTX and
// exposes the schema migration hook for each store dialect. The backup engine
// is written against this interface, so the durable (PostgreSQL) and local
// (SQLite) variants share one code path.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mbriard/carnets/internal/dbx"
	"github.com/mbriard/carnets/internal/repositories/archive"
	"github.com/mbriard/carnets/internal/repositories/booklets"
	"github.com/mbriard/carnets/internal/repositories/pendingphotos"
	"github.com/mbriard/carnets/internal/repositories/photos"
	"github.com/mbriard/carnets/internal/repositories/students"
	"github.com/mbriard/carnets/internal/repositories/teachers"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Teachers(db dbx.DBTX) teachers.Repository
	Students(db dbx.DBTX) students.Repository
	Booklets(db dbx.DBTX) booklets.Repository
	Photos(db dbx.DBTX) photos.Repository
	PendingPhotos(db dbx.DBTX) pendingphotos.Repository
	Archive(db dbx.DBTX) archive.Repository
}
