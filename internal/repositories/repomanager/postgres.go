package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mbriard/carnets/internal/dbx"
	"github.com/mbriard/carnets/internal/repositories/archive"
	"github.com/mbriard/carnets/internal/repositories/booklets"
	"github.com/mbriard/carnets/internal/repositories/pendingphotos"
	"github.com/mbriard/carnets/internal/repositories/photos"
	"github.com/mbriard/carnets/internal/repositories/students"
	"github.com/mbriard/carnets/internal/repositories/teachers"
	"github.com/mbriard/carnets/internal/server/migrations"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Teachers(db dbx.DBTX) teachers.Repository {
	return teachers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Students(db dbx.DBTX) students.Repository {
	return students.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Booklets(db dbx.DBTX) booklets.Repository {
	return booklets.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Photos(db dbx.DBTX) photos.Repository {
	return photos.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) PendingPhotos(db dbx.DBTX) pendingphotos.Repository {
	return pendingphotos.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Archive(db dbx.DBTX) archive.Repository {
	return archive.NewPostgresRepository(db)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
