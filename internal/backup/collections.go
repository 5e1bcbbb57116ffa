package backup

import (
	"context"
	"sort"

	"github.com/mbriard/carnets/internal/dbx"
	"github.com/mbriard/carnets/internal/repositories/repomanager"
	"github.com/mbriard/carnets/internal/snapshot"
)

// collectionSpec declares one entity collection and its dependency rank.
// The wipe phase consumes the list rank-descending (children before parents),
// the re-insert phase rank-ascending, so the ordering lives in exactly one
// place.
type collectionSpec struct {
	name string
	rank int

	wipe   func(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, teacherID string) (int64, error)
	insert func(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, doc *snapshot.Document, teacherID string) (int, error)

	// count selects the report field this collection writes its size into.
	count func(r *Report) *int
}

func collectionOrder() []collectionSpec {
	specs := []collectionSpec{
		{
			name: "students",
			rank: 0,
			wipe: func(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, teacherID string) (int64, error) {
				return m.Students(tx).DeleteByTeacher(ctx, teacherID)
			},
			insert: func(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, doc *snapshot.Document, teacherID string) (int, error) {
				repo := m.Students(tx)
				for i := range doc.Collections.Students {
					s := doc.Collections.Students[i]
					s.TeacherID = teacherID
					if err := repo.Create(ctx, &s); err != nil {
						return 0, err
					}
				}
				return len(doc.Collections.Students), nil
			},
			count: func(r *Report) *int { return &r.Students },
		},
		{
			name: "booklets",
			rank: 1,
			wipe: func(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, teacherID string) (int64, error) {
				return m.Booklets(tx).DeleteByTeacher(ctx, teacherID)
			},
			insert: func(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, doc *snapshot.Document, teacherID string) (int, error) {
				repo := m.Booklets(tx)
				for i := range doc.Collections.Booklets {
					b := doc.Collections.Booklets[i]
					b.TeacherID = teacherID
					if err := repo.Create(ctx, &b); err != nil {
						return 0, err
					}
				}
				return len(doc.Collections.Booklets), nil
			},
			count: func(r *Report) *int { return &r.Booklets },
		},
		{
			name: "photos",
			rank: 2,
			wipe: func(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, teacherID string) (int64, error) {
				return m.Photos(tx).DeleteByTeacher(ctx, teacherID)
			},
			insert: func(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, doc *snapshot.Document, teacherID string) (int, error) {
				repo := m.Photos(tx)
				for i := range doc.Collections.Photos {
					p := doc.Collections.Photos[i]
					p.TeacherID = teacherID
					if err := repo.Create(ctx, &p); err != nil {
						return 0, err
					}
				}
				return len(doc.Collections.Photos), nil
			},
			count: func(r *Report) *int { return &r.Photos },
		},
		{
			name: "pendingPhotos",
			rank: 3,
			wipe: func(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, teacherID string) (int64, error) {
				return m.PendingPhotos(tx).DeleteByTeacher(ctx, teacherID)
			},
			insert: func(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, doc *snapshot.Document, teacherID string) (int, error) {
				repo := m.PendingPhotos(tx)
				for i := range doc.Collections.PendingPhotos {
					p := doc.Collections.PendingPhotos[i]
					p.TeacherID = teacherID
					if err := repo.Create(ctx, &p); err != nil {
						return 0, err
					}
				}
				return len(doc.Collections.PendingPhotos), nil
			},
			count: func(r *Report) *int { return &r.PendingPhotos },
		},
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].rank < specs[j].rank })
	return specs
}
