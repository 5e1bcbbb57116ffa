// Package snapshot defines the portable backup document: an immutable,
// versioned capture of everything one teacher owns. The same document shape
// is written by the durable server archive and by the local rotating cache,
// and either side can read the other's output.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/models"
)

// FormatVersion is the version stamped on every document this writer
// produces. Readers reject documents whose major component differs.
const FormatVersion = "2.0.0"

// Owner identifies the teacher a document belongs to. The email is carried so
// an exported file remains attributable outside the database.
type Owner struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Collections holds the full denormalized entity lists, one per type. Order
// within each list is preserved across a round trip.
type Collections struct {
	Students      []models.Student      `json:"students"`
	Booklets      []models.Booklet      `json:"booklets"`
	Photos        []models.Photo        `json:"photos"`
	PendingPhotos []models.PendingPhoto `json:"pendingPhotos"`
}

// Document is the snapshot artifact. It is never mutated after creation;
// "updating" a backup means building a new one.
type Document struct {
	FormatVersion string      `json:"formatVersion"`
	CreatedAt     time.Time   `json:"createdAt"`
	Owner         Owner       `json:"owner"`
	Collections   Collections `json:"collections"`
}

// New stamps a fresh document with the current writer version and capture time.
func New(owner Owner, c Collections) *Document {
	return &Document{
		FormatVersion: FormatVersion,
		CreatedAt:     time.Now().UTC(),
		Owner:         owner,
		Collections:   c,
	}
}

// Marshal encodes the document as JSON.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot document and enforces the major-version gate.
// Minor and patch drift is accepted as-is.
func Decode(data []byte) (*Document, error) {
	d := &Document{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := CheckVersion(d.FormatVersion); err != nil {
		return nil, err
	}
	return d, nil
}

// CheckVersion compares the major component of v against the writer's.
func CheckVersion(v string) error {
	got, err := major(v)
	if err != nil {
		return fmt.Errorf("%w: %q", common.ErrUnsupportedSnapshotVersion, v)
	}
	want, _ := major(FormatVersion)
	if got != want {
		return fmt.Errorf("%w: got %q, reader supports %q", common.ErrUnsupportedSnapshotVersion, v, FormatVersion)
	}
	return nil
}

func major(v string) (int, error) {
	var maj, min, patch int
	if _, err := fmt.Sscanf(v, "%d.%d.%d", &maj, &min, &patch); err != nil {
		return 0, err
	}
	return maj, nil
}

// NormalizeReferences nulls photo references that point at entities absent
// from the document itself, so no dangling id survives into restored state.
// It returns the number of references nulled.
func (d *Document) NormalizeReferences() int {
	students := make(map[string]struct{}, len(d.Collections.Students))
	for _, s := range d.Collections.Students {
		students[s.ID] = struct{}{}
	}
	booklets := make(map[string]struct{}, len(d.Collections.Booklets))
	for _, b := range d.Collections.Booklets {
		booklets[b.ID] = struct{}{}
	}

	nulled := 0
	for i := range d.Collections.Photos {
		p := &d.Collections.Photos[i]
		if p.StudentID != nil {
			if _, ok := students[*p.StudentID]; !ok {
				p.StudentID = nil
				nulled++
			}
		}
		if p.BookletID != nil {
			if _, ok := booklets[*p.BookletID]; !ok {
				p.BookletID = nil
				nulled++
			}
		}
	}
	return nulled
}
