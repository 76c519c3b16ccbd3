package testutil

import (
	"time"

	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/tree"
)

// DocumentOption mutates a fixture document.
type DocumentOption func(*domain.Document)

// NewTestDocument builds a minimal valid document with one participant and
// one root item.
func NewTestDocument(title string, opts ...DocumentOption) *domain.Document {
	now := time.Now().UTC()
	items := tree.New(nil)
	items.AddRoot(now)

	doc := &domain.Document{
		Header: domain.Header{
			Number: "1",
			Date:   domain.TodayDate(now),
			Type:   "Kick-Off",
			Title:  title,
			Owner:  "Test Owner",
		},
		Participants: []domain.Participant{
			{Name: "Test Participant", Email: "p@example.com", Attendance: domain.AttendancePresent},
		},
		Items: items.Items(),
	}
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}

// WithHeaderNumber overrides the header number.
func WithHeaderNumber(number string) DocumentOption {
	return func(d *domain.Document) { d.Header.Number = number }
}

// WithProject sets the header project.
func WithProject(project string) DocumentOption {
	return func(d *domain.Document) { d.Header.Project = project }
}

// WithParticipant appends a participant.
func WithParticipant(p domain.Participant) DocumentOption {
	return func(d *domain.Document) { d.Participants = append(d.Participants, p) }
}

// WithItems replaces the item list.
func WithItems(items ...*domain.Item) DocumentOption {
	return func(d *domain.Document) { d.Items = items }
}

// WithArchived marks the document archived.
func WithArchived() DocumentOption {
	return func(d *domain.Document) { d.Archived = true }
}

// SeedItemForest builds a small forest: roots "1" and "2" with children
// "1.1" and "1.2" under the first root. Returns the tree for further
// mutation.
func SeedItemForest() *tree.Tree {
	now := time.Now().UTC()
	t := tree.New(nil)
	r1 := t.AddRoot(now)
	t.AddRoot(now)
	t.AddChild(r1, now)
	t.AddChild(r1, now)
	return t
}
