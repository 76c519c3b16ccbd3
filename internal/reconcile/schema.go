// Package reconcile handles the persisted JSON shape of a document and the
// re-keying performed on copy and import. Anything arriving from outside
// (hand-edited files, share links, other installs) passes through here
// before it touches the store.
package reconcile

import (
	"encoding/json"
	"time"

	"github.com/mduarte/ata/internal/domain"
)

// Payload is the top-level JSON structure round-tripped through storage,
// export, and share links.
type Payload struct {
	Header       HeaderPayload        `json:"header"`
	Participants []ParticipantPayload `json:"attendance"`
	Items        []ItemPayload        `json:"items"`
	CreatedAt    string               `json:"createdAt,omitempty"`
	UpdatedAt    string               `json:"updatedAt,omitempty"`
	Archived     bool                 `json:"archived,omitempty"`
}

type HeaderPayload struct {
	Number  string `json:"number"`
	Date    string `json:"date"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Owner   string `json:"owner"`
	Project string `json:"project"`
}

type ParticipantPayload struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Company    string `json:"company"`
	Phone      string `json:"phone"`
	Attendance string `json:"attendanceFlag"`
}

type ItemPayload struct {
	ID          string         `json:"id"`
	Number      string         `json:"number"`
	Level       int            `json:"level"`
	ParentID    *string        `json:"parentId"`
	ChildIDs    []string       `json:"childIds"`
	CreatedAt   string         `json:"createdAt"`
	History     []EntryPayload `json:"history"`
	LatestEntry *EntryPayload  `json:"latestEntry,omitempty"`
}

type OwnerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EntryPayload struct {
	ID          string       `json:"id"`
	RecordedAt  string       `json:"recordedAt"`
	Description string       `json:"description"`
	Owner       OwnerPayload `json:"owner"`
	DueDate     *string      `json:"dueDate"`
	Status      string       `json:"status"`
}

// UnmarshalJSON decodes a history entry defensively: missing fields and
// wrong types become safe defaults instead of decode errors, so a single
// malformed entry can never sink a whole import.
func (e *EntryPayload) UnmarshalJSON(data []byte) error {
	*e = EntryPayload{Status: string(domain.StatusPending)}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	e.ID = stringField(m, "id")
	e.RecordedAt = stringField(m, "recordedAt")
	e.Description = stringField(m, "description")
	if o, ok := m["owner"].(map[string]any); ok {
		e.Owner.Name = stringField(o, "name")
		e.Owner.Email = stringField(o, "email")
	}
	if d, ok := m["dueDate"].(string); ok && d != "" {
		e.DueDate = &d
	}
	if s, ok := m["status"].(string); ok && domain.ValidItemStatuses[s] {
		e.Status = s
	}
	return nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// FromDocument converts a domain document into its persisted payload.
func FromDocument(doc *domain.Document) *Payload {
	p := &Payload{
		Header: HeaderPayload{
			Number:  doc.Header.Number,
			Date:    doc.Header.Date,
			Type:    doc.Header.Type,
			Title:   doc.Header.Title,
			Owner:   doc.Header.Owner,
			Project: doc.Header.Project,
		},
		Participants: make([]ParticipantPayload, 0, len(doc.Participants)),
		Items:        make([]ItemPayload, 0, len(doc.Items)),
		Archived:     doc.Archived,
	}
	if !doc.CreatedAt.IsZero() {
		p.CreatedAt = doc.CreatedAt.Format(time.RFC3339Nano)
	}
	if !doc.UpdatedAt.IsZero() {
		p.UpdatedAt = doc.UpdatedAt.Format(time.RFC3339Nano)
	}
	for _, part := range doc.Participants {
		p.Participants = append(p.Participants, ParticipantPayload{
			Name:       part.Name,
			Email:      part.Email,
			Company:    part.Company,
			Phone:      part.Phone,
			Attendance: string(part.Attendance),
		})
	}
	for _, it := range doc.Items {
		ip := ItemPayload{
			ID:        it.ID,
			Number:    it.Number,
			Level:     it.Level,
			ParentID:  it.ParentID,
			ChildIDs:  append([]string{}, it.ChildIDs...),
			CreatedAt: it.CreatedAt.Format(time.RFC3339Nano),
			History:   make([]EntryPayload, 0, len(it.History)),
		}
		for _, e := range it.History {
			ip.History = append(ip.History, fromEntry(e))
		}
		latest := fromEntry(it.LatestEntry)
		ip.LatestEntry = &latest
		p.Items = append(p.Items, ip)
	}
	return p
}

func fromEntry(e domain.HistoryEntry) EntryPayload {
	ep := EntryPayload{
		ID:          e.ID,
		RecordedAt:  e.RecordedAt.Format(time.RFC3339Nano),
		Description: e.Description,
		Owner:       OwnerPayload{Name: e.Owner.Name, Email: e.Owner.Email},
		Status:      string(e.Status),
	}
	if e.DueDate != nil {
		d := e.DueDate.Format("2006-01-02")
		ep.DueDate = &d
	}
	return ep
}

// Document converts the payload back into a domain document. Unparsable
// timestamps become zero times; the latest entry is restored from the
// stored latestEntry field when present, otherwise derived from the last
// history element.
func (p *Payload) Document(id string) *domain.Document {
	doc := &domain.Document{
		ID: id,
		Header: domain.Header{
			Number:  p.Header.Number,
			Date:    p.Header.Date,
			Type:    p.Header.Type,
			Title:   p.Header.Title,
			Owner:   p.Header.Owner,
			Project: p.Header.Project,
		},
		Participants: make([]domain.Participant, 0, len(p.Participants)),
		Items:        make([]*domain.Item, 0, len(p.Items)),
		CreatedAt:    parseTime(p.CreatedAt),
		UpdatedAt:    parseTime(p.UpdatedAt),
		Archived:     p.Archived,
	}
	for _, part := range p.Participants {
		doc.Participants = append(doc.Participants, domain.Participant{
			Name:       part.Name,
			Email:      part.Email,
			Company:    part.Company,
			Phone:      part.Phone,
			Attendance: domain.AttendanceFlag(part.Attendance),
		})
	}
	for _, ip := range p.Items {
		it := &domain.Item{
			ID:        ip.ID,
			Number:    ip.Number,
			Level:     ip.Level,
			ParentID:  ip.ParentID,
			ChildIDs:  append([]string{}, ip.ChildIDs...),
			CreatedAt: parseTime(ip.CreatedAt),
			History:   make([]domain.HistoryEntry, 0, len(ip.History)),
		}
		for _, ep := range ip.History {
			it.History = append(it.History, toEntry(ep))
		}
		switch {
		case ip.LatestEntry != nil:
			it.LatestEntry = toEntry(*ip.LatestEntry)
		case len(it.History) > 0:
			it.LatestEntry = it.History[len(it.History)-1]
		}
		doc.Items = append(doc.Items, it)
	}
	return doc
}

func toEntry(ep EntryPayload) domain.HistoryEntry {
	status := domain.ItemStatus(ep.Status)
	if !status.Valid() {
		status = domain.StatusPending
	}
	e := domain.HistoryEntry{
		ID:          ep.ID,
		RecordedAt:  parseTime(ep.RecordedAt),
		Description: ep.Description,
		Owner:       domain.Owner{Name: ep.Owner.Name, Email: ep.Owner.Email},
		Status:      status,
	}
	if ep.DueDate != nil {
		if t, err := time.Parse("2006-01-02", *ep.DueDate); err == nil {
			e.DueDate = &t
		}
	}
	return e
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
