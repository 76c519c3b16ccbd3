package domain

import "time"

// Header carries the identifying fields of a meeting record. Date is kept
// as a YYYY-MM-DD string: it is user-entered, round-trips through exports
// unchanged, and never participates in arithmetic.
type Header struct {
	Number  string
	Date    string
	Type    string
	Title   string
	Owner   string
	Project string
}

type Participant struct {
	Name       string
	Email      string
	Company    string
	Phone      string
	Attendance AttendanceFlag
}

// Document is one complete meeting record: header, participant list, and
// the flat item forest. Archived documents were the source of a copy and
// are treated as read-only by the UI layer.
type Document struct {
	ID           string
	Header       Header
	Participants []Participant
	Items        []*Item
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Archived     bool
}

// TodayDate formats t as the YYYY-MM-DD header date string.
func TodayDate(t time.Time) string {
	return t.Format("2006-01-02")
}
