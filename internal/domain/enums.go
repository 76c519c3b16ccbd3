package domain

type ItemStatus string

const (
	StatusPending    ItemStatus = "Pending"
	StatusInProgress ItemStatus = "InProgress"
	StatusDone       ItemStatus = "Done"
	StatusCancelled  ItemStatus = "Cancelled"
	StatusInfo       ItemStatus = "Info"
)

// ValidItemStatuses is the canonical set of accepted item status strings.
var ValidItemStatuses = map[string]bool{
	"Pending": true, "InProgress": true, "Done": true,
	"Cancelled": true, "Info": true,
}

// Valid reports whether the status is one of the fixed enumeration values.
func (s ItemStatus) Valid() bool {
	return ValidItemStatuses[string(s)]
}

type AttendanceFlag string

const (
	AttendancePresent AttendanceFlag = "P"
	AttendanceAbsent  AttendanceFlag = "A"
)
