package events

import "time"

const (
	AssignmentOpened   = "assignment.opened"
	AssignmentReturned = "assignment.returned"
)

// AssignmentEvent публикуется после фиксации транзакции закрепления.
type AssignmentEvent struct {
	Kind         string
	AssignmentID uint64
	EmployeeID   uint64
	EquipmentID  uint64
	At           time.Time
	ReturnReason string
	// Actor - JSON того же вида, что и user_info в журнале аудита
	Actor string
}

func (e AssignmentEvent) Name() string {
	return e.Kind
}
