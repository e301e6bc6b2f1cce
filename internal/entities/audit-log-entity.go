package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type AuditAction string

const (
	AuditInsert AuditAction = "INSERT"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

func (a AuditAction) IsValid() bool {
	return a == AuditInsert || a == AuditUpdate || a == AuditDelete
}

// AuditLog - неизменяемая запись журнала. old/new хранятся как JSON-текст.
type AuditLog struct {
	ID        uint64      `json:"id"`
	TableName string      `json:"table_name"`
	RecordID  uint64      `json:"record_id"`
	Action    AuditAction `json:"action"`
	OldValues null.String `json:"old_values"`
	NewValues null.String `json:"new_values"`
	UserInfo  string      `json:"user_info"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditFilter struct {
	TableName string
	RecordID  *uint64
	Action    AuditAction
	From      *time.Time
	// To не включается
	To     *time.Time
	Limit  uint64
	Offset uint64
}

type AuditStats struct {
	Total      int64 `json:"total"`
	Inserts    int64 `json:"insert_count"`
	Updates    int64 `json:"update_count"`
	Deletes    int64 `json:"delete_count"`
	TableCount int64 `json:"table_count"`
}

type AuditTableStat struct {
	TableName  string     `json:"table_name"`
	Count      int64      `json:"count"`
	LastChange *time.Time `json:"last_change"`
}

type AuditDailyStat struct {
	Day     string `json:"day"`
	Total   int64  `json:"total"`
	Inserts int64  `json:"insert_count"`
	Updates int64  `json:"update_count"`
	Deletes int64  `json:"delete_count"`
}
