package dto

import (
	"time"

	"inventory-system/internal/entities"
	"inventory-system/pkg/types"
)

// AuditLogDTO - запись журнала с разобранными old/new значениями
type AuditLogDTO struct {
	ID        uint64               `json:"id"`
	TableName string               `json:"table_name"`
	RecordID  uint64               `json:"record_id"`
	Action    entities.AuditAction `json:"action"`
	OldValues interface{}          `json:"old_values"`
	NewValues interface{}          `json:"new_values"`
	UserInfo  interface{}          `json:"user_info"`
	CreatedAt time.Time            `json:"created_at"`
}

type LogQueryDTO struct {
	Type  string
	Date  string
	Page  int
	Limit int
}

type LogPageDTO struct {
	Logs       []AuditLogDTO       `json:"logs"`
	Pagination types.Pagination    `json:"pagination"`
	Statistics entities.AuditStats `json:"statistics"`
}

type CleanupDTO struct {
	DaysToKeep int `json:"daysToKeep" validate:"omitempty,min=1,max=36500"`
}

type CleanupResultDTO struct {
	Deleted    int64 `json:"deleted"`
	DaysToKeep int   `json:"daysToKeep"`
}
