package types

import "time"

type BaseEntity struct {
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// CountStat - строка группировки "значение -> количество"
type CountStat struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}
