package entities

import (
	"inventory-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type Employee struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Email       null.String `json:"email"`
	Department  null.String `json:"department"`
	Position    null.String `json:"position"`
	MobilePhone null.String `json:"mobile_phone"`
	DeskPhone   null.String `json:"desk_phone"`
	IsActive    bool        `json:"is_active"`

	types.BaseEntity
}
