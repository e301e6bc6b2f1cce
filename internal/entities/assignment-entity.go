package entities

import (
	"time"

	"inventory-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type Assignment struct {
	ID           uint64      `json:"id"`
	EmployeeID   uint64      `json:"employee_id"`
	EquipmentID  uint64      `json:"equipment_id"`
	AssignedDate time.Time   `json:"assigned_date"`
	ReturnedDate null.Time   `json:"returned_date"`
	Notes        null.String `json:"notes"`
	ReturnReason null.String `json:"return_reason"`

	types.BaseEntity

	// Поля из JOIN для отображения
	EmployeeName       null.String `json:"employee_name" db:"-"`
	EmployeeDepartment null.String `json:"employee_department" db:"-"`
	EquipmentCategory  null.String `json:"equipment_category" db:"-"`
	EquipmentBrand     null.String `json:"equipment_brand" db:"-"`
	EquipmentModel     null.String `json:"equipment_model" db:"-"`
	EquipmentSerial    null.String `json:"equipment_serial" db:"-"`
}

// IsOpen - закрепление ещё не возвращено
func (a *Assignment) IsOpen() bool {
	return !a.ReturnedDate.Valid
}

type AssignmentFilter struct {
	EmployeeID  *uint64
	EquipmentID *uint64
	OnlyOpen    bool
}

type AssignmentStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Returned int64 `json:"returned"`
}
