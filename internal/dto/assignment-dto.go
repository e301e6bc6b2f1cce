package dto

type CreateAssignmentDTO struct {
	EmployeeID  uint64 `json:"employee_id" validate:"required,gt=0"`
	EquipmentID uint64 `json:"equipment_id" validate:"required,gt=0"`
	Notes       string `json:"notes" validate:"max=1000"`
}

// ReturnAssignmentDTO - причина проверяется в сервисе, чтобы отказ был типизированным
type ReturnAssignmentDTO struct {
	ReturnReason string  `json:"return_reason" validate:"max=500"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateAssignmentDTO struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// LiveAssignmentDTO - сообщение живой ленты о выдаче или возврате
type LiveAssignmentDTO struct {
	AssignmentID uint64 `json:"assignment_id"`
	EmployeeID   uint64 `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	EquipmentID  uint64 `json:"equipment_id"`
	Equipment    string `json:"equipment"`
	At           string `json:"at"`
	ReturnReason string `json:"return_reason,omitempty"`
}
