package dto

type CreateEmployeeDTO struct {
	Name        string `json:"name" validate:"notblank,max=150"`
	Email       string `json:"email" validate:"omitempty,email,max=150"`
	Department  string `json:"department" validate:"omitempty,max=100"`
	Position    string `json:"position" validate:"omitempty,max=100"`
	MobilePhone string `json:"mobile_phone" validate:"omitempty,employee_phone,min=10,max=20"`
	DeskPhone   string `json:"desk_phone" validate:"omitempty,employee_phone,min=3,max=20"`
}

// UpdateEmployeeDTO - PUT заменяет все поля
type UpdateEmployeeDTO CreateEmployeeDTO
