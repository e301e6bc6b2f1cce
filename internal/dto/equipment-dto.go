package dto

import "inventory-system/internal/entities"

type AccessoryInputDTO struct {
	AccessoryType string `json:"accessory_type" validate:"notblank,max=100"`
	AccessoryName string `json:"accessory_name" validate:"notblank,max=150"`
}

type CreateEquipmentDTO struct {
	Category     string `json:"category" validate:"required,equipment_category"`
	SerialNumber string `json:"serial_number" validate:"max=100"`
	Brand        string `json:"brand" validate:"max=100"`
	Model        string `json:"model" validate:"max=100"`
	Description  string `json:"description" validate:"description_for_other,max=1000"`
	WifiMac      string `json:"wifi_mac" validate:"omitempty,mac_addr"`
	LanMac       string `json:"lan_mac" validate:"omitempty,mac_addr"`
	CPU          string `json:"cpu" validate:"max=100"`
	GPU          string `json:"gpu" validate:"max=100"`
	RAM          string `json:"ram" validate:"max=50"`
	Storage      string `json:"storage" validate:"max=100"`

	Accessories []AccessoryInputDTO `json:"accessories" validate:"dive"`
}

// UpdateEquipmentDTO - статус не меняется через обновление, им управляют закрепления.
// Accessories == nil: аксессуары не трогаем; иначе набор заменяется целиком.
type UpdateEquipmentDTO CreateEquipmentDTO

type UpdateEquipmentStatusDTO struct {
	Status string `json:"status" validate:"required,equipment_status"`
}

type EquipmentDTO struct {
	entities.Equipment
	StatusLabel string `json:"status_tr"`
	// Warning - предупреждение о дубликате серийного номера
	Warning string `json:"warning,omitempty"`
}

func NewEquipmentDTO(e entities.Equipment) EquipmentDTO {
	return EquipmentDTO{Equipment: e, StatusLabel: e.Status.Label()}
}

type CategoryCatalogDTO struct {
	Category       string   `json:"category"`
	AccessoryTypes []string `json:"accessory_types"`
}
