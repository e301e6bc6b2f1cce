package entities

import (
	"inventory-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type EquipmentStatus string

const (
	StatusAvailable EquipmentStatus = "available"
	StatusAssigned  EquipmentStatus = "assigned"
)

func (s EquipmentStatus) IsValid() bool {
	return s == StatusAvailable || s == StatusAssigned
}

// Label - подпись статуса для интерфейса и отчётов
func (s EquipmentStatus) Label() string {
	switch s {
	case StatusAvailable:
		return "Boşta"
	case StatusAssigned:
		return "Atanmış"
	}
	return string(s)
}

// StatusFor - статус, который следует из наличия открытого закрепления
func StatusFor(hasOpenAssignment bool) EquipmentStatus {
	if hasOpenAssignment {
		return StatusAssigned
	}
	return StatusAvailable
}

type Equipment struct {
	ID           uint64          `json:"id"`
	Category     string          `json:"category"`
	SerialNumber null.String     `json:"serial_number"`
	Brand        null.String     `json:"brand"`
	Model        null.String     `json:"model"`
	Status       EquipmentStatus `json:"status"`
	Description  null.String     `json:"description"`
	WifiMac      null.String     `json:"wifi_mac"`
	LanMac       null.String     `json:"lan_mac"`
	CPU          null.String     `json:"cpu"`
	GPU          null.String     `json:"gpu"`
	RAM          null.String     `json:"ram"`
	Storage      null.String     `json:"storage"`
	IsActive     bool            `json:"is_active"`

	types.BaseEntity

	// не колонка таблицы
	Accessories []Accessory `json:"accessories,omitempty" db:"-"`
}
