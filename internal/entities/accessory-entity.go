package entities

import "time"

type Accessory struct {
	ID            uint64     `json:"id"`
	EquipmentID   uint64     `json:"equipment_id"`
	AccessoryType string     `json:"accessory_type"`
	AccessoryName string     `json:"accessory_name"`
	CreatedAt     *time.Time `json:"created_at"`
}
