package dto

type UpdateAccessoryDTO AccessoryInputDTO

type BulkAccessoriesDTO struct {
	Accessories []AccessoryInputDTO `json:"accessories" validate:"dive"`
}
