package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

func TestAddAccessory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("")
	eq := seedLaptop(t, env, "")

	acc, err := env.accessories.AddAccessory(ctx, eq.ID, dto.AccessoryInputDTO{AccessoryType: " USB Hub ", AccessoryName: "Anker"})
	require.NoError(t, err)
	assert.Equal(t, "USB Hub", acc.AccessoryType)
	assert.Equal(t, eq.ID, acc.EquipmentID)

	_, err = env.accessories.AddAccessory(ctx, eq.ID, dto.AccessoryInputDTO{AccessoryType: "Stylus", AccessoryName: "x"})
	assert.ErrorIs(t, err, apperrors.ErrAccessoryTypeNotAllowed)

	_, err = env.accessories.AddAccessory(ctx, 999, dto.AccessoryInputDTO{AccessoryType: "Adapter", AccessoryName: "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	list, err := env.accessories.GetByEquipment(ctx, eq.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReplaceAccessories(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("")
	tablet, err := env.equipment.CreateEquipment(ctx, dto.CreateEquipmentDTO{
		Category:    entities.CategoryTablet,
		Accessories: []dto.AccessoryInputDTO{{AccessoryType: "Charger", AccessoryName: "USB-C"}},
	})
	require.NoError(t, err)
	before := len(env.store.audit)

	res, err := env.accessories.ReplaceAccessories(ctx, tablet.ID, dto.BulkAccessoriesDTO{Accessories: []dto.AccessoryInputDTO{
		{AccessoryType: "Stylus", AccessoryName: "Pen"},
		{AccessoryType: "Case", AccessoryName: "Deri"},
	}})
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t,
		[]string{"equipment_accessories:DELETE", "equipment_accessories:INSERT", "equipment_accessories:INSERT"},
		env.store.auditTriples()[before:])

	// недопустимый тип отклоняет весь набор
	_, err = env.accessories.ReplaceAccessories(ctx, tablet.ID, dto.BulkAccessoriesDTO{Accessories: []dto.AccessoryInputDTO{
		{AccessoryType: "Case", AccessoryName: "a"},
		{AccessoryType: "Webcam", AccessoryName: "b"},
	}})
	assert.ErrorIs(t, err, apperrors.ErrAccessoryTypeNotAllowed)
	list, err := env.accessories.GetByEquipment(ctx, tablet.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUpdateAndDeleteAccessory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("")
	eq := seedLaptop(t, env, "")
	acc, err := env.accessories.AddAccessory(ctx, eq.ID, dto.AccessoryInputDTO{AccessoryType: "Adapter", AccessoryName: "65W"})
	require.NoError(t, err)

	updated, err := env.accessories.UpdateAccessory(ctx, acc.ID, dto.UpdateAccessoryDTO{AccessoryType: "Adapter", AccessoryName: "90W"})
	require.NoError(t, err)
	assert.Equal(t, "90W", updated.AccessoryName)

	_, err = env.accessories.UpdateAccessory(ctx, acc.ID, dto.UpdateAccessoryDTO{AccessoryType: "Case", AccessoryName: "x"})
	assert.ErrorIs(t, err, apperrors.ErrAccessoryTypeNotAllowed)

	require.NoError(t, env.accessories.DeleteAccessory(ctx, acc.ID))
	_, ok := env.store.accessories[acc.ID]
	assert.False(t, ok, "аксессуар удаляется физически")

	assert.ErrorIs(t, env.accessories.DeleteAccessory(ctx, acc.ID), apperrors.ErrNotFound)
}
