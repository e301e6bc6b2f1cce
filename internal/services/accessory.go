package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

// accessorySet - запись набора аксессуаров устройства с аудитом каждой строки
type accessorySet struct {
	repo  repositories.AccessoryRepositoryInterface
	audit AuditRecorder
}

func (a accessorySet) insert(ctx context.Context, tx pgx.Tx, equipmentID uint64, items []dto.AccessoryInputDTO) error {
	for _, item := range items {
		acc := entities.Accessory{
			EquipmentID:   equipmentID,
			AccessoryType: trimmed(item.AccessoryType),
			AccessoryName: trimmed(item.AccessoryName),
		}
		id, err := a.repo.Create(ctx, tx, acc)
		if err != nil {
			return err
		}
		acc.ID = id
		if err := a.audit.Record(ctx, tx, entities.AccessoriesTable.Name, id, entities.AuditInsert, nil, acc); err != nil {
			return err
		}
	}
	return nil
}

// replace удаляет текущий набор целиком и вставляет новый
func (a accessorySet) replace(ctx context.Context, tx pgx.Tx, equipmentID uint64, items []dto.AccessoryInputDTO) error {
	existing, err := a.repo.GetByEquipment(ctx, tx, equipmentID)
	if err != nil {
		return err
	}
	for _, acc := range existing {
		if err := a.repo.Delete(ctx, tx, acc.ID); err != nil {
			return err
		}
		if err := a.audit.Record(ctx, tx, entities.AccessoriesTable.Name, acc.ID, entities.AuditDelete, acc, nil); err != nil {
			return err
		}
	}
	return a.insert(ctx, tx, equipmentID, items)
}

type AccessoryServiceInterface interface {
	GetByEquipment(ctx context.Context, equipmentID uint64) ([]entities.Accessory, error)
	FindAccessory(ctx context.Context, id uint64) (*entities.Accessory, error)
	AddAccessory(ctx context.Context, equipmentID uint64, payload dto.AccessoryInputDTO) (*entities.Accessory, error)
	ReplaceAccessories(ctx context.Context, equipmentID uint64, payload dto.BulkAccessoriesDTO) ([]entities.Accessory, error)
	UpdateAccessory(ctx context.Context, id uint64, payload dto.UpdateAccessoryDTO) (*entities.Accessory, error)
	DeleteAccessory(ctx context.Context, id uint64) error
	GetTypeStats(ctx context.Context) ([]types.CountStat, error)
}

type AccessoryService struct {
	txManager           repositories.TxManagerInterface
	accessoryRepository repositories.AccessoryRepositoryInterface
	equipmentRepository repositories.EquipmentRepositoryInterface
	audit               AuditRecorder
	logger              *zap.Logger
}

func NewAccessoryService(
	txManager repositories.TxManagerInterface,
	accessoryRepository repositories.AccessoryRepositoryInterface,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	audit AuditRecorder,
	logger *zap.Logger,
) *AccessoryService {
	return &AccessoryService{
		txManager:           txManager,
		accessoryRepository: accessoryRepository,
		equipmentRepository: equipmentRepository,
		audit:               audit,
		logger:              logger,
	}
}

func (s *AccessoryService) set() accessorySet {
	return accessorySet{repo: s.accessoryRepository, audit: s.audit}
}

func checkAccessoryTypes(category string, items ...dto.AccessoryInputDTO) error {
	for _, item := range items {
		if !entities.IsAllowedAccessoryType(category, trimmed(item.AccessoryType)) {
			return apperrors.ErrAccessoryTypeNotAllowed
		}
	}
	return nil
}

func (s *AccessoryService) GetByEquipment(ctx context.Context, equipmentID uint64) ([]entities.Accessory, error) {
	if _, err := s.equipmentRepository.FindByID(ctx, nil, equipmentID); err != nil {
		return nil, err
	}
	return s.accessoryRepository.GetByEquipment(ctx, nil, equipmentID)
}

func (s *AccessoryService) FindAccessory(ctx context.Context, id uint64) (*entities.Accessory, error) {
	return s.accessoryRepository.FindByID(ctx, nil, id)
}

func (s *AccessoryService) AddAccessory(ctx context.Context, equipmentID uint64, payload dto.AccessoryInputDTO) (*entities.Accessory, error) {
	var created *entities.Accessory
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err := s.equipmentRepository.LockByID(ctx, tx, equipmentID)
		if err != nil {
			return err
		}
		if err := checkAccessoryTypes(equipment.Category, payload); err != nil {
			return err
		}

		acc := entities.Accessory{
			EquipmentID:   equipmentID,
			AccessoryType: trimmed(payload.AccessoryType),
			AccessoryName: trimmed(payload.AccessoryName),
		}
		id, err := s.accessoryRepository.Create(ctx, tx, acc)
		if err != nil {
			return err
		}
		created, err = s.accessoryRepository.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.AccessoriesTable.Name, id, entities.AuditInsert, nil, created)
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при добавлении аксессуара", err, zap.Uint64("equipment_id", equipmentID))
		return nil, err
	}

	s.logger.Info("Аксессуар добавлен", zap.Uint64("id", created.ID), zap.Uint64("equipment_id", equipmentID))
	return created, nil
}

// ReplaceAccessories заменяет весь набор аксессуаров устройства
func (s *AccessoryService) ReplaceAccessories(ctx context.Context, equipmentID uint64, payload dto.BulkAccessoriesDTO) ([]entities.Accessory, error) {
	var result []entities.Accessory
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err := s.equipmentRepository.LockByID(ctx, tx, equipmentID)
		if err != nil {
			return err
		}
		if err := checkAccessoryTypes(equipment.Category, payload.Accessories...); err != nil {
			return err
		}
		if err := s.set().replace(ctx, tx, equipmentID, payload.Accessories); err != nil {
			return err
		}
		result, err = s.accessoryRepository.GetByEquipment(ctx, tx, equipmentID)
		return err
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при замене аксессуаров", err, zap.Uint64("equipment_id", equipmentID))
		return nil, err
	}

	s.logger.Info("Набор аксессуаров заменён", zap.Uint64("equipment_id", equipmentID), zap.Int("count", len(result)))
	return result, nil
}

func (s *AccessoryService) UpdateAccessory(ctx context.Context, id uint64, payload dto.UpdateAccessoryDTO) (*entities.Accessory, error) {
	var updated *entities.Accessory
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		before, err := s.accessoryRepository.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		equipment, err := s.equipmentRepository.LockByID(ctx, tx, before.EquipmentID)
		if err != nil {
			return err
		}
		if err := checkAccessoryTypes(equipment.Category, dto.AccessoryInputDTO(payload)); err != nil {
			return err
		}

		acc := entities.Accessory{
			EquipmentID:   before.EquipmentID,
			AccessoryType: trimmed(payload.AccessoryType),
			AccessoryName: trimmed(payload.AccessoryName),
		}
		if err := s.accessoryRepository.Update(ctx, tx, id, acc); err != nil {
			return err
		}
		updated, err = s.accessoryRepository.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.AccessoriesTable.Name, id, entities.AuditUpdate, before, updated)
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при обновлении аксессуара", err, zap.Uint64("id", id))
		return nil, err
	}
	return updated, nil
}

func (s *AccessoryService) DeleteAccessory(ctx context.Context, id uint64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		before, err := s.accessoryRepository.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.accessoryRepository.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.AccessoriesTable.Name, id, entities.AuditDelete, before, nil)
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при удалении аксессуара", err, zap.Uint64("id", id))
		return err
	}

	s.logger.Info("Аксессуар удалён", zap.Uint64("id", id))
	return nil
}

func (s *AccessoryService) GetTypeStats(ctx context.Context) ([]types.CountStat, error) {
	return s.accessoryRepository.TypeStats(ctx)
}
