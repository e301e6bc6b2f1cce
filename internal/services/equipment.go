package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	GetByCategory(ctx context.Context, category string, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	GetByStatus(ctx context.Context, status string, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	GetAvailable(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error)
	UpdateStatus(ctx context.Context, id uint64, payload dto.UpdateEquipmentStatusDTO) (*dto.EquipmentDTO, error)
	DeleteEquipment(ctx context.Context, id uint64) error
	GetCategoryStats(ctx context.Context) ([]types.CountStat, error)
	GetStatusStats(ctx context.Context) ([]types.CountStat, error)
	GetCatalog() []dto.CategoryCatalogDTO
}

type EquipmentService struct {
	txManager           repositories.TxManagerInterface
	equipmentRepository repositories.EquipmentRepositoryInterface
	accessoryRepository repositories.AccessoryRepositoryInterface
	assignmentRepo      repositories.AssignmentRepositoryInterface
	audit               AuditRecorder
	serialPolicy        string
	logger              *zap.Logger
}

func NewEquipmentService(
	txManager repositories.TxManagerInterface,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	accessoryRepository repositories.AccessoryRepositoryInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	audit AuditRecorder,
	serialPolicy string,
	logger *zap.Logger,
) *EquipmentService {
	if serialPolicy != config.SerialPolicyStrict {
		serialPolicy = config.SerialPolicyAdvisory
	}
	return &EquipmentService{
		txManager:           txManager,
		equipmentRepository: equipmentRepository,
		accessoryRepository: accessoryRepository,
		assignmentRepo:      assignmentRepo,
		audit:               audit,
		serialPolicy:        serialPolicy,
		logger:              logger,
	}
}

func equipmentFromDTO(payload dto.CreateEquipmentDTO) entities.Equipment {
	return entities.Equipment{
		Category:     trimmed(payload.Category),
		SerialNumber: utils.NullString(payload.SerialNumber),
		Brand:        utils.NullString(payload.Brand),
		Model:        utils.NullString(payload.Model),
		Description:  utils.NullString(payload.Description),
		WifiMac:      utils.NullString(payload.WifiMac),
		LanMac:       utils.NullString(payload.LanMac),
		CPU:          utils.NullString(payload.CPU),
		GPU:          utils.NullString(payload.GPU),
		RAM:          utils.NullString(payload.RAM),
		Storage:      utils.NullString(payload.Storage),
		IsActive:     true,
	}
}

// checkEquipment - правила, которые зависят от категории
func checkEquipment(e entities.Equipment, accessories []dto.AccessoryInputDTO) error {
	if !entities.IsValidCategory(e.Category) {
		return apperrors.NewValidationError("Geçersiz kategori.", "category="+e.Category)
	}
	if e.Category == entities.CategoryOther && !e.Description.Valid {
		return apperrors.ErrDescriptionRequiredForOther
	}
	for _, a := range accessories {
		if !entities.IsAllowedAccessoryType(e.Category, trimmed(a.AccessoryType)) {
			return apperrors.ErrAccessoryTypeNotAllowed
		}
	}
	return nil
}

func toEquipmentDTOs(list []entities.Equipment) []dto.EquipmentDTO {
	out := make([]dto.EquipmentDTO, 0, len(list))
	for _, e := range list {
		out = append(out, dto.NewEquipmentDTO(e))
	}
	return out
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	list, total, err := s.equipmentRepository.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка при получении списка оборудования", zap.Error(err))
		return nil, 0, err
	}

	ids := make([]uint64, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.ID)
	}
	byEquipment, err := s.accessoryRepository.GetByEquipmentIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Ошибка при получении аксессуаров", zap.Error(err))
		return nil, 0, err
	}
	for i := range list {
		list[i].Accessories = byEquipment[list[i].ID]
	}
	return toEquipmentDTOs(list), total, nil
}

func withFilter(filter types.Filter, key string, value interface{}) types.Filter {
	f := make(map[string]interface{}, len(filter.Filter)+1)
	for k, v := range filter.Filter {
		f[k] = v
	}
	f[key] = value
	filter.Filter = f
	return filter
}

func (s *EquipmentService) GetByCategory(ctx context.Context, category string, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	if !entities.IsValidCategory(category) {
		return nil, 0, apperrors.NewValidationError("Geçersiz kategori.", "category="+category)
	}
	return s.GetEquipments(ctx, withFilter(filter, "category", category))
}

func (s *EquipmentService) GetByStatus(ctx context.Context, status string, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	if !entities.EquipmentStatus(status).IsValid() {
		return nil, 0, apperrors.NewValidationError("Geçersiz durum. available veya assigned olmalıdır.", "status="+status)
	}
	return s.GetEquipments(ctx, withFilter(filter, "status", status))
}

func (s *EquipmentService) GetAvailable(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	return s.GetEquipments(ctx, withFilter(filter, "status", string(entities.StatusAvailable)))
}

func (s *EquipmentService) load(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	e, err := s.equipmentRepository.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	e.Accessories, err = s.accessoryRepository.GetByEquipment(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	e, err := s.load(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	res := dto.NewEquipmentDTO(*e)
	return &res, nil
}

// serialTaken - есть ли другое активное устройство с тем же серийным номером
func (s *EquipmentService) serialTaken(ctx context.Context, tx pgx.Tx, serial string, excludeID uint64) (bool, error) {
	_, err := s.equipmentRepository.FindBySerialNumber(ctx, tx, serial, excludeID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (s *EquipmentService) accessories() accessorySet {
	return accessorySet{repo: s.accessoryRepository, audit: s.audit}
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	equipment := equipmentFromDTO(payload)
	equipment.Status = entities.StatusAvailable
	if err := checkEquipment(equipment, payload.Accessories); err != nil {
		return nil, err
	}

	var (
		created *entities.Equipment
		warning string
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if equipment.SerialNumber.Valid {
			taken, err := s.serialTaken(ctx, tx, equipment.SerialNumber.String, 0)
			if err != nil {
				return err
			}
			if taken {
				if s.serialPolicy == config.SerialPolicyStrict {
					return apperrors.ErrDuplicateSerialNumber
				}
				warning = fmt.Sprintf("Uyarı: %s seri numarası başka bir donanımda da kayıtlı.", equipment.SerialNumber.String)
				s.logger.Warn("Дубликат серийного номера при создании оборудования",
					zap.String("serial_number", equipment.SerialNumber.String))
			}
		}

		id, err := s.equipmentRepository.Create(ctx, tx, equipment)
		if err != nil {
			return err
		}
		if err := s.accessories().insert(ctx, tx, id, payload.Accessories); err != nil {
			return err
		}
		created, err = s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.EquipmentTable.Name, id, entities.AuditInsert, nil, created)
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при создании оборудования", err)
		return nil, err
	}

	s.logger.Info("Оборудование успешно создано", zap.Uint64("id", created.ID), zap.String("category", created.Category))
	res := dto.NewEquipmentDTO(*created)
	res.Warning = warning
	return &res, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	equipment := equipmentFromDTO(dto.CreateEquipmentDTO(payload))
	if err := checkEquipment(equipment, payload.Accessories); err != nil {
		return nil, err
	}

	var updated *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		before, err := s.equipmentRepository.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		before.Accessories, err = s.accessoryRepository.GetByEquipment(ctx, tx, id)
		if err != nil {
			return err
		}
		// без нового списка старые аксессуары должны подходить под новую категорию
		if payload.Accessories == nil {
			for _, a := range before.Accessories {
				if !entities.IsAllowedAccessoryType(equipment.Category, a.AccessoryType) {
					return apperrors.ErrAccessoryTypeNotAllowed
				}
			}
		}

		if equipment.SerialNumber.Valid {
			taken, err := s.serialTaken(ctx, tx, equipment.SerialNumber.String, id)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.ErrDuplicateSerialNumber
			}
		}

		if err := s.equipmentRepository.Update(ctx, tx, id, equipment); err != nil {
			return err
		}
		if payload.Accessories != nil {
			if err := s.accessories().replace(ctx, tx, id, payload.Accessories); err != nil {
				return err
			}
		}
		updated, err = s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.EquipmentTable.Name, id, entities.AuditUpdate, before, updated)
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при обновлении оборудования", err, zap.Uint64("id", id))
		return nil, err
	}

	s.logger.Info("Оборудование успешно обновлено", zap.Uint64("id", id))
	res := dto.NewEquipmentDTO(*updated)
	return &res, nil
}

// UpdateStatus принимает только статус, который следует из закреплений.
// Нужен для исправления рассинхрона, но не для ручного переключения.
func (s *EquipmentService) UpdateStatus(ctx context.Context, id uint64, payload dto.UpdateEquipmentStatusDTO) (*dto.EquipmentDTO, error) {
	requested := entities.EquipmentStatus(payload.Status)
	if !requested.IsValid() {
		return nil, apperrors.NewValidationError("Geçersiz durum. available veya assigned olmalıdır.", "status="+payload.Status)
	}

	var updated *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		before, err := s.equipmentRepository.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		open, err := s.assignmentRepo.CountOpenByEquipment(ctx, tx, id)
		if err != nil {
			return err
		}
		if entities.StatusFor(open > 0) != requested {
			return apperrors.ErrEquipmentStatusMismatch
		}

		if before.Status != requested {
			if err := s.equipmentRepository.UpdateStatus(ctx, tx, id, requested); err != nil {
				return err
			}
			s.logger.Warn("Статус оборудования исправлен",
				zap.Uint64("id", id),
				zap.String("from", string(before.Status)),
				zap.String("to", string(requested)))
		}
		updated, err = s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if before.Status == requested {
			return nil
		}
		return s.audit.Record(ctx, tx, entities.EquipmentTable.Name, id, entities.AuditUpdate,
			map[string]interface{}{"status": before.Status},
			map[string]interface{}{"status": requested})
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при изменении статуса оборудования", err, zap.Uint64("id", id))
		return nil, err
	}

	res := dto.NewEquipmentDTO(*updated)
	return &res, nil
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		before, err := s.equipmentRepository.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		open, err := s.assignmentRepo.CountOpenByEquipment(ctx, tx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return apperrors.ErrEquipmentHasOpenAssignment
		}

		if err := s.equipmentRepository.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.EquipmentTable.Name, id, entities.AuditDelete, before, nil)
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при удалении оборудования", err, zap.Uint64("id", id))
		return err
	}

	s.logger.Info("Оборудование деактивировано", zap.Uint64("id", id))
	return nil
}

func (s *EquipmentService) GetCategoryStats(ctx context.Context) ([]types.CountStat, error) {
	return s.equipmentRepository.CategoryStats(ctx)
}

func (s *EquipmentService) GetStatusStats(ctx context.Context) ([]types.CountStat, error) {
	return s.equipmentRepository.StatusStats(ctx)
}

// GetCatalog - категории и допустимые для них типы аксессуаров
func (s *EquipmentService) GetCatalog() []dto.CategoryCatalogDTO {
	out := make([]dto.CategoryCatalogDTO, 0, len(entities.EquipmentCategories))
	for _, c := range entities.EquipmentCategories {
		accessoryTypes := append([]string{}, entities.AccessoryTypes[c]...)
		out = append(out, dto.CategoryCatalogDTO{Category: c, AccessoryTypes: accessoryTypes})
	}
	return out
}
