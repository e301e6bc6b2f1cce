package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/events"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/metrics"
	"inventory-system/pkg/utils"
)

type AssignmentServiceInterface interface {
	GetAssignments(ctx context.Context) ([]entities.Assignment, error)
	GetActiveAssignments(ctx context.Context) ([]entities.Assignment, error)
	GetByEmployee(ctx context.Context, employeeID uint64) ([]entities.Assignment, error)
	GetByEquipment(ctx context.Context, equipmentID uint64) ([]entities.Assignment, error)
	FindAssignment(ctx context.Context, id uint64) (*entities.Assignment, error)
	CreateAssignment(ctx context.Context, payload dto.CreateAssignmentDTO) (*entities.Assignment, error)
	ReturnAssignment(ctx context.Context, id uint64, payload dto.ReturnAssignmentDTO) (*entities.Assignment, error)
	UpdateAssignment(ctx context.Context, id uint64, payload dto.UpdateAssignmentDTO) (*entities.Assignment, error)
	GetStats(ctx context.Context) (*entities.AssignmentStats, error)
}

// AssignmentService ведёт жизненный цикл закреплений: OPEN -> RETURNED.
// Статус устройства меняется в той же транзакции, что и закрепление,
// строка устройства блокируется первой.
type AssignmentService struct {
	txManager      repositories.TxManagerInterface
	assignmentRepo repositories.AssignmentRepositoryInterface
	employeeRepo   repositories.EmployeeRepositoryInterface
	equipmentRepo  repositories.EquipmentRepositoryInterface
	audit          AuditRecorder
	metrics        *metrics.Metrics
	events         eventbus.Publisher
	logger         *zap.Logger
	now            func() time.Time
}

func NewAssignmentService(
	txManager repositories.TxManagerInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	audit AuditRecorder,
	m *metrics.Metrics,
	publisher eventbus.Publisher,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		txManager:      txManager,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
		equipmentRepo:  equipmentRepo,
		audit:          audit,
		metrics:        m,
		events:         publisher,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *AssignmentService) GetAssignments(ctx context.Context) ([]entities.Assignment, error) {
	return s.assignmentRepo.List(ctx, entities.AssignmentFilter{})
}

func (s *AssignmentService) GetActiveAssignments(ctx context.Context) ([]entities.Assignment, error) {
	return s.assignmentRepo.List(ctx, entities.AssignmentFilter{OnlyOpen: true})
}

func (s *AssignmentService) GetByEmployee(ctx context.Context, employeeID uint64) ([]entities.Assignment, error) {
	return s.assignmentRepo.List(ctx, entities.AssignmentFilter{EmployeeID: &employeeID})
}

func (s *AssignmentService) GetByEquipment(ctx context.Context, equipmentID uint64) ([]entities.Assignment, error) {
	return s.assignmentRepo.List(ctx, entities.AssignmentFilter{EquipmentID: &equipmentID})
}

func (s *AssignmentService) FindAssignment(ctx context.Context, id uint64) (*entities.Assignment, error) {
	return s.assignmentRepo.FindByID(ctx, nil, id)
}

func (s *AssignmentService) GetStats(ctx context.Context) (*entities.AssignmentStats, error) {
	return s.assignmentRepo.Stats(ctx)
}

func conflictReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrEquipmentNotAvailable):
		return "equipment_not_available"
	case errors.Is(err, apperrors.ErrEquipmentAlreadyAssigned):
		return "open_assignment_exists"
	case errors.Is(err, apperrors.ErrAssignmentAlreadyReturned):
		return "already_returned"
	}
	return "other"
}

func (s *AssignmentService) publish(ctx context.Context, kind string, a *entities.Assignment) {
	if s.events == nil {
		return
	}
	event := events.AssignmentEvent{
		Kind:         kind,
		AssignmentID: a.ID,
		EmployeeID:   a.EmployeeID,
		EquipmentID:  a.EquipmentID,
		At:           a.AssignedDate,
		Actor:        utils.GetActorFromCtx(ctx),
	}
	if kind == events.AssignmentReturned {
		event.At = a.ReturnedDate.Time
		event.ReturnReason = a.ReturnReason.String
	}
	s.events.Publish(ctx, event)
}

func (s *AssignmentService) fail(msg string, err error, fields ...zap.Field) {
	if errors.Is(err, apperrors.ErrConflict) {
		s.metrics.AssignmentConflict(conflictReason(err))
	}
	logServiceError(s.logger, msg, err, fields...)
}

// CreateAssignment открывает закрепление и переводит устройство в assigned.
// Проверка статуса и проверка открытых закреплений идут независимо:
// рассинхрон одного из них всё равно даёт отказ.
func (s *AssignmentService) CreateAssignment(ctx context.Context, payload dto.CreateAssignmentDTO) (*entities.Assignment, error) {
	var created *entities.Assignment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		// блокировка сотрудника не даёт параллельно его удалить
		if _, err := s.employeeRepo.LockByID(ctx, tx, payload.EmployeeID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrEmployeeNotAvailable
			}
			return err
		}

		equipment, err := s.equipmentRepo.LockByID(ctx, tx, payload.EquipmentID)
		if err != nil {
			return err
		}
		if equipment.Status != entities.StatusAvailable {
			return apperrors.ErrEquipmentNotAvailable
		}
		open, err := s.assignmentRepo.CountOpenByEquipment(ctx, tx, payload.EquipmentID)
		if err != nil {
			return err
		}
		if open > 0 {
			return apperrors.ErrEquipmentAlreadyAssigned
		}

		id, err := s.assignmentRepo.Create(ctx, tx, entities.Assignment{
			EmployeeID:   payload.EmployeeID,
			EquipmentID:  payload.EquipmentID,
			AssignedDate: s.now(),
			Notes:        utils.NullString(payload.Notes),
		})
		if err != nil {
			return err
		}
		if err := s.equipmentRepo.UpdateStatus(ctx, tx, payload.EquipmentID, entities.StatusAssigned); err != nil {
			return err
		}

		created, err = s.assignmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.AssignmentsTable.Name, id, entities.AuditInsert, nil, created)
	})
	if err != nil {
		s.fail("Ошибка при создании закрепления", err,
			zap.Uint64("employee_id", payload.EmployeeID),
			zap.Uint64("equipment_id", payload.EquipmentID))
		return nil, err
	}

	s.metrics.AssignmentCreated()
	s.publish(ctx, events.AssignmentOpened, created)
	s.logger.Info("Закрепление создано",
		zap.Uint64("id", created.ID),
		zap.Uint64("employee_id", created.EmployeeID),
		zap.Uint64("equipment_id", created.EquipmentID))
	return created, nil
}

// ReturnAssignment закрывает открытое закрепление и освобождает устройство.
// Если notes не переданы, прежние заметки сохраняются.
func (s *AssignmentService) ReturnAssignment(ctx context.Context, id uint64, payload dto.ReturnAssignmentDTO) (*entities.Assignment, error) {
	reason := trimmed(payload.ReturnReason)
	if reason == "" {
		return nil, apperrors.ErrReturnReasonRequired
	}

	var returned *entities.Assignment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.assignmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		// устройство блокируется раньше строки закрепления, как и при создании
		if _, err := s.equipmentRepo.LockByID(ctx, tx, current.EquipmentID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		before, err := s.assignmentRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !before.IsOpen() {
			return apperrors.ErrAssignmentAlreadyReturned
		}

		notes := before.Notes
		if payload.Notes != nil {
			notes = utils.NullStringPtr(payload.Notes)
		}
		returnedAt := s.now()
		if err := s.assignmentRepo.MarkReturned(ctx, tx, id, returnedAt, reason, notes); err != nil {
			return err
		}
		if err := s.equipmentRepo.UpdateStatus(ctx, tx, before.EquipmentID, entities.StatusAvailable); err != nil {
			return err
		}

		returned, err = s.assignmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.AssignmentsTable.Name, id, entities.AuditUpdate, before, map[string]interface{}{
			"returned_date": returnedAt,
			"return_reason": reason,
			"notes":         notes,
		})
	})
	if err != nil {
		s.fail("Ошибка при возврате закрепления", err, zap.Uint64("id", id))
		return nil, err
	}

	s.metrics.AssignmentReturned()
	s.publish(ctx, events.AssignmentReturned, returned)
	s.logger.Info("Закрепление возвращено", zap.Uint64("id", id), zap.Uint64("equipment_id", returned.EquipmentID))
	return returned, nil
}

// UpdateAssignment меняет только заметки
func (s *AssignmentService) UpdateAssignment(ctx context.Context, id uint64, payload dto.UpdateAssignmentDTO) (*entities.Assignment, error) {
	var updated *entities.Assignment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		before, err := s.assignmentRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		notes := utils.NullString(payload.Notes)
		if err := s.assignmentRepo.UpdateNotes(ctx, tx, id, notes); err != nil {
			return err
		}
		updated, err = s.assignmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.AssignmentsTable.Name, id, entities.AuditUpdate,
			map[string]interface{}{"notes": before.Notes},
			map[string]interface{}{"notes": notes})
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при обновлении закрепления", err, zap.Uint64("id", id))
		return nil, err
	}
	return updated, nil
}
