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
	"inventory-system/pkg/utils"
)

type EmployeeServiceInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error)
	DeleteEmployee(ctx context.Context, id uint64) error
	GetDepartmentStats(ctx context.Context) ([]types.CountStat, error)
}

type EmployeeService struct {
	txManager          repositories.TxManagerInterface
	employeeRepository repositories.EmployeeRepositoryInterface
	assignmentRepo     repositories.AssignmentRepositoryInterface
	audit              AuditRecorder
	logger             *zap.Logger
}

func NewEmployeeService(
	txManager repositories.TxManagerInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	audit AuditRecorder,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		txManager:          txManager,
		employeeRepository: employeeRepository,
		assignmentRepo:     assignmentRepo,
		audit:              audit,
		logger:             logger,
	}
}

func employeeFromDTO(payload dto.CreateEmployeeDTO) entities.Employee {
	return entities.Employee{
		Name:        trimmed(payload.Name),
		Email:       utils.NullString(payload.Email),
		Department:  utils.NullString(payload.Department),
		Position:    utils.NullString(payload.Position),
		MobilePhone: utils.NullString(payload.MobilePhone),
		DeskPhone:   utils.NullString(payload.DeskPhone),
		IsActive:    true,
	}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	list, total, err := s.employeeRepository.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка при получении списка сотрудников", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

func (s *EmployeeService) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	return s.employeeRepository.FindByID(ctx, nil, id)
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error) {
	employee := employeeFromDTO(payload)

	var created *entities.Employee
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if employee.Email.Valid {
			exists, err := s.employeeRepository.ExistsByEmail(ctx, tx, employee.Email.String, 0)
			if err != nil {
				return err
			}
			if exists {
				return apperrors.ErrDuplicateEmail
			}
		}

		id, err := s.employeeRepository.Create(ctx, tx, employee)
		if err != nil {
			return err
		}
		created, err = s.employeeRepository.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.EmployeesTable.Name, id, entities.AuditInsert, nil, created)
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при создании сотрудника", err)
		return nil, err
	}

	s.logger.Info("Сотрудник успешно создан", zap.Uint64("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	employee := employeeFromDTO(dto.CreateEmployeeDTO(payload))

	var updated *entities.Employee
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		before, err := s.employeeRepository.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if employee.Email.Valid {
			exists, err := s.employeeRepository.ExistsByEmail(ctx, tx, employee.Email.String, id)
			if err != nil {
				return err
			}
			if exists {
				return apperrors.ErrDuplicateEmail
			}
		}

		if err := s.employeeRepository.Update(ctx, tx, id, employee); err != nil {
			return err
		}
		updated, err = s.employeeRepository.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.EmployeesTable.Name, id, entities.AuditUpdate, before, updated)
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при обновлении сотрудника", err, zap.Uint64("id", id))
		return nil, err
	}

	s.logger.Info("Сотрудник успешно обновлён", zap.Uint64("id", id))
	return updated, nil
}

// DeleteEmployee - мягкое удаление. Строка сотрудника блокируется, поэтому
// параллельное создание закрепления для него ждёт конца транзакции.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		before, err := s.employeeRepository.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		open, err := s.assignmentRepo.CountOpenByEmployee(ctx, tx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return apperrors.ErrEmployeeHasOpenAssignments
		}

		if err := s.employeeRepository.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, entities.EmployeesTable.Name, id, entities.AuditDelete, before, nil)
	})
	if err != nil {
		logServiceError(s.logger, "Ошибка при удалении сотрудника", err, zap.Uint64("id", id))
		return err
	}

	s.logger.Info("Сотрудник деактивирован", zap.Uint64("id", id))
	return nil
}

func (s *EmployeeService) GetDepartmentStats(ctx context.Context) ([]types.CountStat, error) {
	return s.employeeRepository.DepartmentStats(ctx)
}
