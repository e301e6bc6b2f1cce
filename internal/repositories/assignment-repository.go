package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

const (
	// openAssignmentIndex - частичный уникальный индекс "одно открытое закрепление на устройство"
	openAssignmentIndex = "ux_assignments_open_equipment"

	assignmentFields = "a.id, a.employee_id, a.equipment_id, a.assigned_date, a.returned_date, a.notes, a.return_reason, a.created_at, a.updated_at"
	assignmentJoined = assignmentFields + ", emp.name, emp.department, eq.category, eq.brand, eq.model, eq.serial_number"
)

type AssignmentRepositoryInterface interface {
	List(ctx context.Context, filter entities.AssignmentFilter) ([]entities.Assignment, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Assignment, error)
	LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Assignment, error)
	CountOpenByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) (int64, error)
	CountOpenByEmployee(ctx context.Context, tx pgx.Tx, employeeID uint64) (int64, error)
	Create(ctx context.Context, tx pgx.Tx, a entities.Assignment) (uint64, error)
	// MarkReturned закрывает только открытое закрепление
	MarkReturned(ctx context.Context, tx pgx.Tx, id uint64, returnedAt time.Time, reason string, notes null.String) error
	UpdateNotes(ctx context.Context, tx pgx.Tx, id uint64, notes null.String) error
	Stats(ctx context.Context) (*entities.AssignmentStats, error)
}

type assignmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssignmentRepository(storage *pgxpool.Pool, logger *zap.Logger) AssignmentRepositoryInterface {
	return &assignmentRepository{storage: storage, logger: logger}
}

func (r *assignmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *assignmentRepository) joinedSelect() sq.SelectBuilder {
	return psql.Select(assignmentJoined).
		From(entities.AssignmentsTable.Name + " a").
		LeftJoin(entities.EmployeesTable.Name + " emp ON emp.id = a.employee_id").
		LeftJoin(entities.EquipmentTable.Name + " eq ON eq.id = a.equipment_id")
}

func (r *assignmentRepository) scanRow(row pgx.Row) (*entities.Assignment, error) {
	var a entities.Assignment
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.EquipmentID, &a.AssignedDate, &a.ReturnedDate,
		&a.Notes, &a.ReturnReason, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования assignments: %w", err)
	}
	return &a, nil
}

func (r *assignmentRepository) scanJoinedRow(row pgx.Row) (*entities.Assignment, error) {
	var a entities.Assignment
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.EquipmentID, &a.AssignedDate, &a.ReturnedDate,
		&a.Notes, &a.ReturnReason, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.EmployeeDepartment,
		&a.EquipmentCategory, &a.EquipmentBrand, &a.EquipmentModel, &a.EquipmentSerial,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования assignments: %w", err)
	}
	return &a, nil
}

func (r *assignmentRepository) List(ctx context.Context, filter entities.AssignmentFilter) ([]entities.Assignment, error) {
	b := r.joinedSelect()
	if filter.EmployeeID != nil {
		b = b.Where(sq.Eq{"a.employee_id": *filter.EmployeeID})
	}
	if filter.EquipmentID != nil {
		b = b.Where(sq.Eq{"a.equipment_id": *filter.EquipmentID})
	}
	if filter.OnlyOpen {
		b = b.Where(sq.Eq{"a.returned_date": nil})
	}
	query, args, err := b.OrderBy("a.assigned_date DESC", "a.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса List assignments: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса assignments: %w", err)
	}
	return collect(rows, r.scanJoinedRow)
}

func (r *assignmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Assignment, error) {
	query, args, err := r.joinedSelect().Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для assignments: %w", err)
	}
	return r.scanJoinedRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *assignmentRepository) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Assignment, error) {
	query, args, err := psql.Select(assignmentFields).
		From(entities.AssignmentsTable.Name + " a").
		Where(sq.Eq{"a.id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL LockByID assignments: %w", err)
	}
	return r.scanRow(tx.QueryRow(ctx, query, args...))
}

func (r *assignmentRepository) countOpen(ctx context.Context, q Querier, column string, id uint64) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").
		From(entities.AssignmentsTable.Name).
		Where(sq.Eq{column: id, "returned_date": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса countOpen: %w", err)
	}
	var n int64
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта открытых закреплений: %w", err)
	}
	return n, nil
}

func (r *assignmentRepository) CountOpenByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) (int64, error) {
	return r.countOpen(ctx, r.getQuerier(tx), "equipment_id", equipmentID)
}

func (r *assignmentRepository) CountOpenByEmployee(ctx context.Context, tx pgx.Tx, employeeID uint64) (int64, error) {
	return r.countOpen(ctx, r.getQuerier(tx), "employee_id", employeeID)
}

func (r *assignmentRepository) Create(ctx context.Context, tx pgx.Tx, a entities.Assignment) (uint64, error) {
	query, args, err := psql.Insert(entities.AssignmentsTable.Name).
		Columns("employee_id", "equipment_id", "assigned_date", "notes", "created_at", "updated_at").
		Values(a.EmployeeID, a.EquipmentID, a.AssignedDate, a.Notes, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create assignments: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		code, constraint := pgError(err)
		if code == pgUniqueViolation && constraint == openAssignmentIndex {
			return 0, apperrors.ErrEquipmentAlreadyAssigned
		}
		if code == pgForeignKeyViolation {
			return 0, apperrors.ErrRecordNotFound
		}
		return 0, fmt.Errorf("ошибка создания assignments: %w", err)
	}
	return newID, nil
}

func (r *assignmentRepository) MarkReturned(ctx context.Context, tx pgx.Tx, id uint64, returnedAt time.Time, reason string, notes null.String) error {
	query, args, err := psql.Update(entities.AssignmentsTable.Name).
		Set("returned_date", returnedAt).
		Set("return_reason", reason).
		Set("notes", notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "returned_date": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса MarkReturned: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка возврата assignments: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAssignmentAlreadyReturned
	}
	return nil
}

func (r *assignmentRepository) UpdateNotes(ctx context.Context, tx pgx.Tx, id uint64, notes null.String) error {
	query, args, err := psql.Update(entities.AssignmentsTable.Name).
		Set("notes", notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса UpdateNotes: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления assignments: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}

func (r *assignmentRepository) Stats(ctx context.Context) (*entities.AssignmentStats, error) {
	query, args, err := psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE returned_date IS NULL)",
		"COUNT(*) FILTER (WHERE returned_date IS NOT NULL)",
	).From(entities.AssignmentsTable.Name).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса Stats assignments: %w", err)
	}
	var s entities.AssignmentStats
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&s.Total, &s.Active, &s.Returned); err != nil {
		return nil, fmt.Errorf("ошибка статистики assignments: %w", err)
	}
	return &s, nil
}
