package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

const employeeFields = "id, name, email, department, position, mobile_phone, desk_phone, is_active, created_at, updated_at"

var employeeListSpec = listSpec{
	Filters: map[string]string{
		"department": "department",
		"position":   "position",
	},
	SearchColumns: []string{"name", "email", "department", "position"},
	Sorts: map[string]string{
		"id":         "id",
		"name":       "name",
		"department": "department",
		"created_at": "created_at",
	},
	DefaultOrder: []string{"name ASC", "id ASC"},
}

type EmployeeRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error)
	// LockByID - FindByID с блокировкой строки до конца транзакции
	LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error)
	ExistsByEmail(ctx context.Context, tx pgx.Tx, email string, excludeID uint64) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, e entities.Employee) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, e entities.Employee) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	DepartmentStats(ctx context.Context) ([]types.CountStat, error)
}

type employeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &employeeRepository{storage: storage, logger: logger}
}

func (r *employeeRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *employeeRepository) scanRow(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.Department, &e.Position,
		&e.MobilePhone, &e.DeskPhone, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования employees: %w", err)
	}
	return &e, nil
}

func (r *employeeRepository) findOne(ctx context.Context, q Querier, id uint64, lock bool) (*entities.Employee, error) {
	b := psql.Select(employeeFields).
		From(entities.EmployeesTable.Name).
		Where(sq.Eq{"id": id, "is_active": true})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для employees: %w", err)
	}
	return r.scanRow(q.QueryRow(ctx, query, args...))
}

func (r *employeeRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	q := r.storage
	base := employeeListSpec.applyFilter(
		psql.Select().From(entities.EmployeesTable.Name).Where(sq.Eq{"is_active": true}),
		filter,
	)

	total, err := countRows(ctx, q, base.Column("COUNT(*)"))
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Employee{}, 0, nil
	}

	sel := employeeListSpec.applyPage(employeeListSpec.applyOrder(base.Columns(employeeFields), filter), filter)
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса GetAll employees: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка запроса employees: %w", err)
	}
	list, err := collect(rows, r.scanRow)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *employeeRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	return r.findOne(ctx, r.getQuerier(tx), id, false)
}

func (r *employeeRepository) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	return r.findOne(ctx, tx, id, true)
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, tx pgx.Tx, email string, excludeID uint64) (bool, error) {
	b := psql.Select("1").
		From(entities.EmployeesTable.Name).
		Where(sq.Eq{"is_active": true}).
		Where(sq.Expr("LOWER(email) = ?", strings.ToLower(email))).
		Limit(1)
	if excludeID > 0 {
		b = b.Where(sq.NotEq{"id": excludeID})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return false, fmt.Errorf("ошибка сборки запроса ExistsByEmail: %w", err)
	}

	var one int
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка проверки email: %w", err)
	}
	return true, nil
}

func (r *employeeRepository) Create(ctx context.Context, tx pgx.Tx, e entities.Employee) (uint64, error) {
	query, args, err := psql.Insert(entities.EmployeesTable.Name).
		Columns("name", "email", "department", "position", "mobile_phone", "desk_phone", "is_active", "created_at", "updated_at").
		Values(e.Name, e.Email, e.Department, e.Position, e.MobilePhone, e.DeskPhone, true, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create employees: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		if code, _ := pgError(err); code == pgUniqueViolation {
			return 0, apperrors.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("ошибка создания employees: %w", err)
	}
	return newID, nil
}

func (r *employeeRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, e entities.Employee) error {
	query, args, err := psql.Update(entities.EmployeesTable.Name).
		Set("name", e.Name).
		Set("email", e.Email).
		Set("department", e.Department).
		Set("position", e.Position).
		Set("mobile_phone", e.MobilePhone).
		Set("desk_phone", e.DeskPhone).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update employees: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		if code, _ := pgError(err); code == pgUniqueViolation {
			return apperrors.ErrDuplicateEmail
		}
		return fmt.Errorf("ошибка обновления employees: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByPolicy(ctx, r.getQuerier(tx), entities.EmployeesTable, id)
}

func (r *employeeRepository) DepartmentStats(ctx context.Context) ([]types.CountStat, error) {
	return queryCountStats(ctx, r.storage,
		psql.Select("COALESCE(department, 'Belirtilmemiş')", "COUNT(*)").
			From(entities.EmployeesTable.Name).
			Where(sq.Eq{"is_active": true}).
			GroupBy("department").
			OrderBy("COUNT(*) DESC"),
	)
}
