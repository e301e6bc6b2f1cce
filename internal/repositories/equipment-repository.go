package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

const equipmentFields = "id, category, serial_number, brand, model, status, description, wifi_mac, lan_mac, cpu, gpu, ram, storage, is_active, created_at, updated_at"

var equipmentListSpec = listSpec{
	Filters: map[string]string{
		"category": "category",
		"status":   "status",
		"brand":    "brand",
	},
	SearchColumns: []string{"serial_number", "brand", "model", "description"},
	Sorts: map[string]string{
		"id":         "id",
		"category":   "category",
		"brand":      "brand",
		"model":      "model",
		"status":     "status",
		"created_at": "created_at",
	},
	DefaultOrder: []string{"category ASC", "brand ASC", "model ASC", "id ASC"},
}

type EquipmentRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	// LockByID берёт SELECT ... FOR UPDATE: все изменения закреплений по одному устройству идут строго по очереди
	LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	FindBySerialNumber(ctx context.Context, tx pgx.Tx, serial string, excludeID uint64) (*entities.Equipment, error)
	Create(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, e entities.Equipment) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.EquipmentStatus) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	CategoryStats(ctx context.Context) ([]types.CountStat, error)
	StatusStats(ctx context.Context) ([]types.CountStat, error)
}

type equipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &equipmentRepository{storage: storage, logger: logger}
}

func (r *equipmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *equipmentRepository) scanRow(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	var status string
	err := row.Scan(
		&e.ID, &e.Category, &e.SerialNumber, &e.Brand, &e.Model, &status, &e.Description,
		&e.WifiMac, &e.LanMac, &e.CPU, &e.GPU, &e.RAM, &e.Storage, &e.IsActive,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования equipment: %w", err)
	}
	e.Status = entities.EquipmentStatus(status)
	return &e, nil
}

func (r *equipmentRepository) findOne(ctx context.Context, q Querier, where sq.Sqlizer, lock bool) (*entities.Equipment, error) {
	b := psql.Select(equipmentFields).From(entities.EquipmentTable.Name).Where(where).Limit(1)
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для equipment: %w", err)
	}
	return r.scanRow(q.QueryRow(ctx, query, args...))
}

func (r *equipmentRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	q := r.storage
	base := equipmentListSpec.applyFilter(
		psql.Select().From(entities.EquipmentTable.Name).Where(sq.Eq{"is_active": true}),
		filter,
	)

	total, err := countRows(ctx, q, base.Column("COUNT(*)"))
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Equipment{}, 0, nil
	}

	sel := equipmentListSpec.applyPage(equipmentListSpec.applyOrder(base.Columns(equipmentFields), filter), filter)
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса GetAll equipment: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка запроса equipment: %w", err)
	}
	list, err := collect(rows, r.scanRow)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *equipmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"id": id, "is_active": true}, false)
}

func (r *equipmentRepository) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.findOne(ctx, tx, sq.Eq{"id": id, "is_active": true}, true)
}

func (r *equipmentRepository) FindBySerialNumber(ctx context.Context, tx pgx.Tx, serial string, excludeID uint64) (*entities.Equipment, error) {
	where := sq.And{sq.Eq{"serial_number": serial, "is_active": true}}
	if excludeID > 0 {
		where = append(where, sq.NotEq{"id": excludeID})
	}
	return r.findOne(ctx, r.getQuerier(tx), where, false)
}

func (r *equipmentRepository) Create(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error) {
	query, args, err := psql.Insert(entities.EquipmentTable.Name).
		Columns("category", "serial_number", "brand", "model", "status", "description",
			"wifi_mac", "lan_mac", "cpu", "gpu", "ram", "storage", "is_active", "created_at", "updated_at").
		Values(e.Category, e.SerialNumber, e.Brand, e.Model, string(e.Status), e.Description,
			e.WifiMac, e.LanMac, e.CPU, e.GPU, e.RAM, e.Storage, true, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create equipment: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, fmt.Errorf("ошибка создания equipment: %w", err)
	}
	return newID, nil
}

// Update не трогает status
func (r *equipmentRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, e entities.Equipment) error {
	query, args, err := psql.Update(entities.EquipmentTable.Name).
		SetMap(map[string]interface{}{
			"category":      e.Category,
			"serial_number": e.SerialNumber,
			"brand":         e.Brand,
			"model":         e.Model,
			"description":   e.Description,
			"wifi_mac":      e.WifiMac,
			"lan_mac":       e.LanMac,
			"cpu":           e.CPU,
			"gpu":           e.GPU,
			"ram":           e.RAM,
			"storage":       e.Storage,
			"updated_at":    sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update equipment: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления equipment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}

func (r *equipmentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.EquipmentStatus) error {
	query, args, err := psql.Update(entities.EquipmentTable.Name).
		Set("status", string(status)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса UpdateStatus: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса equipment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}

func (r *equipmentRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByPolicy(ctx, r.getQuerier(tx), entities.EquipmentTable, id)
}

func (r *equipmentRepository) CategoryStats(ctx context.Context) ([]types.CountStat, error) {
	return queryCountStats(ctx, r.storage,
		psql.Select("category", "COUNT(*)").
			From(entities.EquipmentTable.Name).
			Where(sq.Eq{"is_active": true}).
			GroupBy("category").
			OrderBy("COUNT(*) DESC", "category ASC"),
	)
}

func (r *equipmentRepository) StatusStats(ctx context.Context) ([]types.CountStat, error) {
	return queryCountStats(ctx, r.storage,
		psql.Select("status", "COUNT(*)").
			From(entities.EquipmentTable.Name).
			Where(sq.Eq{"is_active": true}).
			GroupBy("status").
			OrderBy("status ASC"),
	)
}
