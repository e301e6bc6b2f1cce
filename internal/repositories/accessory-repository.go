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

const accessoryFields = "id, equipment_id, accessory_type, accessory_name, created_at"

type AccessoryRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Accessory, error)
	GetByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.Accessory, error)
	GetByEquipmentIDs(ctx context.Context, equipmentIDs []uint64) (map[uint64][]entities.Accessory, error)
	Create(ctx context.Context, tx pgx.Tx, a entities.Accessory) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, a entities.Accessory) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	TypeStats(ctx context.Context) ([]types.CountStat, error)
}

type accessoryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAccessoryRepository(storage *pgxpool.Pool, logger *zap.Logger) AccessoryRepositoryInterface {
	return &accessoryRepository{storage: storage, logger: logger}
}

func (r *accessoryRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *accessoryRepository) scanRow(row pgx.Row) (*entities.Accessory, error) {
	var a entities.Accessory
	if err := row.Scan(&a.ID, &a.EquipmentID, &a.AccessoryType, &a.AccessoryName, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования equipment_accessories: %w", err)
	}
	return &a, nil
}

func (r *accessoryRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Accessory, error) {
	query, args, err := psql.Select(accessoryFields).
		From(entities.AccessoriesTable.Name).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для equipment_accessories: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *accessoryRepository) GetByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.Accessory, error) {
	query, args, err := psql.Select(accessoryFields).
		From(entities.AccessoriesTable.Name).
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("accessory_type ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса GetByEquipment: %w", err)
	}
	rows, err := r.getQuerier(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса аксессуаров: %w", err)
	}
	return collect(rows, r.scanRow)
}

// GetByEquipmentIDs - аксессуары сразу для многих устройств (для отчётов)
func (r *accessoryRepository) GetByEquipmentIDs(ctx context.Context, equipmentIDs []uint64) (map[uint64][]entities.Accessory, error) {
	result := make(map[uint64][]entities.Accessory, len(equipmentIDs))
	if len(equipmentIDs) == 0 {
		return result, nil
	}
	query, args, err := psql.Select(accessoryFields).
		From(entities.AccessoriesTable.Name).
		Where(sq.Eq{"equipment_id": equipmentIDs}).
		OrderBy("equipment_id ASC", "accessory_type ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса GetByEquipmentIDs: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса аксессуаров: %w", err)
	}
	list, err := collect(rows, r.scanRow)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		result[a.EquipmentID] = append(result[a.EquipmentID], a)
	}
	return result, nil
}

func (r *accessoryRepository) Create(ctx context.Context, tx pgx.Tx, a entities.Accessory) (uint64, error) {
	query, args, err := psql.Insert(entities.AccessoriesTable.Name).
		Columns("equipment_id", "accessory_type", "accessory_name", "created_at").
		Values(a.EquipmentID, a.AccessoryType, a.AccessoryName, sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create equipment_accessories: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		if code, _ := pgError(err); code == pgForeignKeyViolation {
			return 0, apperrors.ErrRecordNotFound
		}
		return 0, fmt.Errorf("ошибка создания equipment_accessories: %w", err)
	}
	return newID, nil
}

func (r *accessoryRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, a entities.Accessory) error {
	query, args, err := psql.Update(entities.AccessoriesTable.Name).
		Set("accessory_type", a.AccessoryType).
		Set("accessory_name", a.AccessoryName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update equipment_accessories: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления equipment_accessories: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}

func (r *accessoryRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByPolicy(ctx, r.getQuerier(tx), entities.AccessoriesTable, id)
}

func (r *accessoryRepository) TypeStats(ctx context.Context) ([]types.CountStat, error) {
	return queryCountStats(ctx, r.storage,
		psql.Select("accessory_type", "COUNT(*)").
			From(entities.AccessoriesTable.Name).
			GroupBy("accessory_type").
			OrderBy("COUNT(*) DESC", "accessory_type ASC"),
	)
}
