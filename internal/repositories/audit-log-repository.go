package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
)

const auditFields = "id, table_name, record_id, action, old_values, new_values, user_info, created_at"

type AuditLogRepositoryInterface interface {
	// Create - единственная операция записи; журнал только дополняется
	Create(ctx context.Context, tx pgx.Tx, entry entities.AuditLog) (uint64, error)
	List(ctx context.Context, filter entities.AuditFilter) ([]entities.AuditLog, uint64, error)
	Stats(ctx context.Context, filter entities.AuditFilter) (*entities.AuditStats, error)
	TableStats(ctx context.Context) ([]entities.AuditTableStat, error)
	DailyStats(ctx context.Context, since time.Time, loc *time.Location) ([]entities.AuditDailyStat, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAuditLogRepository(storage *pgxpool.Pool, logger *zap.Logger) AuditLogRepositoryInterface {
	return &auditLogRepository{storage: storage, logger: logger}
}

func (r *auditLogRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func applyAuditFilter(b sq.SelectBuilder, f entities.AuditFilter) sq.SelectBuilder {
	if f.TableName != "" {
		b = b.Where(sq.Eq{"table_name": f.TableName})
	}
	if f.RecordID != nil {
		b = b.Where(sq.Eq{"record_id": *f.RecordID})
	}
	if f.Action != "" {
		b = b.Where(sq.Eq{"action": string(f.Action)})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.Lt{"created_at": *f.To})
	}
	return b
}

func (r *auditLogRepository) scanRow(row pgx.Row) (*entities.AuditLog, error) {
	var e entities.AuditLog
	var action string
	if err := row.Scan(&e.ID, &e.TableName, &e.RecordID, &action, &e.OldValues, &e.NewValues, &e.UserInfo, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("ошибка сканирования audit_log: %w", err)
	}
	e.Action = entities.AuditAction(action)
	return &e, nil
}

func (r *auditLogRepository) Create(ctx context.Context, tx pgx.Tx, entry entities.AuditLog) (uint64, error) {
	query, args, err := psql.Insert(entities.AuditLogTable.Name).
		Columns("table_name", "record_id", "action", "old_values", "new_values", "user_info", "created_at").
		Values(entry.TableName, entry.RecordID, string(entry.Action), entry.OldValues, entry.NewValues, entry.UserInfo, sq.Expr("clock_timestamp()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create audit_log: %w", err)
	}

	var id uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("ошибка записи audit_log: %w", err)
	}
	return id, nil
}

// List - записи от новых к старым
func (r *auditLogRepository) List(ctx context.Context, filter entities.AuditFilter) ([]entities.AuditLog, uint64, error) {
	base := applyAuditFilter(psql.Select().From(entities.AuditLogTable.Name), filter)

	total, err := countRows(ctx, r.storage, base.Column("COUNT(*)"))
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.AuditLog{}, 0, nil
	}

	sel := base.Columns(auditFields).OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		sel = sel.Limit(filter.Limit).Offset(filter.Offset)
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса List audit_log: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка запроса audit_log: %w", err)
	}
	list, err := collect(rows, r.scanRow)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *auditLogRepository) Stats(ctx context.Context, filter entities.AuditFilter) (*entities.AuditStats, error) {
	query, args, err := applyAuditFilter(psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE action = 'INSERT')",
		"COUNT(*) FILTER (WHERE action = 'UPDATE')",
		"COUNT(*) FILTER (WHERE action = 'DELETE')",
		"COUNT(DISTINCT table_name)",
	).From(entities.AuditLogTable.Name), filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса Stats audit_log: %w", err)
	}
	var s entities.AuditStats
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&s.Total, &s.Inserts, &s.Updates, &s.Deletes, &s.TableCount); err != nil {
		return nil, fmt.Errorf("ошибка статистики audit_log: %w", err)
	}
	return &s, nil
}

func (r *auditLogRepository) TableStats(ctx context.Context) ([]entities.AuditTableStat, error) {
	query, args, err := psql.Select("table_name", "COUNT(*)", "MAX(created_at)").
		From(entities.AuditLogTable.Name).
		GroupBy("table_name").
		OrderBy("COUNT(*) DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса TableStats: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса TableStats: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*entities.AuditTableStat, error) {
		var s entities.AuditTableStat
		if err := row.Scan(&s.TableName, &s.Count, &s.LastChange); err != nil {
			return nil, fmt.Errorf("ошибка сканирования TableStats: %w", err)
		}
		return &s, nil
	})
}

// DailyStats группирует записи по календарным дням часового пояса loc
func (r *auditLogRepository) DailyStats(ctx context.Context, since time.Time, loc *time.Location) ([]entities.AuditDailyStat, error) {
	if loc == nil {
		loc = time.UTC
	}
	day := sq.Expr("to_char(created_at AT TIME ZONE ?, 'YYYY-MM-DD')", loc.String())
	query, args, err := psql.Select().
		Column(sq.Alias(day, "day")).
		Columns(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE action = 'INSERT')",
			"COUNT(*) FILTER (WHERE action = 'UPDATE')",
			"COUNT(*) FILTER (WHERE action = 'DELETE')",
		).
		From(entities.AuditLogTable.Name).
		Where(sq.GtOrEq{"created_at": since}).
		GroupBy("day").
		OrderBy("day DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса DailyStats: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса DailyStats: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*entities.AuditDailyStat, error) {
		var s entities.AuditDailyStat
		if err := row.Scan(&s.Day, &s.Total, &s.Inserts, &s.Updates, &s.Deletes); err != nil {
			return nil, fmt.Errorf("ошибка сканирования DailyStats: %w", err)
		}
		return &s, nil
	})
}

func (r *auditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := psql.Delete(entities.AuditLogTable.Name).
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса DeleteOlderThan: %w", err)
	}
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки audit_log: %w", err)
	}
	return result.RowsAffected(), nil
}
