package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Querier - общее между *pgxpool.Pool и pgx.Tx
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgError возвращает код и имя ограничения, если err пришла от Postgres
func pgError(err error) (code string, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// listSpec - белые списки для фильтрации, поиска и сортировки (защита от SQL Injection)
type listSpec struct {
	Filters       map[string]string
	SearchColumns []string
	Sorts         map[string]string
	DefaultOrder  []string
}

func (s listSpec) applyFilter(b sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	for key, raw := range filter.Filter {
		column, ok := s.Filters[key]
		if !ok {
			continue
		}
		value := fmt.Sprint(raw)
		if strings.Contains(value, ",") {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			b = b.Where(sq.Eq{column: parts})
			continue
		}
		b = b.Where(sq.Eq{column: value})
	}

	if filter.Search != "" && len(s.SearchColumns) > 0 {
		pattern := "%" + filter.Search + "%"
		or := sq.Or{}
		for _, col := range s.SearchColumns {
			or = append(or, sq.ILike{col: pattern})
		}
		b = b.Where(or)
	}
	return b
}

func (s listSpec) applyOrder(b sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	var order []string
	for field, direction := range filter.Sort {
		if column, ok := s.Sorts[field]; ok {
			order = append(order, column+" "+strings.ToUpper(direction))
		}
	}
	if len(order) == 0 {
		order = s.DefaultOrder
	}
	return b.OrderBy(order...)
}

func (s listSpec) applyPage(b sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	if filter.WithPagination && filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	return b
}

func countRows(ctx context.Context, q Querier, b sq.SelectBuilder) (uint64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса подсчёта: %w", err)
	}
	var total uint64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта записей: %w", err)
	}
	return total, nil
}

// collect сканирует все строки выборки функцией scan
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]T, error) {
	defer rows.Close()
	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return items, nil
}

func queryCountStats(ctx context.Context, q Querier, b sq.SelectBuilder) ([]types.CountStat, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса статистики: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса статистики: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*types.CountStat, error) {
		var s types.CountStat
		if err := row.Scan(&s.Key, &s.Count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования статистики: %w", err)
		}
		return &s, nil
	})
}

// deleteByPolicy удаляет запись так, как требует политика таблицы
func deleteByPolicy(ctx context.Context, q Querier, meta entities.TableMeta, id uint64) error {
	var (
		query string
		args  []interface{}
		err   error
	)
	switch meta.Deletion {
	case entities.SoftDelete:
		query, args, err = psql.Update(meta.Name).
			Set("is_active", false).
			Set("updated_at", sq.Expr("NOW()")).
			Where(sq.Eq{"id": id, "is_active": true}).
			ToSql()
	case entities.HardDelete:
		query, args, err = psql.Delete(meta.Name).Where(sq.Eq{"id": id}).ToSql()
	default:
		return fmt.Errorf("удаление из %s запрещено политикой %s", meta.Name, meta.Deletion)
	}
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса удаления %s: %w", meta.Name, err)
	}

	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		if code, _ := pgError(err); code == pgForeignKeyViolation {
			return fmt.Errorf("запись %s используется: %w", meta.Name, apperrors.ErrConflict)
		}
		return fmt.Errorf("ошибка удаления из %s: %w", meta.Name, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}
