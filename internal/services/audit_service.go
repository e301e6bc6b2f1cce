package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/metrics"
	"inventory-system/pkg/utils"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

// AuditRecorder пишет журнал изменений.
// Запись идёт внутри транзакции изменения (через savepoint): строка журнала
// фиксируется только вместе с изменением. Ошибка записи логируется и не
// прерывает операцию, если не включён строгий режим.
type AuditRecorder interface {
	Record(ctx context.Context, tx pgx.Tx, table string, recordID uint64, action entities.AuditAction, oldValues, newValues interface{}) error
}

type AuditServiceInterface interface {
	AuditRecorder
	GetSystemHistory(ctx context.Context, limit int) ([]dto.AuditLogDTO, error)
	GetTableHistory(ctx context.Context, table string, recordID *uint64) ([]dto.AuditLogDTO, error)
	GetByDateRange(ctx context.Context, startDate, endDate string) ([]dto.AuditLogDTO, error)
	GetByAction(ctx context.Context, action string) ([]dto.AuditLogDTO, error)
	GetStats(ctx context.Context) (*entities.AuditStats, error)
	GetTableStats(ctx context.Context) ([]entities.AuditTableStat, error)
	CleanOldLogs(ctx context.Context, daysToKeep int) (int64, error)
}

type AuditService struct {
	repo     repositories.AuditLogRepositoryInterface
	strict   bool
	location *time.Location
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuditService(
	repo repositories.AuditLogRepositoryInterface,
	strict bool,
	location *time.Location,
	m *metrics.Metrics,
	logger *zap.Logger,
) *AuditService {
	if location == nil {
		location = time.UTC
	}
	return &AuditService{repo: repo, strict: strict, location: location, metrics: m, logger: logger, now: time.Now}
}

func (s *AuditService) Record(ctx context.Context, tx pgx.Tx, table string, recordID uint64, action entities.AuditAction, oldValues, newValues interface{}) error {
	entry, err := BuildAuditEntry(table, recordID, action, oldValues, newValues, utils.GetActorFromCtx(ctx))
	if err == nil {
		err = s.write(ctx, tx, entry)
	}
	if err != nil {
		s.metrics.AuditFailure(table)
		s.logger.Error("Не удалось записать аудит",
			zap.String("table", table),
			zap.Uint64("record_id", recordID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		if s.strict {
			return fmt.Errorf("запись аудита %s/%d: %w", table, recordID, err)
		}
	}
	return nil
}

func (s *AuditService) write(ctx context.Context, tx pgx.Tx, entry entities.AuditLog) error {
	if tx == nil {
		_, err := s.repo.Create(ctx, nil, entry)
		return err
	}
	return repositories.WithSavepoint(ctx, tx, func(sp pgx.Tx) error {
		_, err := s.repo.Create(ctx, sp, entry)
		return err
	})
}

// BuildAuditEntry сериализует old/new в JSON; nil остаётся NULL
func BuildAuditEntry(table string, recordID uint64, action entities.AuditAction, oldValues, newValues interface{}, actor string) (entities.AuditLog, error) {
	if !action.IsValid() {
		return entities.AuditLog{}, fmt.Errorf("недопустимое действие аудита: %q", action)
	}
	oldJSON, err := encodeAuditValues(oldValues)
	if err != nil {
		return entities.AuditLog{}, fmt.Errorf("old_values: %w", err)
	}
	newJSON, err := encodeAuditValues(newValues)
	if err != nil {
		return entities.AuditLog{}, fmt.Errorf("new_values: %w", err)
	}
	if actor == "" {
		actor = utils.SystemActor
	}
	return entities.AuditLog{
		TableName: table,
		RecordID:  recordID,
		Action:    action,
		OldValues: oldJSON,
		NewValues: newJSON,
		UserInfo:  actor,
	}, nil
}

func encodeAuditValues(v interface{}) (null.String, error) {
	if v == nil {
		return null.String{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return null.String{}, err
	}
	if string(raw) == "null" {
		return null.String{}, nil
	}
	return null.StringFrom(string(raw)), nil
}

// DecodeAuditValues разбирает сохранённый JSON. Битая строка не ошибка:
// возвращается {"raw": "..."}.
func DecodeAuditValues(s null.String) interface{} {
	if !s.Valid {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return map[string]interface{}{"raw": s.String}
	}
	return v
}

func decodeUserInfo(s string) interface{} {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") {
		var v map[string]interface{}
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
	}
	return s
}

func ToAuditLogDTO(e entities.AuditLog) dto.AuditLogDTO {
	return dto.AuditLogDTO{
		ID:        e.ID,
		TableName: e.TableName,
		RecordID:  e.RecordID,
		Action:    e.Action,
		OldValues: DecodeAuditValues(e.OldValues),
		NewValues: DecodeAuditValues(e.NewValues),
		UserInfo:  decodeUserInfo(e.UserInfo),
		CreatedAt: e.CreatedAt,
	}
}

func toAuditLogDTOs(list []entities.AuditLog) []dto.AuditLogDTO {
	out := make([]dto.AuditLogDTO, 0, len(list))
	for _, e := range list {
		out = append(out, ToAuditLogDTO(e))
	}
	return out
}

func (s *AuditService) list(ctx context.Context, filter entities.AuditFilter) ([]dto.AuditLogDTO, error) {
	list, _, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка чтения журнала аудита", zap.Error(err))
		return nil, err
	}
	return toAuditLogDTOs(list), nil
}

func (s *AuditService) GetSystemHistory(ctx context.Context, limit int) ([]dto.AuditLogDTO, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.list(ctx, entities.AuditFilter{Limit: uint64(limit)})
}

func (s *AuditService) GetTableHistory(ctx context.Context, table string, recordID *uint64) ([]dto.AuditLogDTO, error) {
	if !entities.IsAuditedTable(table) {
		return nil, apperrors.NewValidationError("Geçersiz tablo adı.", "table="+table)
	}
	return s.list(ctx, entities.AuditFilter{TableName: table, RecordID: recordID, Limit: maxHistoryLimit})
}

// GetByDateRange - обе даты включаются, дни считаются в часовом поясе приложения
func (s *AuditService) GetByDateRange(ctx context.Context, startDate, endDate string) ([]dto.AuditLogDTO, error) {
	from, to, err := utils.ParseDayRange(startDate, endDate, s.location)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, entities.AuditFilter{From: &from, To: &to})
}

func (s *AuditService) GetByAction(ctx context.Context, action string) ([]dto.AuditLogDTO, error) {
	a := entities.AuditAction(strings.ToUpper(strings.TrimSpace(action)))
	if !a.IsValid() {
		return nil, apperrors.NewValidationError("Geçersiz işlem türü. INSERT, UPDATE veya DELETE olmalıdır.", "action="+action)
	}
	return s.list(ctx, entities.AuditFilter{Action: a, Limit: maxHistoryLimit})
}

func (s *AuditService) GetStats(ctx context.Context) (*entities.AuditStats, error) {
	return s.repo.Stats(ctx, entities.AuditFilter{})
}

func (s *AuditService) GetTableStats(ctx context.Context) ([]entities.AuditTableStat, error) {
	return s.repo.TableStats(ctx)
}

// CleanOldLogs удаляет записи старше daysToKeep дней от текущего момента
func (s *AuditService) CleanOldLogs(ctx context.Context, daysToKeep int) (int64, error) {
	if daysToKeep < 1 {
		return 0, apperrors.NewValidationError("Saklama süresi en az 1 gün olmalıdır.")
	}
	cutoff := s.now().AddDate(0, 0, -daysToKeep)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Ошибка очистки журнала аудита", zap.Error(err))
		return 0, err
	}
	s.logger.Info("Журнал аудита очищен",
		zap.Int("days_to_keep", daysToKeep),
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}
