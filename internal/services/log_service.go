package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
	statsFallback   = 30
)

const (
	ExportJSON = "json"
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

type LogServiceInterface interface {
	GetLogs(ctx context.Context, query dto.LogQueryDTO) (*dto.LogPageDTO, error)
	GetStatistics(ctx context.Context, period string) ([]entities.AuditDailyStat, error)
	Export(ctx context.Context, logType, date, format string) (*dto.ReportFile, error)
}

type LogService struct {
	repo     repositories.AuditLogRepositoryInterface
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewLogService(repo repositories.AuditLogRepositoryInterface, location *time.Location, logger *zap.Logger) *LogService {
	if location == nil {
		location = time.UTC
	}
	return &LogService{repo: repo, location: location, logger: logger, now: time.Now}
}

// buildFilter переводит параметры type/date в фильтр журнала
func (s *LogService) buildFilter(logType, date string) (entities.AuditFilter, error) {
	var filter entities.AuditFilter

	logType = strings.TrimSpace(logType)
	if logType != "" && logType != "all" {
		if !entities.IsAuditedTable(logType) {
			return filter, apperrors.NewValidationError("Geçersiz log türü.", "type="+logType)
		}
		filter.TableName = logType
	}

	date = strings.TrimSpace(date)
	if date != "" && date != "all" {
		from, ok := utils.PeriodStart(date, s.now().In(s.location))
		if !ok {
			return filter, apperrors.NewValidationError("Geçersiz tarih filtresi. today, week, month veya all olmalıdır.", "date="+date)
		}
		filter.From = &from
	}
	return filter, nil
}

func (s *LogService) GetLogs(ctx context.Context, query dto.LogQueryDTO) (*dto.LogPageDTO, error) {
	filter, err := s.buildFilter(query.Type, query.Date)
	if err != nil {
		return nil, err
	}

	page, limit := query.Page, query.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	if page > utils.MaxPage {
		page = utils.MaxPage
	}
	filter.Limit = uint64(limit)
	filter.Offset = uint64((page - 1) * limit)

	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка чтения журнала", zap.Error(err))
		return nil, err
	}

	statsFilter := filter
	statsFilter.Limit, statsFilter.Offset = 0, 0
	stats, err := s.repo.Stats(ctx, statsFilter)
	if err != nil {
		s.logger.Error("Ошибка статистики журнала", zap.Error(err))
		return nil, err
	}

	return &dto.LogPageDTO{
		Logs:       toAuditLogDTOs(list),
		Pagination: types.NewPagination(total, page, limit),
		Statistics: *stats,
	}, nil
}

// GetStatistics - количество записей по дням; "all" означает последние 30 дней
func (s *LogService) GetStatistics(ctx context.Context, period string) ([]entities.AuditDailyStat, error) {
	now := s.now().In(s.location)
	if period == "" {
		period = "week"
	}
	since, ok := utils.PeriodStart(period, now)
	if !ok {
		if period != "all" {
			return nil, apperrors.NewValidationError("Geçersiz dönem. today, week, month veya all olmalıdır.", "period="+period)
		}
		since = now.AddDate(0, 0, -statsFallback)
	}
	return s.repo.DailyStats(ctx, since, s.location)
}

func (s *LogService) Export(ctx context.Context, logType, date, format string) (*dto.ReportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportJSON
	}
	if format != ExportJSON && format != ExportCSV && format != ExportXLSX {
		return nil, apperrors.NewValidationError("Geçersiz dışa aktarma formatı. json, csv veya xlsx olmalıdır.", "format="+format)
	}

	filter, err := s.buildFilter(logType, date)
	if err != nil {
		return nil, err
	}
	list, _, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка выгрузки журнала", zap.Error(err))
		return nil, err
	}

	name := "audit_logs_" + s.now().In(s.location).Format(utils.DateLayout)
	var file *dto.ReportFile
	switch format {
	case ExportCSV:
		file, err = s.exportCSV(name, list)
	case ExportXLSX:
		file, err = s.exportXLSX(name, list)
	default:
		file, err = exportJSON(name, list)
	}
	if err != nil {
		s.logger.Error("Ошибка формирования файла журнала", zap.String("format", format), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Журнал выгружен", zap.String("format", format), zap.Int("count", len(list)))
	return file, nil
}

var exportHeaders = []string{"Tarih", "İşlem Türü", "İşlem", "Kayıt ID", "Kullanıcı Bilgisi", "Eski Değerler", "Yeni Değerler"}

func (s *LogService) exportRow(e entities.AuditLog) []string {
	return []string{
		utils.FormatLocal(e.CreatedAt, s.location),
		e.TableName,
		string(e.Action),
		fmt.Sprint(e.RecordID),
		describeActor(e.UserInfo),
		e.OldValues.String,
		e.NewValues.String,
	}
}

// describeActor - "IP: ..., User-Agent: ..." для JSON-актора, иначе строка как есть
func describeActor(userInfo string) string {
	info, ok := decodeUserInfo(userInfo).(map[string]interface{})
	if !ok {
		return userInfo
	}
	return fmt.Sprintf("IP: %v, User-Agent: %v", valueOrEmpty(info["ip"]), valueOrEmpty(info["userAgent"]))
}

func valueOrEmpty(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	return v
}

func (s *LogService) exportCSV(name string, list []entities.AuditLog) (*dto.ReportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, e := range list {
		if err := w.Write(s.exportRow(e)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &dto.ReportFile{FileName: name + ".csv", ContentType: "text/csv; charset=utf-8", Content: buf.Bytes()}, nil
}

func (s *LogService) exportXLSX(name string, list []entities.AuditLog) (*dto.ReportFile, error) {
	headers := make([]interface{}, 0, len(exportHeaders))
	for _, h := range exportHeaders {
		headers = append(headers, h)
	}
	rows := make([][]interface{}, 0, len(list))
	for _, e := range list {
		cells := s.exportRow(e)
		row := make([]interface{}, 0, len(cells))
		for _, c := range cells {
			row = append(row, c)
		}
		rows = append(rows, row)
	}
	content, err := buildWorkbook("Loglar", headers, rows)
	if err != nil {
		return nil, err
	}
	return &dto.ReportFile{FileName: name + ".xlsx", ContentType: dto.XLSXContentType, Content: content}, nil
}

func exportJSON(name string, list []entities.AuditLog) (*dto.ReportFile, error) {
	content, err := json.MarshalIndent(toAuditLogDTOs(list), "", "  ")
	if err != nil {
		return nil, err
	}
	return &dto.ReportFile{FileName: name + ".json", ContentType: "application/json", Content: content}, nil
}
