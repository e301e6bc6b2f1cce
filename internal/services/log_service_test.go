package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

var logNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newLogTestService(t *testing.T) (*LogService, *fakeAuditRepo) {
	t.Helper()
	store := newMemStore()
	repo := &fakeAuditRepo{memStore: store}
	store.audit = []entities.AuditLog{
		{ID: 1, TableName: "employees", RecordID: 1, Action: entities.AuditInsert,
			NewValues: null.StringFrom(`{"name":"Ayşe"}`), UserInfo: `{"ip":"10.0.0.5","userAgent":"Mozilla"}`,
			CreatedAt: logNow.AddDate(0, 0, -40)},
		{ID: 2, TableName: "equipment", RecordID: 3, Action: entities.AuditInsert,
			NewValues: null.StringFrom(`{"category":"Laptop"}`), UserInfo: "System",
			CreatedAt: logNow.AddDate(0, 0, -3)},
		{ID: 3, TableName: "assignments", RecordID: 9, Action: entities.AuditUpdate,
			OldValues: null.StringFrom(`{"notes":null}`), NewValues: null.StringFrom(`{"notes":"x"}`), UserInfo: "System",
			CreatedAt: logNow.Add(-time.Hour)},
	}
	svc := NewLogService(repo, time.UTC, zap.NewNop())
	svc.now = func() time.Time { return logNow }
	return svc, repo
}

func TestGetLogs(t *testing.T) {
	ctx := context.Background()
	svc, repo := newLogTestService(t)

	page, err := svc.GetLogs(ctx, dto.LogQueryDTO{})
	require.NoError(t, err)
	assert.Len(t, page.Logs, 3)
	assert.EqualValues(t, 3, page.Statistics.Total)
	assert.EqualValues(t, defaultLogLimit, repo.lastFilter.Limit)

	page, err = svc.GetLogs(ctx, dto.LogQueryDTO{Date: "week"})
	require.NoError(t, err)
	assert.Len(t, page.Logs, 2)
	assert.EqualValues(t, 2, page.Statistics.Total)

	page, err = svc.GetLogs(ctx, dto.LogQueryDTO{Type: "equipment", Date: "all"})
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)
	assert.Equal(t, "equipment", page.Logs[0].TableName)

	page, err = svc.GetLogs(ctx, dto.LogQueryDTO{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Logs, 1)
	assert.EqualValues(t, 2, page.Statistics.Inserts)

	_, err = svc.GetLogs(ctx, dto.LogQueryDTO{Limit: 1000})
	require.NoError(t, err)
	assert.EqualValues(t, maxLogLimit, repo.lastFilter.Limit)

	page, err = svc.GetLogs(ctx, dto.LogQueryDTO{Page: math.MaxInt, Limit: maxLogLimit})
	require.NoError(t, err)
	assert.Empty(t, page.Logs)
	assert.EqualValues(t, (utils.MaxPage-1)*maxLogLimit, repo.lastFilter.Offset)

	_, err = svc.GetLogs(ctx, dto.LogQueryDTO{Type: "users"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = svc.GetLogs(ctx, dto.LogQueryDTO{Date: "yesterday"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetStatistics(t *testing.T) {
	ctx := context.Background()
	svc, repo := newLogTestService(t)

	_, err := svc.GetStatistics(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.From)
	assert.Equal(t, logNow.AddDate(0, 0, -7), *repo.lastFilter.From)

	_, err = svc.GetStatistics(ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, logNow.AddDate(0, 0, -30), *repo.lastFilter.From)

	_, err = svc.GetStatistics(ctx, "today")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *repo.lastFilter.From)

	_, err = svc.GetStatistics(ctx, "year")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLogTestService(t)

	t.Run("json", func(t *testing.T) {
		file, err := svc.Export(ctx, "all", "all", "")
		require.NoError(t, err)
		assert.Equal(t, "audit_logs_2024-03-15.json", file.FileName)
		var logs []map[string]interface{}
		require.NoError(t, json.Unmarshal(file.Content, &logs))
		assert.Len(t, logs, 3)
	})

	t.Run("csv", func(t *testing.T) {
		file, err := svc.Export(ctx, "employees", "all", "CSV")
		require.NoError(t, err)
		assert.Equal(t, "audit_logs_2024-03-15.csv", file.FileName)
		records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, exportHeaders, records[0])
		assert.Equal(t, "employees", records[1][1])
		assert.Equal(t, "IP: 10.0.0.5, User-Agent: Mozilla", records[1][4])
		assert.Equal(t, `{"name":"Ayşe"}`, records[1][6])
	})

	t.Run("xlsx", func(t *testing.T) {
		file, err := svc.Export(ctx, "all", "today", "xlsx")
		require.NoError(t, err)
		assert.Equal(t, dto.XLSXContentType, file.ContentType)
		book, err := excelize.OpenReader(bytes.NewReader(file.Content))
		require.NoError(t, err)
		defer book.Close()
		rows, err := book.GetRows("Loglar")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "assignments", rows[1][1])
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := svc.Export(ctx, "all", "all", "pdf")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestDescribeActor(t *testing.T) {
	assert.Equal(t, "System", describeActor("System"))
	assert.Equal(t, "IP: 1.2.3.4, User-Agent: ", describeActor(`{"ip":"1.2.3.4"}`))
}
