package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

// maxReportAccessories - число пар колонок "тип/название" аксессуаров в отчётах
const maxReportAccessories = 10

const (
	EmployeesSheet   = "Çalışan Listesi"
	EquipmentSheet   = "Donanım Listesi"
	AssignmentsSheet = "Zimmet Listesi"
)

type ReportServiceInterface interface {
	EmployeesReport(ctx context.Context) (*dto.ReportFile, error)
	EquipmentReport(ctx context.Context) (*dto.ReportFile, error)
	AssignmentsReport(ctx context.Context) (*dto.ReportFile, error)
}

type reportService struct {
	employeeRepo   repositories.EmployeeRepositoryInterface
	equipmentRepo  repositories.EquipmentRepositoryInterface
	accessoryRepo  repositories.AccessoryRepositoryInterface
	assignmentRepo repositories.AssignmentRepositoryInterface
	location       *time.Location
	logger         *zap.Logger
}

func NewReportService(
	employeeRepo repositories.EmployeeRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	accessoryRepo repositories.AccessoryRepositoryInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	location *time.Location,
	logger *zap.Logger,
) ReportServiceInterface {
	if location == nil {
		location = time.UTC
	}
	return &reportService{
		employeeRepo:   employeeRepo,
		equipmentRepo:  equipmentRepo,
		accessoryRepo:  accessoryRepo,
		assignmentRepo: assignmentRepo,
		location:       location,
		logger:         logger,
	}
}

// без пагинации - выгружаем всё
var allRows = types.Filter{WithPagination: false}

func accessoryHeaders() []interface{} {
	headers := make([]interface{}, 0, maxReportAccessories*2)
	for i := 1; i <= maxReportAccessories; i++ {
		headers = append(headers, fmt.Sprintf("Aksesuar %d Türü", i), fmt.Sprintf("Aksesuar %d Adı", i))
	}
	return headers
}

func accessoryCells(list []entities.Accessory) []interface{} {
	cells := make([]interface{}, 0, maxReportAccessories*2)
	for i := 0; i < maxReportAccessories; i++ {
		if i < len(list) {
			cells = append(cells, list[i].AccessoryType, list[i].AccessoryName)
		} else {
			cells = append(cells, "", "")
		}
	}
	return cells
}

func (s *reportService) formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return utils.FormatLocal(*t, s.location)
}

func (s *reportService) formatNullTime(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return utils.FormatLocal(t.Time, s.location)
}

func yesNo(v bool) string {
	if v {
		return "Evet"
	}
	return "Hayır"
}

// buildWorkbook пишет один лист: жирная шапка и строки данных
func buildWorkbook(sheet string, headers []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, style); err != nil {
		return nil, err
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return nil, err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 20); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *reportService) EmployeesReport(ctx context.Context) (*dto.ReportFile, error) {
	employees, _, err := s.employeeRepo.GetAll(ctx, allRows)
	if err != nil {
		s.logger.Error("Ошибка выборки сотрудников для отчёта", zap.Error(err))
		return nil, err
	}

	headers := []interface{}{
		"ID", "Ad Soyad", "E-posta", "Departman", "Pozisyon",
		"Cep Telefonu", "Masa Telefonu", "Kayıt Tarihi", "Güncelleme Tarihi",
	}
	rows := make([][]interface{}, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []interface{}{
			e.ID, e.Name, e.Email.String, e.Department.String, e.Position.String,
			e.MobilePhone.String, e.DeskPhone.String, s.formatTime(e.CreatedAt), s.formatTime(e.UpdatedAt),
		})
	}

	content, err := buildWorkbook(EmployeesSheet, headers, rows)
	if err != nil {
		s.logger.Error("Ошибка формирования отчёта по сотрудникам", zap.Error(err))
		return nil, err
	}
	return &dto.ReportFile{FileName: "calisan_listesi.xlsx", ContentType: dto.XLSXContentType, Content: content}, nil
}

func (s *reportService) EquipmentReport(ctx context.Context) (*dto.ReportFile, error) {
	equipment, _, err := s.equipmentRepo.GetAll(ctx, allRows)
	if err != nil {
		s.logger.Error("Ошибка выборки оборудования для отчёта", zap.Error(err))
		return nil, err
	}
	ids := make([]uint64, 0, len(equipment))
	for _, e := range equipment {
		ids = append(ids, e.ID)
	}
	accessories, err := s.accessoryRepo.GetByEquipmentIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Ошибка выборки аксессуаров для отчёта", zap.Error(err))
		return nil, err
	}

	headers := append([]interface{}{
		"ID", "Kategori", "Marka", "Model", "Seri Numarası", "Durum",
		"WiFi MAC", "LAN MAC", "CPU", "GPU", "RAM", "Depolama", "Açıklama", "Aktif",
		"Kayıt Tarihi", "Güncelleme Tarihi",
	}, accessoryHeaders()...)
	rows := make([][]interface{}, 0, len(equipment))
	for _, e := range equipment {
		row := []interface{}{
			e.ID, e.Category, e.Brand.String, e.Model.String, e.SerialNumber.String, e.Status.Label(),
			e.WifiMac.String, e.LanMac.String, e.CPU.String, e.GPU.String, e.RAM.String, e.Storage.String,
			e.Description.String, yesNo(e.IsActive), s.formatTime(e.CreatedAt), s.formatTime(e.UpdatedAt),
		}
		rows = append(rows, append(row, accessoryCells(accessories[e.ID])...))
	}

	content, err := buildWorkbook(EquipmentSheet, headers, rows)
	if err != nil {
		s.logger.Error("Ошибка формирования отчёта по оборудованию", zap.Error(err))
		return nil, err
	}
	return &dto.ReportFile{FileName: "donanim_listesi.xlsx", ContentType: dto.XLSXContentType, Content: content}, nil
}

func (s *reportService) AssignmentsReport(ctx context.Context) (*dto.ReportFile, error) {
	assignments, err := s.assignmentRepo.List(ctx, entities.AssignmentFilter{})
	if err != nil {
		s.logger.Error("Ошибка выборки закреплений для отчёта", zap.Error(err))
		return nil, err
	}
	seen := make(map[uint64]struct{}, len(assignments))
	ids := make([]uint64, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.EquipmentID]; !ok {
			seen[a.EquipmentID] = struct{}{}
			ids = append(ids, a.EquipmentID)
		}
	}
	accessories, err := s.accessoryRepo.GetByEquipmentIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Ошибка выборки аксессуаров для отчёта", zap.Error(err))
		return nil, err
	}

	headers := append([]interface{}{
		"Atama ID", "Çalışan Adı", "Çalışan Departmanı", "Donanım Kategorisi", "Donanım Marka",
		"Donanım Model", "Donanım Seri No", "Atama Tarihi", "İade Tarihi", "Durum", "Notlar",
		"İade Nedeni", "Kayıt Tarihi", "Güncelleme Tarihi",
	}, accessoryHeaders()...)
	rows := make([][]interface{}, 0, len(assignments))
	for _, a := range assignments {
		returned, status := "Aktif", "Aktif"
		if !a.IsOpen() {
			returned, status = s.formatNullTime(a.ReturnedDate), "İade Edildi"
		}
		row := []interface{}{
			a.ID, a.EmployeeName.String, a.EmployeeDepartment.String, a.EquipmentCategory.String,
			a.EquipmentBrand.String, a.EquipmentModel.String, a.EquipmentSerial.String,
			utils.FormatLocal(a.AssignedDate, s.location), returned, status, a.Notes.String,
			a.ReturnReason.String, s.formatTime(a.CreatedAt), s.formatTime(a.UpdatedAt),
		}
		rows = append(rows, append(row, accessoryCells(accessories[a.EquipmentID])...))
	}

	content, err := buildWorkbook(AssignmentsSheet, headers, rows)
	if err != nil {
		s.logger.Error("Ошибка формирования отчёта по закреплениям", zap.Error(err))
		return nil, err
	}
	return &dto.ReportFile{FileName: "zimmet_listesi.xlsx", ContentType: dto.XLSXContentType, Content: content}, nil
}
