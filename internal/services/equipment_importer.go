package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

// Колонки распознаются по заголовкам листа "Donanım Listesi",
// поэтому выгруженный отчёт можно загрузить обратно.
var importColumns = map[string]string{
	"kategori":      "category",
	"marka":         "brand",
	"model":         "model",
	"seri numarası": "serial_number",
	"wifi mac":      "wifi_mac",
	"lan mac":       "lan_mac",
	"cpu":           "cpu",
	"gpu":           "gpu",
	"ram":           "ram",
	"depolama":      "storage",
	"açıklama":      "description",
}

type EquipmentImporterInterface interface {
	Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error)
}

// EquipmentImporter проверяет строки теми же правилами validate, что и HTTP-запросы
type EquipmentImporter struct {
	equipmentService EquipmentServiceInterface
	validate         *validator.Validate
	logger           *zap.Logger
}

func NewEquipmentImporter(equipmentService EquipmentServiceInterface, validate *validator.Validate, logger *zap.Logger) *EquipmentImporter {
	return &EquipmentImporter{equipmentService: equipmentService, validate: validate, logger: logger}
}

type importLayout struct {
	headerRow   int
	columns     map[string]int
	accessories [][2]int
}

// findLayout ищет строку заголовков: в ней должна быть колонка "Kategori"
func findLayout(rows [][]string) (*importLayout, error) {
	for rIdx, row := range rows {
		layout := &importLayout{headerRow: rIdx, columns: map[string]int{}}
		types := map[int]int{}
		names := map[int]int{}
		for cIdx, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if field, ok := importColumns[name]; ok {
				layout.columns[field] = cIdx
				continue
			}
			var n int
			if _, err := fmt.Sscanf(name, "aksesuar %d türü", &n); err == nil {
				types[n] = cIdx
			} else if _, err := fmt.Sscanf(name, "aksesuar %d adı", &n); err == nil {
				names[n] = cIdx
			}
		}
		if _, ok := layout.columns["category"]; !ok {
			continue
		}
		for n := 1; ; n++ {
			t, okT := types[n]
			nm, okN := names[n]
			if !okT || !okN {
				break
			}
			layout.accessories = append(layout.accessories, [2]int{t, nm})
		}
		return layout, nil
	}
	return nil, fmt.Errorf("не найдена строка заголовков с колонкой 'Kategori'")
}

func sheetCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (l *importLayout) payload(row []string) dto.CreateEquipmentDTO {
	get := func(field string) string {
		idx, ok := l.columns[field]
		if !ok {
			return ""
		}
		return sheetCell(row, idx)
	}
	p := dto.CreateEquipmentDTO{
		Category:     get("category"),
		SerialNumber: get("serial_number"),
		Brand:        get("brand"),
		Model:        get("model"),
		Description:  get("description"),
		WifiMac:      get("wifi_mac"),
		LanMac:       get("lan_mac"),
		CPU:          get("cpu"),
		GPU:          get("gpu"),
		RAM:          get("ram"),
		Storage:      get("storage"),
	}
	for _, pair := range l.accessories {
		accType, accName := sheetCell(row, pair[0]), sheetCell(row, pair[1])
		if accType == "" && accName == "" {
			continue
		}
		p.Accessories = append(p.Accessories, dto.AccessoryInputDTO{AccessoryType: accType, AccessoryName: accName})
	}
	return p
}

// Import создаёт оборудование из первого листа с распознанной шапкой.
// Ошибочные строки пропускаются и попадают в результат, остальные сохраняются.
func (s *EquipmentImporter) Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewValidationError("Dosya okunamadı. Geçerli bir Excel (.xlsx) dosyası yükleyin.", err.Error())
	}
	defer f.Close()

	var (
		rows   [][]string
		layout *importLayout
	)
	for _, sheet := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("чтение листа %s: %w", sheet, err)
		}
		if l, err := findLayout(sheetRows); err == nil {
			rows, layout = sheetRows, l
			break
		}
	}
	if layout == nil {
		return nil, apperrors.NewValidationError("Dosyada 'Kategori' başlıklı bir sütun bulunamadı.")
	}

	res := &dto.ImportResultDTO{Errors: []string{}, Warnings: []string{}}
	for i := layout.headerRow + 1; i < len(rows); i++ {
		payload := layout.payload(rows[i])
		if payload.Category == "" && payload.Brand == "" && payload.Model == "" {
			continue
		}
		lineNum := i + 1

		if s.validate != nil {
			if err := s.validate.Struct(payload); err != nil {
				res.Failed++
				res.Errors = append(res.Errors, fmt.Sprintf("Satır %d: %s", lineNum, importErrorMessage(err)))
				continue
			}
		}

		created, err := s.equipmentService.CreateEquipment(ctx, payload)
		if err != nil {
			s.logger.Warn("Импорт: строка пропущена", zap.Int("row", lineNum), zap.Error(err))
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("Satır %d: %s", lineNum, importErrorMessage(err)))
			continue
		}
		res.Created++
		if created.Warning != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Satır %d: %s", lineNum, created.Warning))
		}
	}

	s.logger.Info("Импорт оборудования завершён", zap.Int("created", res.Created), zap.Int("failed", res.Failed))
	return res, nil
}

func importErrorMessage(err error) string {
	if msgs := utils.ValidationMessages(err); msgs != nil {
		return strings.Join(msgs, "; ")
	}
	var invalid *apperrors.ValidationError
	if errors.As(err, &invalid) {
		return invalid.Message
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "Kayıt eklenemedi."
}
