package validation

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

type UploadRule struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
}

const EquipmentImport = "equipment_import"

var UploadRules = map[string]UploadRule{
	EquipmentImport: {
		// xlsx - zip-контейнер; если сигнатура листа не попала в окно чтения,
		// файл распознаётся как zip, и окончательно его проверяет excelize
		AllowedMimeTypes: []string{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
		MaxSizeMB:        10,
	},
}

// ValidateFile проверяет размер и тип файла по содержимому.
// contextName - ключ из UploadRules. Курсор файла возвращается в начало.
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, contextName string) error {
	rules, ok := UploadRules[contextName]
	if !ok {
		return fmt.Errorf("внутренняя ошибка: неизвестный контекст загрузки '%s'", contextName)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if fileHeader.Size > maxSizeBytes {
			return fmt.Errorf("dosya boyutu (%.2f MB) %d MB sınırını aşıyor", float64(fileHeader.Size)/1024/1024, rules.MaxSizeMB)
		}
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return fmt.Errorf("dosya okunamadı")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("dosya işlenemedi")
	}

	for _, allowed := range rules.AllowedMimeTypes {
		if mtype.Is(allowed) {
			return nil
		}
	}
	return fmt.Errorf("desteklenmeyen dosya türü: %s", mtype.String())
}
