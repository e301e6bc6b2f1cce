package dto

// ReportFile - готовый файл для отдачи клиенту
type ReportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportResultDTO - итог загрузки оборудования из Excel
type ImportResultDTO struct {
	Created  int      `json:"created"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
