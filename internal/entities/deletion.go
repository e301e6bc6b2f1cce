package entities

// DeletionPolicy - как таблица удаляет записи
type DeletionPolicy int

const (
	// SoftDelete - строка остаётся, is_active = false
	SoftDelete DeletionPolicy = iota + 1
	// HardDelete - строка удаляется физически
	HardDelete
	// NoDelete - удаление запрещено
	NoDelete
)

func (p DeletionPolicy) String() string {
	switch p {
	case SoftDelete:
		return "soft"
	case HardDelete:
		return "hard"
	case NoDelete:
		return "none"
	}
	return "unknown"
}

type TableMeta struct {
	Name     string
	Deletion DeletionPolicy
}

var (
	EmployeesTable   = TableMeta{Name: "employees", Deletion: SoftDelete}
	EquipmentTable   = TableMeta{Name: "equipment", Deletion: SoftDelete}
	AccessoriesTable = TableMeta{Name: "equipment_accessories", Deletion: HardDelete}
	AssignmentsTable = TableMeta{Name: "assignments", Deletion: NoDelete}
	// записи аудита удаляются только по сроку хранения
	AuditLogTable = TableMeta{Name: "audit_log", Deletion: NoDelete}
)

// AuditedTables - таблицы, изменения которых попадают в журнал
var AuditedTables = []string{
	EmployeesTable.Name,
	EquipmentTable.Name,
	AccessoriesTable.Name,
	AssignmentsTable.Name,
}

func IsAuditedTable(name string) bool {
	for _, t := range AuditedTables {
		if t == name {
			return true
		}
	}
	return false
}
