package seeders

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	"inventory-system/pkg/customvalidator"
	"inventory-system/pkg/utils"
)

const seederActor = `{"source":"seeder"}`

// Truncate очищает все таблицы инвентаря вместе с журналом аудита
func Truncate(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Очистка таблиц...")
	_, err := db.Exec(ctx, `TRUNCATE TABLE assignments, equipment_accessories, equipment, employees, audit_log RESTART IDENTITY CASCADE`)
	return err
}

// SeedDemo наполняет базу демонстрационными данными через сервисы,
// поэтому каждая запись попадает и в журнал аудита.
func SeedDemo(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) error {
	log.Println("▶️  Запуск наполнения демо-данными...")
	ctx = utils.WithActor(ctx, seederActor)

	txManager := repositories.NewTxManager(db)
	employeeRepo := repositories.NewEmployeeRepository(db, logger)
	equipmentRepo := repositories.NewEquipmentRepository(db, logger)
	accessoryRepo := repositories.NewAccessoryRepository(db, logger)
	assignmentRepo := repositories.NewAssignmentRepository(db, logger)
	auditRepo := repositories.NewAuditLogRepository(db, logger)

	audit := services.NewAuditService(auditRepo, cfg.Audit.Strict, cfg.Location(), nil, logger)
	employeeService := services.NewEmployeeService(txManager, employeeRepo, assignmentRepo, audit, logger)
	equipmentService := services.NewEquipmentService(txManager, equipmentRepo, accessoryRepo, assignmentRepo, audit, cfg.Inventory.SerialNumberPolicy, logger)
	assignmentService := services.NewAssignmentService(txManager, assignmentRepo, employeeRepo, equipmentRepo, audit, nil, nil, logger)

	log.Println("  - Сотрудники...")
	employeeIDs := make([]uint64, 0, len(employeesData))
	for _, payload := range employeesData {
		employee, err := employeeService.CreateEmployee(ctx, payload)
		if err != nil {
			return fmt.Errorf("сотрудник '%s': %w", payload.Name, err)
		}
		employeeIDs = append(employeeIDs, employee.ID)
	}

	log.Println("  - Оборудование и аксессуары...")
	equipmentIDs := make([]uint64, 0, len(equipmentData))
	for _, payload := range equipmentData {
		equipment, err := equipmentService.CreateEquipment(ctx, payload)
		if err != nil {
			return fmt.Errorf("оборудование '%s %s': %w", payload.Brand, payload.Model, err)
		}
		if equipment.Warning != "" {
			log.Printf("ПРЕДУПРЕЖДЕНИЕ: %s", equipment.Warning)
		}
		equipmentIDs = append(equipmentIDs, equipment.ID)
	}

	log.Println("  - Закрепления...")
	for _, a := range assignmentsData {
		assignment, err := assignmentService.CreateAssignment(ctx, dto.CreateAssignmentDTO{
			EmployeeID:  employeeIDs[a.Employee],
			EquipmentID: equipmentIDs[a.Equipment],
			Notes:       a.Notes,
		})
		if err != nil {
			return fmt.Errorf("закрепление %d -> %d: %w", a.Employee, a.Equipment, err)
		}
		if a.Returned {
			if _, err := assignmentService.ReturnAssignment(ctx, assignment.ID, dto.ReturnAssignmentDTO{ReturnReason: "Proje tamamlandı"}); err != nil {
				return fmt.Errorf("возврат закрепления %d: %w", assignment.ID, err)
			}
		}
	}

	log.Printf("✅ Создано: сотрудников %d, устройств %d, закреплений %d", len(employeeIDs), len(equipmentIDs), len(assignmentsData))
	return nil
}

// ImportEquipment загружает оборудование из xlsx тем же импортёром, что и POST /api/equipment/import
func ImportEquipment(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, path string, logger *zap.Logger) (*dto.ImportResultDTO, error) {
	log.Printf("▶️  Импорт оборудования из %s...", path)
	ctx = utils.WithActor(ctx, seederActor)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		return nil, err
	}

	auditRepo := repositories.NewAuditLogRepository(db, logger)
	audit := services.NewAuditService(auditRepo, cfg.Audit.Strict, cfg.Location(), nil, logger)
	equipmentService := services.NewEquipmentService(
		repositories.NewTxManager(db),
		repositories.NewEquipmentRepository(db, logger),
		repositories.NewAccessoryRepository(db, logger),
		repositories.NewAssignmentRepository(db, logger),
		audit, cfg.Inventory.SerialNumberPolicy, logger,
	)
	return services.NewEquipmentImporter(equipmentService, v, logger).Import(ctx, f)
}
