package listeners

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/events"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/utils"
)

// Broadcaster - получатель сообщений ленты (websocket.Hub)
type Broadcaster interface {
	Broadcast(messageType string, payload interface{}) error
}

// LiveFeedListener превращает события закреплений в сообщения для подключённых браузеров.
type LiveFeedListener struct {
	broadcaster   Broadcaster
	employeeRepo  repositories.EmployeeRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	location      *time.Location
	logger        *zap.Logger
}

func NewLiveFeedListener(
	broadcaster Broadcaster,
	employeeRepo repositories.EmployeeRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	location *time.Location,
	logger *zap.Logger,
) *LiveFeedListener {
	return &LiveFeedListener{
		broadcaster:   broadcaster,
		employeeRepo:  employeeRepo,
		equipmentRepo: equipmentRepo,
		location:      location,
		logger:        logger,
	}
}

func (l *LiveFeedListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.AssignmentOpened, l.handleAssignment)
	bus.Subscribe(events.AssignmentReturned, l.handleAssignment)
	l.logger.Info("LiveFeedListener подписан на события закреплений")
}

func (l *LiveFeedListener) handleAssignment(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.AssignmentEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", event)
	}

	payload := dto.LiveAssignmentDTO{
		AssignmentID: e.AssignmentID,
		EmployeeID:   e.EmployeeID,
		EquipmentID:  e.EquipmentID,
		At:           utils.FormatLocal(e.At, l.location),
		ReturnReason: e.ReturnReason,
	}
	// имена подтягиваются по возможности: лента не должна молчать из-за справочника
	if emp, err := l.employeeRepo.FindByID(ctx, nil, e.EmployeeID); err == nil {
		payload.EmployeeName = emp.Name
	} else {
		l.logger.Warn("Лента: сотрудник не найден", zap.Uint64("employee_id", e.EmployeeID), zap.Error(err))
	}
	if eq, err := l.equipmentRepo.FindByID(ctx, nil, e.EquipmentID); err == nil {
		payload.Equipment = equipmentLabel(eq)
	} else {
		l.logger.Warn("Лента: оборудование не найдено", zap.Uint64("equipment_id", e.EquipmentID), zap.Error(err))
	}

	return l.broadcaster.Broadcast(e.Name(), payload)
}

// equipmentLabel: "Laptop Dell Latitude (SN-1)"
func equipmentLabel(eq *entities.Equipment) string {
	parts := []string{eq.Category}
	for _, p := range []string{eq.Brand.String, eq.Model.String} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	label := strings.Join(parts, " ")
	if eq.SerialNumber.Valid && eq.SerialNumber.String != "" {
		label += " (" + eq.SerialNumber.String + ")"
	}
	return label
}
