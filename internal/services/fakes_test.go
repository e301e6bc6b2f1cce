package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/types"
)

// memStore - хранилище в памяти для тестов сервисов; транзакции не моделируются
type memStore struct {
	mu          sync.Mutex
	nextID      uint64
	employees   map[uint64]*entities.Employee
	equipment   map[uint64]*entities.Equipment
	accessories map[uint64]*entities.Accessory
	assignments map[uint64]*entities.Assignment
	audit       []entities.AuditLog
	auditErr    error
}

func newMemStore() *memStore {
	return &memStore{
		employees:   map[uint64]*entities.Employee{},
		equipment:   map[uint64]*entities.Equipment{},
		accessories: map[uint64]*entities.Accessory{},
		assignments: map[uint64]*entities.Assignment{},
	}
}

func (m *memStore) id() uint64 {
	m.nextID++
	return m.nextID
}

func nowPtr() *time.Time {
	t := time.Now()
	return &t
}

type fakeTxManager struct{ calls int }

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	return fn(nil)
}

// --- employees ---

type fakeEmployeeRepo struct{ *memStore }

func (r fakeEmployeeRepo) GetAll(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entities.Employee{}
	for _, e := range r.employees {
		if e.IsActive {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, uint64(len(out)), nil
}

func (r fakeEmployeeRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok || !e.IsActive {
		return nil, apperrors.ErrRecordNotFound
	}
	c := *e
	return &c, nil
}

func (r fakeEmployeeRepo) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	return r.FindByID(ctx, tx, id)
}

func (r fakeEmployeeRepo) ExistsByEmail(ctx context.Context, tx pgx.Tx, email string, excludeID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.IsActive && e.ID != excludeID && e.Email.Valid && strings.EqualFold(e.Email.String, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeEmployeeRepo) Create(ctx context.Context, tx pgx.Tx, e entities.Employee) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.id()
	e.IsActive = true
	e.CreatedAt, e.UpdatedAt = nowPtr(), nowPtr()
	r.employees[e.ID] = &e
	return e.ID, nil
}

func (r fakeEmployeeRepo) Update(ctx context.Context, tx pgx.Tx, id uint64, e entities.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.employees[id]
	if !ok || !cur.IsActive {
		return apperrors.ErrRecordNotFound
	}
	e.ID, e.IsActive, e.CreatedAt, e.UpdatedAt = id, true, cur.CreatedAt, nowPtr()
	r.employees[id] = &e
	return nil
}

func (r fakeEmployeeRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.employees[id]
	if !ok || !cur.IsActive {
		return apperrors.ErrRecordNotFound
	}
	cur.IsActive = false
	return nil
}

func (r fakeEmployeeRepo) DepartmentStats(ctx context.Context) ([]types.CountStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, e := range r.employees {
		if e.IsActive {
			counts[e.Department.String]++
		}
	}
	out := []types.CountStat{}
	for k, v := range counts {
		out = append(out, types.CountStat{Key: k, Count: v})
	}
	return out, nil
}

// --- equipment ---

type fakeEquipmentRepo struct{ *memStore }

func (r fakeEquipmentRepo) GetAll(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entities.Equipment{}
	for _, e := range r.equipment {
		if !e.IsActive {
			continue
		}
		if v, ok := filter.Filter["category"]; ok && v != e.Category {
			continue
		}
		if v, ok := filter.Filter["status"]; ok && v != string(e.Status) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, uint64(len(out)), nil
}

func (r fakeEquipmentRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.equipment[id]
	if !ok || !e.IsActive {
		return nil, apperrors.ErrRecordNotFound
	}
	c := *e
	return &c, nil
}

func (r fakeEquipmentRepo) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.FindByID(ctx, tx, id)
}

func (r fakeEquipmentRepo) FindBySerialNumber(ctx context.Context, tx pgx.Tx, serial string, excludeID uint64) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.equipment {
		if e.IsActive && e.ID != excludeID && e.SerialNumber.Valid && e.SerialNumber.String == serial {
			c := *e
			return &c, nil
		}
	}
	return nil, apperrors.ErrRecordNotFound
}

func (r fakeEquipmentRepo) Create(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.id()
	e.IsActive = true
	e.CreatedAt, e.UpdatedAt = nowPtr(), nowPtr()
	r.equipment[e.ID] = &e
	return e.ID, nil
}

func (r fakeEquipmentRepo) Update(ctx context.Context, tx pgx.Tx, id uint64, e entities.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.equipment[id]
	if !ok || !cur.IsActive {
		return apperrors.ErrRecordNotFound
	}
	e.ID, e.IsActive, e.Status, e.CreatedAt, e.UpdatedAt = id, true, cur.Status, cur.CreatedAt, nowPtr()
	r.equipment[id] = &e
	return nil
}

func (r fakeEquipmentRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.EquipmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.equipment[id]
	if !ok {
		return apperrors.ErrRecordNotFound
	}
	cur.Status = status
	return nil
}

func (r fakeEquipmentRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.equipment[id]
	if !ok || !cur.IsActive {
		return apperrors.ErrRecordNotFound
	}
	cur.IsActive = false
	return nil
}

func (r fakeEquipmentRepo) CategoryStats(ctx context.Context) ([]types.CountStat, error) {
	return nil, nil
}

func (r fakeEquipmentRepo) StatusStats(ctx context.Context) ([]types.CountStat, error) {
	return nil, nil
}

// --- accessories ---

type fakeAccessoryRepo struct{ *memStore }

func (r fakeAccessoryRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Accessory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accessories[id]
	if !ok {
		return nil, apperrors.ErrRecordNotFound
	}
	c := *a
	return &c, nil
}

func (r fakeAccessoryRepo) GetByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.Accessory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entities.Accessory{}
	for _, a := range r.accessories {
		if a.EquipmentID == equipmentID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeAccessoryRepo) GetByEquipmentIDs(ctx context.Context, equipmentIDs []uint64) (map[uint64][]entities.Accessory, error) {
	out := map[uint64][]entities.Accessory{}
	for _, id := range equipmentIDs {
		list, _ := r.GetByEquipment(ctx, nil, id)
		if len(list) > 0 {
			out[id] = list
		}
	}
	return out, nil
}

func (r fakeAccessoryRepo) Create(ctx context.Context, tx pgx.Tx, a entities.Accessory) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.equipment[a.EquipmentID]; !ok {
		return 0, apperrors.ErrRecordNotFound
	}
	a.ID = r.id()
	a.CreatedAt = nowPtr()
	r.accessories[a.ID] = &a
	return a.ID, nil
}

func (r fakeAccessoryRepo) Update(ctx context.Context, tx pgx.Tx, id uint64, a entities.Accessory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.accessories[id]
	if !ok {
		return apperrors.ErrRecordNotFound
	}
	cur.AccessoryType, cur.AccessoryName = a.AccessoryType, a.AccessoryName
	return nil
}

func (r fakeAccessoryRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accessories[id]; !ok {
		return apperrors.ErrRecordNotFound
	}
	delete(r.accessories, id)
	return nil
}

func (r fakeAccessoryRepo) TypeStats(ctx context.Context) ([]types.CountStat, error) {
	return nil, nil
}

// --- assignments ---

type fakeAssignmentRepo struct{ *memStore }

func (r fakeAssignmentRepo) decorate(a entities.Assignment) entities.Assignment {
	if e, ok := r.employees[a.EmployeeID]; ok {
		a.EmployeeName = null.StringFrom(e.Name)
		a.EmployeeDepartment = e.Department
	}
	if e, ok := r.equipment[a.EquipmentID]; ok {
		a.EquipmentCategory = null.StringFrom(e.Category)
		a.EquipmentBrand, a.EquipmentModel, a.EquipmentSerial = e.Brand, e.Model, e.SerialNumber
	}
	return a
}

func (r fakeAssignmentRepo) List(ctx context.Context, filter entities.AssignmentFilter) ([]entities.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entities.Assignment{}
	for _, a := range r.assignments {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.EquipmentID != nil && a.EquipmentID != *filter.EquipmentID {
			continue
		}
		if filter.OnlyOpen && !a.IsOpen() {
			continue
		}
		out = append(out, r.decorate(*a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r fakeAssignmentRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return nil, apperrors.ErrRecordNotFound
	}
	c := r.decorate(*a)
	return &c, nil
}

func (r fakeAssignmentRepo) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return nil, apperrors.ErrRecordNotFound
	}
	c := *a
	return &c, nil
}

func (r fakeAssignmentRepo) countOpen(match func(*entities.Assignment) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.assignments {
		if a.IsOpen() && match(a) {
			n++
		}
	}
	return n
}

func (r fakeAssignmentRepo) CountOpenByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) (int64, error) {
	return r.countOpen(func(a *entities.Assignment) bool { return a.EquipmentID == equipmentID }), nil
}

func (r fakeAssignmentRepo) CountOpenByEmployee(ctx context.Context, tx pgx.Tx, employeeID uint64) (int64, error) {
	return r.countOpen(func(a *entities.Assignment) bool { return a.EmployeeID == employeeID }), nil
}

// Create повторяет частичный уникальный индекс по открытым закреплениям
func (r fakeAssignmentRepo) Create(ctx context.Context, tx pgx.Tx, a entities.Assignment) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.assignments {
		if cur.EquipmentID == a.EquipmentID && cur.IsOpen() {
			return 0, apperrors.ErrEquipmentAlreadyAssigned
		}
	}
	a.ID = r.id()
	a.CreatedAt, a.UpdatedAt = nowPtr(), nowPtr()
	r.assignments[a.ID] = &a
	return a.ID, nil
}

func (r fakeAssignmentRepo) MarkReturned(ctx context.Context, tx pgx.Tx, id uint64, returnedAt time.Time, reason string, notes null.String) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok || !a.IsOpen() {
		return apperrors.ErrAssignmentAlreadyReturned
	}
	a.ReturnedDate = null.TimeFrom(returnedAt)
	a.ReturnReason = null.StringFrom(reason)
	a.Notes = notes
	return nil
}

func (r fakeAssignmentRepo) UpdateNotes(ctx context.Context, tx pgx.Tx, id uint64, notes null.String) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return apperrors.ErrRecordNotFound
	}
	a.Notes = notes
	return nil
}

func (r fakeAssignmentRepo) Stats(ctx context.Context) (*entities.AssignmentStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s entities.AssignmentStats
	for _, a := range r.assignments {
		s.Total++
		if a.IsOpen() {
			s.Active++
		} else {
			s.Returned++
		}
	}
	return &s, nil
}

// --- audit log ---

type fakeAuditRepo struct {
	*memStore
	lastFilter entities.AuditFilter
}

func (r *fakeAuditRepo) Create(ctx context.Context, tx pgx.Tx, entry entities.AuditLog) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.auditErr != nil {
		return 0, r.auditErr
	}
	entry.ID = r.id()
	entry.CreatedAt = time.Now()
	r.audit = append(r.audit, entry)
	return entry.ID, nil
}

func (r *fakeAuditRepo) List(ctx context.Context, filter entities.AuditFilter) ([]entities.AuditLog, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	return r.filterLocked(filter)
}

// filterLocked вызывается под r.mu и не трогает lastFilter
func (r *fakeAuditRepo) filterLocked(filter entities.AuditFilter) ([]entities.AuditLog, uint64, error) {
	out := []entities.AuditLog{}
	for i := len(r.audit) - 1; i >= 0; i-- {
		e := r.audit[i]
		if filter.TableName != "" && e.TableName != filter.TableName {
			continue
		}
		if filter.RecordID != nil && e.RecordID != *filter.RecordID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.From != nil && e.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !e.CreatedAt.Before(*filter.To) {
			continue
		}
		out = append(out, e)
	}
	total := uint64(len(out))
	if filter.Limit > 0 {
		start := filter.Offset
		if start > total {
			start = total
		}
		end := start + filter.Limit
		if end > total {
			end = total
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (r *fakeAuditRepo) Stats(ctx context.Context, filter entities.AuditFilter) (*entities.AuditStats, error) {
	r.mu.Lock()
	list, _, _ := r.filterLocked(filter)
	r.mu.Unlock()
	var s entities.AuditStats
	tables := map[string]struct{}{}
	for _, e := range list {
		s.Total++
		tables[e.TableName] = struct{}{}
		switch e.Action {
		case entities.AuditInsert:
			s.Inserts++
		case entities.AuditUpdate:
			s.Updates++
		case entities.AuditDelete:
			s.Deletes++
		}
	}
	s.TableCount = int64(len(tables))
	return &s, nil
}

func (r *fakeAuditRepo) TableStats(ctx context.Context) ([]entities.AuditTableStat, error) {
	return nil, nil
}

func (r *fakeAuditRepo) DailyStats(ctx context.Context, since time.Time, loc *time.Location) ([]entities.AuditDailyStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = entities.AuditFilter{From: &since}
	return []entities.AuditDailyStat{}, nil
}

func (r *fakeAuditRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.audit[:0]
	var deleted int64
	for _, e := range r.audit {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.audit = kept
	return deleted, nil
}

// auditTriples - (таблица, id, действие) в порядке записи
func (m *memStore) auditTriples() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.audit))
	for _, e := range m.audit {
		out = append(out, e.TableName+":"+string(e.Action))
	}
	return out
}

// recordingPublisher синхронно запоминает опубликованные события
type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) published() []eventbus.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]eventbus.Event(nil), p.events...)
}

// --- сборка ---

type testEnv struct {
	store       *memStore
	tx          *fakeTxManager
	auditRepo   *fakeAuditRepo
	audit       *AuditService
	employees   *EmployeeService
	equipment   *EquipmentService
	accessories *AccessoryService
	assignments *AssignmentService
	published   *recordingPublisher
}

var (
	_ repositories.EmployeeRepositoryInterface   = fakeEmployeeRepo{}
	_ repositories.EquipmentRepositoryInterface  = fakeEquipmentRepo{}
	_ repositories.AccessoryRepositoryInterface  = fakeAccessoryRepo{}
	_ repositories.AssignmentRepositoryInterface = fakeAssignmentRepo{}
	_ repositories.AuditLogRepositoryInterface   = (*fakeAuditRepo)(nil)
)

func newTestEnv(serialPolicy string) *testEnv {
	store := newMemStore()
	logger := zap.NewNop()
	tx := &fakeTxManager{}
	auditRepo := &fakeAuditRepo{memStore: store}
	audit := NewAuditService(auditRepo, false, time.UTC, nil, logger)
	published := &recordingPublisher{}

	return &testEnv{
		store:       store,
		tx:          tx,
		auditRepo:   auditRepo,
		audit:       audit,
		employees:   NewEmployeeService(tx, fakeEmployeeRepo{store}, fakeAssignmentRepo{store}, audit, logger),
		equipment:   NewEquipmentService(tx, fakeEquipmentRepo{store}, fakeAccessoryRepo{store}, fakeAssignmentRepo{store}, audit, serialPolicy, logger),
		accessories: NewAccessoryService(tx, fakeAccessoryRepo{store}, fakeEquipmentRepo{store}, audit, logger),
		assignments: NewAssignmentService(tx, fakeAssignmentRepo{store}, fakeEmployeeRepo{store}, fakeEquipmentRepo{store}, audit, nil, published, logger),
		published:   published,
	}
}
