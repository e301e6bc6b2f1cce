package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

func TestCreateEmployee_NormalizesOptionalFields(t *testing.T) {
	env := newTestEnv("")
	e, err := env.employees.CreateEmployee(context.Background(), dto.CreateEmployeeDTO{
		Name:        "  Ayşe Yılmaz ",
		Email:       "ayse@firma.com",
		Department:  "",
		MobilePhone: "05321234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", e.Name)
	assert.Equal(t, "ayse@firma.com", e.Email.String)
	assert.False(t, e.Department.Valid)
	assert.True(t, e.IsActive)
	assert.Equal(t, []string{"employees:INSERT"}, env.store.auditTriples())
}

func TestCreateEmployee_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("")
	_, err := env.employees.CreateEmployee(ctx, dto.CreateEmployeeDTO{Name: "A", Email: "a@firma.com"})
	require.NoError(t, err)

	_, err = env.employees.CreateEmployee(ctx, dto.CreateEmployeeDTO{Name: "B", Email: "A@FIRMA.com"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUpdateEmployee(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("")
	a, err := env.employees.CreateEmployee(ctx, dto.CreateEmployeeDTO{Name: "A", Email: "a@firma.com"})
	require.NoError(t, err)
	b, err := env.employees.CreateEmployee(ctx, dto.CreateEmployeeDTO{Name: "B", Email: "b@firma.com"})
	require.NoError(t, err)

	// свой же email не считается дубликатом
	updated, err := env.employees.UpdateEmployee(ctx, a.ID, dto.UpdateEmployeeDTO{Name: "A2", Email: "a@firma.com", Department: "IT"})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Name)
	assert.Equal(t, "IT", updated.Department.String)

	_, err = env.employees.UpdateEmployee(ctx, b.ID, dto.UpdateEmployeeDTO{Name: "B", Email: "a@firma.com"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	_, err = env.employees.UpdateEmployee(ctx, 999, dto.UpdateEmployeeDTO{Name: "X"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteEmployee_WithOpenAssignment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("")
	emp := seedEmployee(t, env, "Ayşe")
	eq := seedLaptop(t, env, "")
	a, err := env.assignments.CreateAssignment(ctx, dto.CreateAssignmentDTO{EmployeeID: emp.ID, EquipmentID: eq.ID})
	require.NoError(t, err)

	err = env.employees.DeleteEmployee(ctx, emp.ID)
	assert.ErrorIs(t, err, apperrors.ErrEmployeeHasOpenAssignments)
	assert.True(t, env.store.employees[emp.ID].IsActive)

	_, err = env.assignments.ReturnAssignment(ctx, a.ID, dto.ReturnAssignmentDTO{ReturnReason: "Ayrılış"})
	require.NoError(t, err)

	require.NoError(t, env.employees.DeleteEmployee(ctx, emp.ID))
	row, ok := env.store.employees[emp.ID]
	require.True(t, ok, "строка должна остаться")
	assert.False(t, row.IsActive)

	_, err = env.employees.FindEmployee(ctx, emp.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	list, total, err := env.employees.GetEmployees(ctx, types.Filter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestEmployeeAuditOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("")
	e, err := env.employees.CreateEmployee(ctx, dto.CreateEmployeeDTO{Name: "A"})
	require.NoError(t, err)
	_, err = env.employees.UpdateEmployee(ctx, e.ID, dto.UpdateEmployeeDTO{Name: "B"})
	require.NoError(t, err)
	require.NoError(t, env.employees.DeleteEmployee(ctx, e.ID))

	assert.Equal(t, []string{"employees:INSERT", "employees:UPDATE", "employees:DELETE"}, env.store.auditTriples())

	last := env.store.audit[2]
	assert.Equal(t, entities.EmployeesTable.Name, last.TableName)
	assert.Equal(t, e.ID, last.RecordID)
	assert.True(t, last.OldValues.Valid)
	assert.False(t, last.NewValues.Valid)
}
