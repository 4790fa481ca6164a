package services

import (
	"errors"
	"socialcare365/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	db := setupTestDB(t)
	p := PrincipalFromUser(createUser(t, db, "Sam", "Carer", models.RoleCaregiver))

	t.Run("Defaults", func(t *testing.T) {
		task, err := CreateTask(db, p, &TaskInput{Title: strPtr("Call GP"), DueDate: strPtr("2026-05-01")})
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusBacklog, task.Status)
		assert.Equal(t, models.PriorityMedium, task.Priority)
		assert.Equal(t, p.ID, task.CreatedByID)
		assert.Equal(t, 2026, task.DueDate.Year())
	})

	t.Run("Title and due date required", func(t *testing.T) {
		_, err := CreateTask(db, p, &TaskInput{Title: strPtr("   ")})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))

		fields := map[string]bool{}
		for _, fe := range verr.Errors {
			fields[fe.Field] = true
		}
		assert.True(t, fields["title"])
		assert.True(t, fields["dueDate"])
	})

	t.Run("Invalid status", func(t *testing.T) {
		_, err := CreateTask(db, p, &TaskInput{Title: strPtr("X"), DueDate: strPtr("2026-05-01"), Status: strPtr("Done")})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "status", verr.Errors[0].Field)
	})
}

func TestTaskOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := PrincipalFromUser(createUser(t, db, "Sam", "Carer", models.RoleCaregiver))
	other := PrincipalFromUser(createUser(t, db, "Olly", "Other", models.RoleCaregiver))
	manager := PrincipalFromUser(createUser(t, db, "Morgan", "Manager", models.RoleManager))

	late, err := CreateTask(db, owner, &TaskInput{Title: strPtr("Late"), DueDate: strPtr("2026-06-10"), CaseID: strPtr("case-1")})
	require.NoError(t, err)
	early, err := CreateTask(db, owner, &TaskInput{Title: strPtr("Early"), DueDate: strPtr("2026-06-01")})
	require.NoError(t, err)
	_, err = CreateTask(db, other, &TaskInput{Title: strPtr("Theirs"), DueDate: strPtr("2026-06-05")})
	require.NoError(t, err)

	t.Run("List is creator scoped and due date ordered", func(t *testing.T) {
		tasks, err := ListTasks(db, owner, TaskFilter{})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, early.ID, tasks[0].ID)
		assert.Equal(t, late.ID, tasks[1].ID)

		all, err := ListTasks(db, manager, TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		byCase, err := ListTasks(db, owner, TaskFilter{CaseID: "case-1"})
		require.NoError(t, err)
		assert.Len(t, byCase, 1)
	})

	t.Run("Other caregiver gets not found", func(t *testing.T) {
		_, err := GetTask(db, other, late.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = UpdateTask(db, other, late.ID, &TaskInput{Status: strPtr(models.TaskStatusComplete)})
		assert.ErrorIs(t, err, ErrNotFound)

		err = DeleteTask(db, other, late.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		still, err := GetTask(db, owner, late.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusBacklog, still.Status)
	})

	t.Run("Status-only update keeps other fields", func(t *testing.T) {
		updated, err := UpdateTask(db, owner, late.ID, &TaskInput{Status: strPtr(models.TaskStatusBlocked)})
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusBlocked, updated.Status)
		assert.Equal(t, "Late", updated.Title)
		assert.Equal(t, "case-1", updated.CaseID)
	})

	t.Run("Manager may delete any task", func(t *testing.T) {
		_, err := AddTaskComment(db, &models.User{ID: owner.ID, FirstName: "Sam", LastName: "Carer", Role: models.RoleCaregiver}, early.ID, "note")
		require.NoError(t, err)

		require.NoError(t, DeleteTask(db, manager, early.ID))

		var count int64
		db.Model(&models.TaskComment{}).Where("task_id = ?", early.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}
