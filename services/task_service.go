package services

import (
	"errors"
	"fmt"
	"socialcare365/models"
	"strings"

	"gorm.io/gorm"
)

// TaskInput carries task fields from a create or update request.
// Nil fields are left untouched on update.
type TaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assignedTo"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	CaseID      *string `json:"caseId"`
	CaseName    *string `json:"caseName"`
}

func (in *TaskInput) apply(t *models.Task, verr *ValidationError) {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.AssignedTo != nil {
		t.AssignedTo = strings.TrimSpace(*in.AssignedTo)
	}
	if in.DueDate != nil {
		if strings.TrimSpace(*in.DueDate) == "" {
			verr.Add("dueDate", "Due date is required")
		} else if due, err := ParseDate(*in.DueDate); err != nil {
			verr.Add("dueDate", "Due date must be a valid date")
		} else {
			t.DueDate = due
		}
	}
	if in.Priority != nil {
		if !models.IsValidPriority(*in.Priority) {
			verr.Add("priority", "Priority must be one of: Low, Medium, High, Urgent")
		} else {
			t.Priority = *in.Priority
		}
	}
	if in.Status != nil {
		if !models.IsValidTaskStatus(*in.Status) {
			verr.Add("status", "Status must be one of: Backlog, In Progress, Blocked, Complete")
		} else {
			t.Status = *in.Status
		}
	}
	if in.CaseID != nil {
		t.CaseID = strings.TrimSpace(*in.CaseID)
	}
	if in.CaseName != nil {
		t.CaseName = strings.TrimSpace(*in.CaseName)
	}
}

// CreateTask validates input and stores a task owned by p
func CreateTask(db *gorm.DB, p Principal, input *TaskInput) (*models.Task, error) {
	t := &models.Task{}
	verr := &ValidationError{}
	input.apply(t, verr)

	if t.Title == "" {
		verr.Add("title", "Title is required")
	}
	if input.DueDate == nil {
		verr.Add("dueDate", "Due date is required")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	t.CreatedByID = p.ID
	if err := db.Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// TaskFilter narrows a task listing
type TaskFilter struct {
	Status string
	CaseID string
}

// ListTasks returns the tasks visible to p ordered by due date.
// Caregivers see only their own tasks; managers see all.
func ListTasks(db *gorm.DB, p Principal, filter TaskFilter) ([]models.Task, error) {
	query := db.Model(&models.Task{})
	if !p.IsManager() {
		query = query.Where("created_by_id = ?", p.ID)
	}
	if filter.Status != "" && models.IsValidTaskStatus(filter.Status) {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CaseID != "" {
		query = query.Where("case_id = ?", filter.CaseID)
	}

	var tasks []models.Task
	if err := query.Order("due_date ASC").Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func loadTask(db *gorm.DB, id string) (*models.Task, error) {
	var t models.Task
	if err := db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return &t, nil
}

// GetTask returns the task when p may access it
func GetTask(db *gorm.DB, p Principal, id string) (*models.Task, error) {
	t, err := loadTask(db, id)
	if err != nil {
		return nil, err
	}
	if !CanAccessTask(p, t) {
		return nil, ErrNotFound
	}
	return t, nil
}

// UpdateTask applies input to a task p may access. A Kanban drop sends only status.
func UpdateTask(db *gorm.DB, p Principal, id string, input *TaskInput) (*models.Task, error) {
	t, err := GetTask(db, p, id)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	input.apply(t, verr)
	if t.Title == "" {
		verr.Add("title", "Title is required")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if err := db.Save(t).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// DeleteTask removes a task and its comments
func DeleteTask(db *gorm.DB, p Principal, id string) error {
	t, err := GetTask(db, p, id)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", t.ID).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(t).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
