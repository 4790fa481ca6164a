package services

import (
	"fmt"
	"socialcare365/models"
)

// Board is the Kanban board: tasks grouped by status, in column order
type Board map[string][]models.Task

// NewBoard returns a board with every column present and empty
func NewBoard() Board {
	b := make(Board, len(models.TaskStatuses))
	for _, s := range models.TaskStatuses {
		b[s] = []models.Task{}
	}
	return b
}

// BuildBoard groups tasks by status, keeping their input order.
// Tasks with an unknown status land in Backlog.
func BuildBoard(tasks []models.Task) Board {
	b := NewBoard()
	for _, t := range tasks {
		status := t.Status
		if !models.IsValidTaskStatus(status) {
			status = models.TaskStatusBacklog
			t.Status = status
		}
		b[status] = append(b[status], t)
	}
	return b
}

// Clone copies the board so the result can be changed without touching b
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for status, tasks := range b {
		out[status] = append([]models.Task(nil), tasks...)
		if out[status] == nil {
			out[status] = []models.Task{}
		}
	}
	return out
}

// Locate returns the column and index holding taskID
func (b Board) Locate(taskID string) (string, int, bool) {
	for status, tasks := range b {
		for i, t := range tasks {
			if t.ID == taskID {
				return status, i, true
			}
		}
	}
	return "", 0, false
}

// Counts returns the number of tasks per column
func (b Board) Counts() map[string]int {
	counts := make(map[string]int, len(b))
	for _, s := range models.TaskStatuses {
		counts[s] = len(b[s])
	}
	return counts
}

// MoveTask is the drag-and-drop reducer. It returns a new board with taskID
// removed from its current column and inserted into toStatus at index.
// An index outside the column appends. The input board is never mutated.
// Any status may move to any other.
func MoveTask(b Board, taskID, toStatus string, index int) (Board, error) {
	if !models.IsValidTaskStatus(toStatus) {
		return nil, fmt.Errorf("unknown task status %q", toStatus)
	}

	fromStatus, fromIndex, ok := b.Locate(taskID)
	if !ok {
		return nil, fmt.Errorf("task %s is not on the board", taskID)
	}

	next := b.Clone()
	if _, exists := next[toStatus]; !exists {
		next[toStatus] = []models.Task{}
	}

	task := next[fromStatus][fromIndex]
	task.Status = toStatus

	source := next[fromStatus]
	next[fromStatus] = append(source[:fromIndex:fromIndex], source[fromIndex+1:]...)

	target := next[toStatus]
	if index < 0 || index > len(target) {
		index = len(target)
	}
	inserted := make([]models.Task, 0, len(target)+1)
	inserted = append(inserted, target[:index]...)
	inserted = append(inserted, task)
	inserted = append(inserted, target[index:]...)
	next[toStatus] = inserted

	return next, nil
}

// ApplyTaskUpdate merges a server-confirmed task into the board, moving it
// to the column matching its status. Unknown tasks are appended.
func ApplyTaskUpdate(b Board, updated models.Task) Board {
	fromStatus, fromIndex, ok := b.Locate(updated.ID)
	if !ok {
		next := b.Clone()
		status := updated.Status
		if !models.IsValidTaskStatus(status) {
			status = models.TaskStatusBacklog
		}
		next[status] = append(next[status], updated)
		return next
	}

	if fromStatus == updated.Status {
		next := b.Clone()
		next[fromStatus][fromIndex] = updated
		return next
	}

	next, err := MoveTask(b, updated.ID, updated.Status, -1)
	if err != nil {
		return b.Clone()
	}
	status, i, _ := next.Locate(updated.ID)
	next[status][i] = updated
	return next
}
