package services

import (
	"errors"
	"fmt"
	"html"
	"socialcare365/models"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// MaxCommentLength bounds the stored comment text
const MaxCommentLength = 5000

var commentPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds the decode/strip loop in SanitizeCommentText
const maxSanitizePasses = 4

// SanitizeCommentText strips markup and surrounding whitespace from comment
// text. Comments are stored as plain text, so clients escape them on render.
// Entity-encoded markup decodes into tags, which are stripped on the next
// pass; the result is stable under a second call.
func SanitizeCommentText(text string) string {
	clean := strings.TrimSpace(text)
	for i := 0; i < maxSanitizePasses; i++ {
		next := strings.TrimSpace(html.UnescapeString(commentPolicy.Sanitize(clean)))
		if next == clean {
			break
		}
		clean = next
	}
	return clean
}

func validateCommentText(text string) (string, error) {
	clean := SanitizeCommentText(text)
	verr := &ValidationError{}
	if clean == "" {
		verr.Add("text", "Comment text is required")
	} else if len(clean) > MaxCommentLength {
		verr.Add("text", fmt.Sprintf("Comment must be at most %d characters", MaxCommentLength))
	}
	return clean, verr.Err()
}

// ListCaseComments returns the comments of a case p may read, oldest first
func ListCaseComments(db *gorm.DB, p Principal, caseID string) ([]models.CaseComment, error) {
	if _, err := GetCase(db, p, caseID); err != nil {
		return nil, err
	}

	var comments []models.CaseComment
	if err := db.Where("case_id = ?", caseID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list case comments: %w", err)
	}
	return comments, nil
}

// AddCaseComment stores a comment from author on a case p may read
func AddCaseComment(db *gorm.DB, author *models.User, caseID, text string) (*models.CaseComment, error) {
	clean, err := validateCommentText(text)
	if err != nil {
		return nil, err
	}
	if _, err := GetCase(db, PrincipalFromUser(author), caseID); err != nil {
		return nil, err
	}

	comment := &models.CaseComment{
		CaseID:     caseID,
		UserID:     author.ID,
		AuthorName: author.FullName(),
		Text:       clean,
	}
	if err := db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create case comment: %w", err)
	}
	return comment, nil
}

// DeleteCaseComment removes a comment written by p
func DeleteCaseComment(db *gorm.DB, p Principal, id string) error {
	var comment models.CaseComment
	if err := db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch case comment: %w", err)
	}
	if !CanDeleteComment(p, comment.UserID) {
		return ErrNotFound
	}
	if err := db.Delete(&comment).Error; err != nil {
		return fmt.Errorf("failed to delete case comment: %w", err)
	}
	return nil
}

// ListTaskComments returns the comments of a task p may access, oldest first
func ListTaskComments(db *gorm.DB, p Principal, taskID string) ([]models.TaskComment, error) {
	if _, err := GetTask(db, p, taskID); err != nil {
		return nil, err
	}

	var comments []models.TaskComment
	if err := db.Where("task_id = ?", taskID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list task comments: %w", err)
	}
	return comments, nil
}

// AddTaskComment stores a comment from author on a task p may access
func AddTaskComment(db *gorm.DB, author *models.User, taskID, text string) (*models.TaskComment, error) {
	clean, err := validateCommentText(text)
	if err != nil {
		return nil, err
	}
	if _, err := GetTask(db, PrincipalFromUser(author), taskID); err != nil {
		return nil, err
	}

	comment := &models.TaskComment{
		TaskID:     taskID,
		UserID:     author.ID,
		AuthorName: author.FullName(),
		Text:       clean,
	}
	if err := db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create task comment: %w", err)
	}
	return comment, nil
}

// DeleteTaskComment removes a comment written by p
func DeleteTaskComment(db *gorm.DB, p Principal, id string) error {
	var comment models.TaskComment
	if err := db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch task comment: %w", err)
	}
	if !CanDeleteComment(p, comment.UserID) {
		return ErrNotFound
	}
	if err := db.Delete(&comment).Error; err != nil {
		return fmt.Errorf("failed to delete task comment: %w", err)
	}
	return nil
}
