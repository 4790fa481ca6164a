package services

import "socialcare365/models"

// Principal is the authenticated caller as seen by the access rules.
// It is always built from the live user record, never from token claims.
type Principal struct {
	ID       string
	Role     string
	FullName string
}

// PrincipalFromUser builds a Principal from a user record
func PrincipalFromUser(u *models.User) Principal {
	return Principal{
		ID:       u.ID,
		Role:     u.Role,
		FullName: u.FullName(),
	}
}

// IsManager reports whether the principal has the manager role
func (p Principal) IsManager() bool {
	return p.Role == models.RoleManager
}

// CanReadCase allows managers, the creator and assigned social workers
func CanReadCase(p Principal, c *models.Case) bool {
	if p.IsManager() {
		return true
	}
	return c.CreatedByID == p.ID || c.IsAssigned(p.FullName)
}

// CanUpdateCase follows the read rule
func CanUpdateCase(p Principal, c *models.Case) bool {
	return CanReadCase(p, c)
}

// CanDeleteCase allows managers and the creator. Archiving and attachment
// removal use the same rule.
func CanDeleteCase(p Principal, c *models.Case) bool {
	return p.IsManager() || c.CreatedByID == p.ID
}

// CanArchiveCase allows managers and the creator
func CanArchiveCase(p Principal, c *models.Case) bool {
	return CanDeleteCase(p, c)
}

// CanUploadAttachment requires case edit rights
func CanUploadAttachment(p Principal, c *models.Case) bool {
	return CanUpdateCase(p, c)
}

// CanDeleteAttachment allows managers and the case creator
func CanDeleteAttachment(p Principal, c *models.Case) bool {
	return CanDeleteCase(p, c)
}

// CanAccessTask allows managers and the creator for read, update and delete
func CanAccessTask(p Principal, t *models.Task) bool {
	return p.IsManager() || t.CreatedByID == p.ID
}

// CanAccessMeeting allows only the creator, whatever the role
func CanAccessMeeting(p Principal, m *models.Meeting) bool {
	return m.CreatedByID == p.ID
}

// CanDeleteComment allows only the author
func CanDeleteComment(p Principal, authorID string) bool {
	return authorID == p.ID
}
