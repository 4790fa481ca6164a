package services

import (
	"socialcare365/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseAccessRules(t *testing.T) {
	creator := Principal{ID: "u-creator", Role: models.RoleCaregiver, FullName: "Casey Creator"}
	assignee := Principal{ID: "u-assignee", Role: models.RoleCaregiver, FullName: "Ash Assigned"}
	stranger := Principal{ID: "u-stranger", Role: models.RoleCaregiver, FullName: "Stan Stranger"}
	manager := Principal{ID: "u-manager", Role: models.RoleManager, FullName: "Morgan Manager"}

	c := &models.Case{
		CreatedByID:           creator.ID,
		AssignedSocialWorkers: []string{"Ash Assigned"},
	}

	tests := []struct {
		name      string
		p         Principal
		read      bool
		update    bool
		delete    bool
		delAttach bool
	}{
		{"creator", creator, true, true, true, true},
		{"assignee", assignee, true, true, false, false},
		{"stranger", stranger, false, false, false, false},
		{"manager", manager, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.read, CanReadCase(tt.p, c))
			assert.Equal(t, tt.update, CanUpdateCase(tt.p, c))
			assert.Equal(t, tt.update, CanUploadAttachment(tt.p, c))
			assert.Equal(t, tt.delete, CanDeleteCase(tt.p, c))
			assert.Equal(t, tt.delete, CanArchiveCase(tt.p, c))
			assert.Equal(t, tt.delAttach, CanDeleteAttachment(tt.p, c))
		})
	}
}

func TestCaseAssignmentMatchesExactFullName(t *testing.T) {
	c := &models.Case{CreatedByID: "someone", AssignedSocialWorkers: []string{"Ash Assigned"}}

	assert.False(t, CanReadCase(Principal{ID: "x", Role: models.RoleCaregiver, FullName: "Ash"}, c))
	assert.False(t, CanReadCase(Principal{ID: "x", Role: models.RoleCaregiver, FullName: "ash assigned"}, c))
	assert.False(t, CanReadCase(Principal{ID: "x", Role: models.RoleCaregiver, FullName: ""}, c))
}

func TestTaskAccessRules(t *testing.T) {
	task := &models.Task{CreatedByID: "u-1"}

	assert.True(t, CanAccessTask(Principal{ID: "u-1", Role: models.RoleCaregiver}, task))
	assert.False(t, CanAccessTask(Principal{ID: "u-2", Role: models.RoleCaregiver}, task))
	assert.True(t, CanAccessTask(Principal{ID: "u-3", Role: models.RoleManager}, task))
}

func TestMeetingAccessIgnoresManagerRole(t *testing.T) {
	m := &models.Meeting{CreatedByID: "u-1"}

	assert.True(t, CanAccessMeeting(Principal{ID: "u-1", Role: models.RoleCaregiver}, m))
	assert.False(t, CanAccessMeeting(Principal{ID: "u-2", Role: models.RoleCaregiver}, m))
	assert.False(t, CanAccessMeeting(Principal{ID: "u-3", Role: models.RoleManager}, m))
}

func TestCommentDeleteIsAuthorOnly(t *testing.T) {
	assert.True(t, CanDeleteComment(Principal{ID: "u-1"}, "u-1"))
	assert.False(t, CanDeleteComment(Principal{ID: "u-2", Role: models.RoleManager}, "u-1"))
}

func TestPrincipalFromUser(t *testing.T) {
	u := &models.User{ID: "u-1", FirstName: "Jo", LastName: "Bloggs", Role: models.RoleManager}
	p := PrincipalFromUser(u)

	assert.Equal(t, "u-1", p.ID)
	assert.Equal(t, "Jo Bloggs", p.FullName)
	assert.True(t, p.IsManager())
}
