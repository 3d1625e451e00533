package task

import (
	"testing"

	"github.com/example/taskboard/domain/user"
)

func TestCanAccess(t *testing.T) {
	creatorID := "creator-1"
	assigneeID := "assignee-1"
	otherID := "other-1"

	taskWithAssignee := &Task{CreatedBy: creatorID, AssignedUserID: &assigneeID}
	taskNoAssignee := &Task{CreatedBy: creatorID}

	admin := user.Actor{ID: "admin-1", Role: user.RoleAdmin}
	creator := user.Actor{ID: creatorID, Role: user.RoleUser}
	assignee := user.Actor{ID: assigneeID, Role: user.RoleUser}
	other := user.Actor{ID: otherID, Role: user.RoleUser}

	tests := []struct {
		name   string
		actor  user.Actor
		task   *Task
		action Action
		want   bool
	}{
		{name: "admin can read", actor: admin, task: taskWithAssignee, action: ActionRead, want: true},
		{name: "admin can update", actor: admin, task: taskWithAssignee, action: ActionUpdate, want: true},
		{name: "admin can delete", actor: admin, task: taskWithAssignee, action: ActionDelete, want: true},
		{name: "admin can change status", actor: admin, task: taskWithAssignee, action: ActionChangeStatus, want: true},

		{name: "creator can read", actor: creator, task: taskWithAssignee, action: ActionRead, want: true},
		{name: "creator can update", actor: creator, task: taskWithAssignee, action: ActionUpdate, want: true},
		{name: "creator can delete", actor: creator, task: taskWithAssignee, action: ActionDelete, want: true},
		{name: "creator can change status", actor: creator, task: taskWithAssignee, action: ActionChangeStatus, want: true},

		{name: "assignee can read", actor: assignee, task: taskWithAssignee, action: ActionRead, want: true},
		{name: "assignee can update", actor: assignee, task: taskWithAssignee, action: ActionUpdate, want: true},
		{name: "assignee can change status", actor: assignee, task: taskWithAssignee, action: ActionChangeStatus, want: true},
		{name: "assignee cannot delete", actor: assignee, task: taskWithAssignee, action: ActionDelete, want: false},

		{name: "unrelated user cannot read", actor: other, task: taskWithAssignee, action: ActionRead, want: false},
		{name: "unrelated user cannot update", actor: other, task: taskWithAssignee, action: ActionUpdate, want: false},
		{name: "unrelated user cannot delete", actor: other, task: taskWithAssignee, action: ActionDelete, want: false},
		{name: "unrelated user cannot change status", actor: other, task: taskWithAssignee, action: ActionChangeStatus, want: false},

		{name: "no assignee, non-creator cannot read", actor: other, task: taskNoAssignee, action: ActionRead, want: false},
		{name: "no assignee, creator can read", actor: creator, task: taskNoAssignee, action: ActionRead, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccess(tt.actor, tt.task, tt.action); got != tt.want {
				t.Errorf("CanAccess(%s, %s) = %v, want %v", tt.actor.ID, tt.action, got, tt.want)
			}
		})
	}
}
