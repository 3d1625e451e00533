package task

import "github.com/example/taskboard/domain/user"

// Action identifies an operation an actor may attempt on a task.
type Action string

const (
	ActionRead         Action = "read"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionChangeStatus Action = "change-status"
)

// CanAccess decides whether the actor may perform the action on the task.
// Rules are evaluated in order, first match wins:
//
//  1. Admins may do anything.
//  2. Delete is reserved for the task's creator.
//  3. Read, update and status changes are open to the creator or the assignee.
//
// It is a pure predicate with no side effects. Callers turn a false result
// into an authorization failure at the boundary, and must re-evaluate it
// server-side on every mutating request.
func CanAccess(actor user.Actor, t *Task, action Action) bool {
	if actor.Role == user.RoleAdmin {
		return true
	}
	if action == ActionDelete {
		return actor.ID == t.CreatedBy
	}
	if actor.ID == t.CreatedBy {
		return true
	}
	return t.AssignedUserID != nil && actor.ID == *t.AssignedUserID
}
