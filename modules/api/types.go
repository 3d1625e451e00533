package api

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Details []FieldDetail `json:"details,omitempty"`
}

// FieldDetail reports one violated validation rule.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RegisterRequest is the registration request body.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CreateTaskBody is the task creation request body.
type CreateTaskBody struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Priority       string `json:"priority"`
	DueDate        string `json:"dueDate"`
	AssignedUserID string `json:"assignedUserId"`
}

// UpdateTaskBody is the task update request body. Omitted fields are left
// unchanged; dueDate and assignedUserId can be set to "" to clear them.
type UpdateTaskBody struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Status         *string `json:"status"`
	Priority       *string `json:"priority"`
	DueDate        *string `json:"dueDate"`
	AssignedUserID *string `json:"assignedUserId"`
}

// ChangeStatusBody is the status change request body.
type ChangeStatusBody struct {
	Status string `json:"status"`
}

// SetUserActiveBody is the activate/deactivate request body. IsActive is a
// pointer so a missing field can be told apart from false.
type SetUserActiveBody struct {
	IsActive *bool `json:"isActive"`
}
