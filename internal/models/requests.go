package models

// LoginRequest holds credentials for authenticating against the assessment
// service.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Fullname string `json:"fullname,omitempty"`
}

// CreateUserRequest is the admin payload for creating users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Fullname string `json:"fullname,omitempty"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MODERATOR"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateUserRequest is the admin payload for updating users.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Fullname string `json:"fullname,omitempty"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN MODERATOR"`
}

// ChangeRoleRequest switches a user's role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN MODERATOR"`
}

// ProjectPayload creates or updates a project.
type ProjectPayload struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	SheetID     int    `json:"sheet_id" validate:"required,gt=0"`
	ModeratorID int    `json:"moderator_id" validate:"required,gt=0"`
}

// SheetPayload creates or updates a sheet.
type SheetPayload struct {
	SheetFilename  string `json:"sheet_filename" validate:"required"`
	Description    string `json:"description" validate:"required"`
	FormLink       string `json:"form_link" validate:"required,url"`
	FillFormStatus bool   `json:"fill_form_status"`
}
