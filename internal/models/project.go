package models

import "time"

// Project is a project record with its moderator and sheet relations.
type Project struct {
	ID          int                    `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   *time.Time             `json:"updated_at,omitempty"`
	SMMData     map[string]interface{} `json:"smm_data,omitempty"`
	Moderator   *User                  `json:"moderator,omitempty"`
	Sheet       *Sheet                 `json:"sheet,omitempty"`
}
