package models

import "time"

// Sheet is a linked assessment form record.
type Sheet struct {
	ID             int        `json:"id"`
	SheetFilename  string     `json:"sheet_filename"`
	Description    string     `json:"description,omitempty"`
	FormLink       string     `json:"form_link"`
	FillFormStatus bool       `json:"fill_form_status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}
