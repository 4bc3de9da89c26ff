package models

import (
	"strconv"
	"time"

	"github.com/noah-isme/scrum-console-gateway/internal/tabview"
)

// Each resource kind declares its searchable fields and sort-key accessors as
// an explicit table instead of ad hoc nested lookups. Timestamps derive
// RFC3339 strings so lexicographic order matches chronological order.

// UserFields is the list-view field table for users.
func UserFields() tabview.Fields[*User] {
	return tabview.Fields[*User]{
		Valid:      func(u *User) bool { return u != nil },
		Searchable: []string{"username", "email", "fullname", "role"},
		Accessors: map[string]func(*User) string{
			"username": func(u *User) string { return u.Username },
			"email":    func(u *User) string { return u.Email },
			"fullname": func(u *User) string { return u.Fullname },
			"role":     func(u *User) string { return u.RoleName() },
			"created_at": func(u *User) string {
				return u.CreatedAt.UTC().Format(time.RFC3339)
			},
		},
	}
}

// ProjectFields is the list-view field table for projects. The moderator and
// sheet relations sort by username and filename respectively; search also
// reaches the moderator's full name.
func ProjectFields() tabview.Fields[*Project] {
	return tabview.Fields[*Project]{
		Valid:      func(p *Project) bool { return p != nil },
		Searchable: []string{"name", "description", "moderator", "moderator_fullname", "sheet"},
		Accessors: map[string]func(*Project) string{
			"name":        func(p *Project) string { return p.Name },
			"description": func(p *Project) string { return p.Description },
			"moderator": func(p *Project) string {
				if p.Moderator == nil {
					return ""
				}
				return p.Moderator.Username
			},
			"moderator_fullname": func(p *Project) string {
				if p.Moderator == nil {
					return ""
				}
				return p.Moderator.Fullname
			},
			"sheet": func(p *Project) string {
				if p.Sheet == nil {
					return ""
				}
				return p.Sheet.SheetFilename
			},
			"created_at": func(p *Project) string {
				return p.CreatedAt.UTC().Format(time.RFC3339)
			},
		},
	}
}

// SheetFields is the list-view field table for sheets.
func SheetFields() tabview.Fields[*Sheet] {
	return tabview.Fields[*Sheet]{
		Valid:      func(s *Sheet) bool { return s != nil },
		Searchable: []string{"sheet_filename", "description", "form_link"},
		Accessors: map[string]func(*Sheet) string{
			"sheet_filename": func(s *Sheet) string { return s.SheetFilename },
			"description":    func(s *Sheet) string { return s.Description },
			"form_link":      func(s *Sheet) string { return s.FormLink },
			"fill_form_status": func(s *Sheet) string {
				return strconv.FormatBool(s.FillFormStatus)
			},
			"created_at": func(s *Sheet) string {
				return s.CreatedAt.UTC().Format(time.RFC3339)
			},
		},
	}
}
