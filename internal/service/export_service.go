package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/tabview"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
	"github.com/noah-isme/scrum-console-gateway/pkg/export"
)

// ExportResult holds a rendered file ready to stream to the browser.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the admin tables as downloadable files. The same
// filter and sort the browser sees apply to the export, but pagination does
// not: the file carries every matching row up to the configured cap.
type ExportService struct {
	users     userAPI
	projects  projectAPI
	sheets    sheetAPI
	exporters map[string]export.Exporter
	maxRows   int
	logger    *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(users userAPI, projects projectAPI, sheets sheetAPI, maxRows int, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRows <= 0 {
		maxRows = 10000
	}
	return &ExportService{
		users:    users,
		projects: projects,
		sheets:   sheets,
		exporters: map[string]export.Exporter{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		maxRows: maxRows,
		logger:  logger,
	}
}

// Export renders the named table in the requested format.
func (s *ExportService) Export(ctx context.Context, token, kind, format string, filter models.ListFilter) (*ExportResult, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("unsupported export format: %s", format))
	}

	var (
		dataset export.Dataset
		title   string
		err     error
	)
	switch kind {
	case "users":
		title = "Users"
		dataset, err = s.userDataset(ctx, token, filter)
	case "projects":
		title = "Projects"
		dataset, err = s.projectDataset(ctx, token, filter)
	case "sheets":
		title = "Sheets"
		dataset, err = s.sheetDataset(ctx, token, filter)
	default:
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("unsupported export kind: %s", kind))
	}
	if err != nil {
		return nil, err
	}

	content, err := exporter.Render(dataset, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("export rendered",
		zap.String("kind", kind),
		zap.String("format", format),
		zap.Int("rows", len(dataset.Rows)))

	return &ExportResult{
		Content:     content,
		ContentType: exporter.ContentType(),
		Filename:    fmt.Sprintf("%s_%s.%s", kind, time.Now().UTC().Format("20060102_150405"), exporter.Extension()),
	}, nil
}

// exportQuery keeps the caller's search and sort but swaps pagination for the
// row cap.
func (s *ExportService) exportQuery(filter models.ListFilter, defaultSort string) tabview.Query {
	q := listQuery(filter, defaultSort)
	q.Page = 0
	q.PageSize = s.maxRows
	return q
}

func (s *ExportService) userDataset(ctx context.Context, token string, filter models.ListFilter) (export.Dataset, error) {
	users, err := s.users.ListUsers(ctx, token)
	if err != nil {
		return export.Dataset{}, err
	}

	result := tabview.View(users, s.exportQuery(filter, "username"), models.UserFields())

	rows := make([]map[string]string, 0, len(result.Rows))
	for _, u := range result.Rows {
		rows = append(rows, map[string]string{
			"ID":         strconv.Itoa(u.ID),
			"Username":   u.Username,
			"Email":      u.Email,
			"Full Name":  u.Fullname,
			"Role":       u.RoleName(),
			"Created At": u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return export.Dataset{
		Headers: []string{"ID", "Username", "Email", "Full Name", "Role", "Created At"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) projectDataset(ctx context.Context, token string, filter models.ListFilter) (export.Dataset, error) {
	projects, err := s.projects.ListProjects(ctx, token)
	if err != nil {
		return export.Dataset{}, err
	}

	result := tabview.View(projects, s.exportQuery(filter, "name"), models.ProjectFields())

	rows := make([]map[string]string, 0, len(result.Rows))
	for _, p := range result.Rows {
		moderator := ""
		if p.Moderator != nil {
			moderator = p.Moderator.Username
		}
		sheet := ""
		if p.Sheet != nil {
			sheet = p.Sheet.SheetFilename
		}
		rows = append(rows, map[string]string{
			"ID":          strconv.Itoa(p.ID),
			"Name":        p.Name,
			"Description": p.Description,
			"Moderator":   moderator,
			"Sheet":       sheet,
			"Created At":  p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return export.Dataset{
		Headers: []string{"ID", "Name", "Description", "Moderator", "Sheet", "Created At"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) sheetDataset(ctx context.Context, token string, filter models.ListFilter) (export.Dataset, error) {
	sheets, err := s.sheets.ListSheets(ctx, token)
	if err != nil {
		return export.Dataset{}, err
	}

	result := tabview.View(sheets, s.exportQuery(filter, "sheet_filename"), models.SheetFields())

	rows := make([]map[string]string, 0, len(result.Rows))
	for _, sh := range result.Rows {
		rows = append(rows, map[string]string{
			"ID":          strconv.Itoa(sh.ID),
			"Filename":    sh.SheetFilename,
			"Description": sh.Description,
			"Form Link":   sh.FormLink,
			"Filled":      strconv.FormatBool(sh.FillFormStatus),
			"Created At":  sh.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return export.Dataset{
		Headers: []string{"ID", "Filename", "Description", "Form Link", "Filled", "Created At"},
		Rows:    rows,
	}, nil
}
