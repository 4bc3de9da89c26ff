package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/tabview"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

type sheetAPI interface {
	ListSheets(ctx context.Context, token string) ([]*models.Sheet, error)
	ListSheetsAvailable(ctx context.Context, token string) ([]*models.Sheet, error)
	GetSheet(ctx context.Context, token string, id int) (*models.Sheet, error)
	CreateSheet(ctx context.Context, token string, req models.SheetPayload) (*models.Sheet, error)
	UpdateSheet(ctx context.Context, token string, id int, req models.SheetPayload) (*models.Sheet, error)
	DeleteSheet(ctx context.Context, token string, id int) (*models.Sheet, error)
}

// SheetList is one page of the admin sheet table.
type SheetList struct {
	Sheets     []*models.Sheet
	Pagination *models.Pagination
}

// SheetService wraps the assessment sheet surface of the assessment service.
type SheetService struct {
	api       sheetAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSheetService constructs a SheetService instance.
func NewSheetService(api sheetAPI, validate *validator.Validate, logger *zap.Logger) *SheetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SheetService{api: api, validator: validate, logger: logger}
}

// List fetches every sheet and applies filter, sort and pagination locally.
func (s *SheetService) List(ctx context.Context, token string, filter models.ListFilter) (*SheetList, error) {
	sheets, err := s.api.ListSheets(ctx, token)
	if err != nil {
		return nil, err
	}

	q := listQuery(filter, "sheet_filename")
	result := tabview.View(sheets, q, models.SheetFields())

	return &SheetList{
		Sheets:     result.Rows,
		Pagination: paginationFor(q, result.TotalMatching),
	}, nil
}

// Available returns sheets not yet bound to a project.
func (s *SheetService) Available(ctx context.Context, token string) ([]*models.Sheet, error) {
	return s.api.ListSheetsAvailable(ctx, token)
}

// Get returns a single sheet by ID.
func (s *SheetService) Get(ctx context.Context, token string, id int) (*models.Sheet, error) {
	return s.api.GetSheet(ctx, token, id)
}

// Create registers a sheet.
func (s *SheetService) Create(ctx context.Context, token string, req models.SheetPayload) (*models.Sheet, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sheet payload")
	}
	return s.api.CreateSheet(ctx, token, req)
}

// Update modifies a sheet.
func (s *SheetService) Update(ctx context.Context, token string, id int, req models.SheetPayload) (*models.Sheet, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sheet payload")
	}
	return s.api.UpdateSheet(ctx, token, id, req)
}

// Delete removes a sheet and returns its final state.
func (s *SheetService) Delete(ctx context.Context, token string, id int) (*models.Sheet, error) {
	return s.api.DeleteSheet(ctx, token, id)
}
