package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/tabview"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

type projectAPI interface {
	ListProjects(ctx context.Context, token string) ([]*models.Project, error)
	GetProject(ctx context.Context, token string, id int) (*models.Project, error)
	GetProjectDetail(ctx context.Context, token string, id int) (map[string]interface{}, error)
	CreateProject(ctx context.Context, token string, req models.ProjectPayload) (*models.Project, error)
	UpdateProject(ctx context.Context, token string, id int, req models.ProjectPayload) (*models.Project, error)
	DeleteProject(ctx context.Context, token string, id int) (*models.Project, error)
	CalculateScores(ctx context.Context, token string, id int) error
}

// ProjectList is one page of the admin project table.
type ProjectList struct {
	Projects   []*models.Project
	Pagination *models.Pagination
}

// ProjectService wraps the project surface of the assessment service.
type ProjectService struct {
	api       projectAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProjectService constructs a ProjectService instance.
func NewProjectService(api projectAPI, validate *validator.Validate, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProjectService{api: api, validator: validate, logger: logger}
}

// List fetches every project and applies filter, sort and pagination locally.
func (s *ProjectService) List(ctx context.Context, token string, filter models.ListFilter) (*ProjectList, error) {
	projects, err := s.api.ListProjects(ctx, token)
	if err != nil {
		return nil, err
	}

	q := listQuery(filter, "name")
	result := tabview.View(projects, q, models.ProjectFields())

	return &ProjectList{
		Projects:   result.Rows,
		Pagination: paginationFor(q, result.TotalMatching),
	}, nil
}

// Get returns a single project by ID.
func (s *ProjectService) Get(ctx context.Context, token string, id int) (*models.Project, error) {
	return s.api.GetProject(ctx, token, id)
}

// Detail returns the expanded project view including collected assessment
// data. The shape is owned by the assessment service and passed through
// untouched.
func (s *ProjectService) Detail(ctx context.Context, token string, id int) (map[string]interface{}, error) {
	return s.api.GetProjectDetail(ctx, token, id)
}

// Create creates a project with an assigned moderator and sheet.
func (s *ProjectService) Create(ctx context.Context, token string, req models.ProjectPayload) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	return s.api.CreateProject(ctx, token, req)
}

// Update modifies a project.
func (s *ProjectService) Update(ctx context.Context, token string, id int, req models.ProjectPayload) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	return s.api.UpdateProject(ctx, token, id, req)
}

// Delete removes a project and returns its final state.
func (s *ProjectService) Delete(ctx context.Context, token string, id int) (*models.Project, error) {
	return s.api.DeleteProject(ctx, token, id)
}

// Calculate kicks off score recalculation. The assessment service runs it in
// the background, so success only means the job was accepted.
func (s *ProjectService) Calculate(ctx context.Context, token string, id int) error {
	if err := s.api.CalculateScores(ctx, token, id); err != nil {
		return err
	}
	s.logger.Info("score calculation requested", zap.Int("project_id", id))
	return nil
}
