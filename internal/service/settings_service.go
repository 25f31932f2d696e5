package service

import (
	"context"
	"strings"
	"time"

	"rinkops/internal/models"
	"rinkops/internal/program"
	"rinkops/internal/util"

	"go.uber.org/zap"
)

// SettingsStore is the slice of the store for operator-maintained program
// metadata.
type SettingsStore interface {
	ListProgramSettings(ctx context.Context) ([]models.ProgramSetting, error)
	UpsertProgramSetting(ctx context.Context, setting *models.ProgramSetting) error
	ListProgramColors(ctx context.Context) ([]models.ProgramColor, error)
	UpsertProgramColor(ctx context.Context, color *models.ProgramColor) error
	ListEmailTemplates(ctx context.Context) ([]models.EmailTemplate, error)
	CreateEmailTemplate(ctx context.Context, tmpl *models.EmailTemplate) error
	UpdateEmailTemplate(ctx context.Context, tmpl *models.EmailTemplate) error
	DeleteEmailTemplate(ctx context.Context, id int64) error
}

// SettingsService manages program settings, colors and email templates.
type SettingsService struct {
	store  SettingsStore
	logger *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(st SettingsStore) *SettingsService {
	return &SettingsService{store: st, logger: util.GetLogger()}
}

// ListSettings returns all program settings in display order.
func (ss *SettingsService) ListSettings(ctx context.Context) ([]models.ProgramSetting, error) {
	settings, err := ss.store.ListProgramSettings(ctx)
	if err != nil {
		return nil, storeError("failed to list program settings", err)
	}
	return settings, nil
}

// ProgramSettingRequest upserts settings for one program.
type ProgramSettingRequest struct {
	ProgramName  string     `json:"program_name" binding:"required"`
	Status       string     `json:"status"`
	DisplayOrder int        `json:"display_order"`
	StartDate    *time.Time `json:"start_date"`
	Notes        string     `json:"notes"`
}

func validProgramStatus(status string) bool {
	switch status {
	case models.ProgramOpenRegistration, models.ProgramInProgress,
		models.ProgramCompleted, models.ProgramArchived:
		return true
	}
	return false
}

// SaveSetting upserts a program's settings keyed by its canonical name.
func (ss *SettingsService) SaveSetting(ctx context.Context, req *ProgramSettingRequest) (*models.ProgramSetting, error) {
	name := program.Normalize(req.ProgramName)
	if name == "" {
		return nil, validationError("program_name is required")
	}
	status := req.Status
	if status == "" {
		status = models.ProgramOpenRegistration
	}
	if !validProgramStatus(status) {
		return nil, validationError("invalid program status %q", status)
	}

	setting := &models.ProgramSetting{
		ProgramName:  name,
		Status:       status,
		DisplayOrder: req.DisplayOrder,
		StartDate:    req.StartDate,
		Notes:        req.Notes,
	}
	if err := ss.store.UpsertProgramSetting(ctx, setting); err != nil {
		return nil, storeError("failed to save program setting", err)
	}
	return setting, nil
}

// ListColors returns all program color assignments.
func (ss *SettingsService) ListColors(ctx context.Context) ([]models.ProgramColor, error) {
	colors, err := ss.store.ListProgramColors(ctx)
	if err != nil {
		return nil, storeError("failed to list program colors", err)
	}
	return colors, nil
}

// SaveColor upserts a program's display color.
func (ss *SettingsService) SaveColor(ctx context.Context, programName, color string) (*models.ProgramColor, error) {
	name := program.Normalize(programName)
	if name == "" {
		return nil, validationError("program_name is required")
	}
	if strings.TrimSpace(color) == "" {
		return nil, validationError("color is required")
	}

	pc := &models.ProgramColor{ProgramName: name, Color: color}
	if err := ss.store.UpsertProgramColor(ctx, pc); err != nil {
		return nil, storeError("failed to save program color", err)
	}
	return pc, nil
}

// ListTemplates returns all stored email templates.
func (ss *SettingsService) ListTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	templates, err := ss.store.ListEmailTemplates(ctx)
	if err != nil {
		return nil, storeError("failed to list email templates", err)
	}
	return templates, nil
}

// EmailTemplateRequest creates or updates a template; ID zero means create.
type EmailTemplateRequest struct {
	ID           int64  `json:"id"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	TemplateHTML string `json:"template_html" binding:"required"`
}

// SaveTemplate creates or updates a stored email template.
func (ss *SettingsService) SaveTemplate(ctx context.Context, req *EmailTemplateRequest) (*models.EmailTemplate, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, validationError("name is required")
	}
	if strings.TrimSpace(req.TemplateHTML) == "" {
		return nil, validationError("template_html is required")
	}

	tmpl := &models.EmailTemplate{
		ID:           req.ID,
		Name:         req.Name,
		Description:  req.Description,
		TemplateHTML: req.TemplateHTML,
	}

	if tmpl.ID > 0 {
		if err := ss.store.UpdateEmailTemplate(ctx, tmpl); err != nil {
			return nil, notFoundError("failed to update email template", err)
		}
		return tmpl, nil
	}
	if err := ss.store.CreateEmailTemplate(ctx, tmpl); err != nil {
		return nil, storeError("failed to create email template", err)
	}
	return tmpl, nil
}

// DeleteTemplate removes a stored email template.
func (ss *SettingsService) DeleteTemplate(ctx context.Context, id int64) error {
	if err := ss.store.DeleteEmailTemplate(ctx, id); err != nil {
		return notFoundError("failed to delete email template", err)
	}
	ss.logger.Info("Email template deleted", zap.Int64("template_id", id))
	return nil
}
