package store

import (
	"context"
	"fmt"

	"rinkops/internal/models"
)

// ListProgramSettings retrieves all program settings in display order
func (s *Store) ListProgramSettings(ctx context.Context) ([]models.ProgramSetting, error) {
	var settings []models.ProgramSetting
	err := s.db.SelectContext(ctx, &settings,
		"SELECT * FROM program_settings ORDER BY display_order ASC, program_name ASC")
	return settings, err
}

// UpsertProgramSetting inserts or updates settings keyed by program name.
func (s *Store) UpsertProgramSetting(ctx context.Context, setting *models.ProgramSetting) error {
	err := s.db.GetContext(ctx, &setting.ID, `
		INSERT INTO program_settings (program_name, status, display_order, start_date, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (program_name) DO UPDATE SET
			status = EXCLUDED.status,
			display_order = EXCLUDED.display_order,
			start_date = EXCLUDED.start_date,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id`,
		setting.ProgramName, setting.Status, setting.DisplayOrder,
		setting.StartDate, setting.Notes)
	if err != nil {
		return fmt.Errorf("failed to upsert program setting: %w", err)
	}
	return nil
}

// ListProgramColors retrieves all program color assignments
func (s *Store) ListProgramColors(ctx context.Context) ([]models.ProgramColor, error) {
	var colors []models.ProgramColor
	err := s.db.SelectContext(ctx, &colors,
		"SELECT * FROM program_colors ORDER BY program_name")
	return colors, err
}

// UpsertProgramColor inserts or updates a color keyed by program name.
func (s *Store) UpsertProgramColor(ctx context.Context, color *models.ProgramColor) error {
	err := s.db.GetContext(ctx, &color.ID, `
		INSERT INTO program_colors (program_name, color)
		VALUES ($1, $2)
		ON CONFLICT (program_name) DO UPDATE SET color = EXCLUDED.color
		RETURNING id`,
		color.ProgramName, color.Color)
	if err != nil {
		return fmt.Errorf("failed to upsert program color: %w", err)
	}
	return nil
}

// ListEmailTemplates retrieves all templates by name
func (s *Store) ListEmailTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	var templates []models.EmailTemplate
	err := s.db.SelectContext(ctx, &templates,
		"SELECT * FROM email_templates ORDER BY name ASC")
	return templates, err
}

// CreateEmailTemplate inserts a template and fills in its ID.
func (s *Store) CreateEmailTemplate(ctx context.Context, tmpl *models.EmailTemplate) error {
	err := s.db.GetContext(ctx, &tmpl.ID, `
		INSERT INTO email_templates (name, description, template_html)
		VALUES ($1, $2, $3)
		RETURNING id`,
		tmpl.Name, tmpl.Description, tmpl.TemplateHTML)
	if err != nil {
		return fmt.Errorf("failed to create email template: %w", err)
	}
	return nil
}

// UpdateEmailTemplate updates an existing template
func (s *Store) UpdateEmailTemplate(ctx context.Context, tmpl *models.EmailTemplate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE email_templates
		SET name = $1, description = $2, template_html = $3
		WHERE id = $4`,
		tmpl.Name, tmpl.Description, tmpl.TemplateHTML, tmpl.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("email template not found: %d", tmpl.ID)
	}
	return nil
}

// DeleteEmailTemplate removes a template
func (s *Store) DeleteEmailTemplate(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM email_templates WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("email template not found: %d", id)
	}
	return nil
}
