package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirphl/studio-hiring-api/models"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{
	"id", "name", "email", "phone", "resume_url", "portfolio_url", "experience",
	"cover_letter", "status", "notes", "reviewed_by", "reviewed_at", "created_at",
}

// ExportJobApplications writes every application of one posting to an XLSX workbook
func (f *ApplicationFlowImpl) ExportJobApplications(ctx context.Context, jobID string) (string, []byte, error) {
	if _, err := parseIdentifier(jobID); err != nil {
		return "", nil, err
	}

	job, err := f.jobRepo.ByUUID(ctx, jobID)
	if err != nil {
		return "", nil, NewBusinessError("JOB_LOOKUP_FAILED", "Failed to lookup job posting", err)
	}
	if job == nil {
		return "", nil, NewBusinessError("JOB_NOT_FOUND", "Job posting not found", ErrJobNotFound)
	}

	apps, err := f.appRepo.ByFilter(ctx, models.ApplicationFilter{JobID: &job.ID}, "applications.created_at ASC, applications.id ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("APPLICATION_LIST_FAILED", "Failed to list applications", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := sanitizeSheetName(job.Title)
	if err := xl.SetSheetName(xl.GetSheetName(0), sheet); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to prepare Excel sheet", err)
	}

	if err := writeExportRow(xl, sheet, 1, exportHeader); err != nil {
		return "", nil, err
	}

	for i, app := range apps {
		reviewer := ""
		if app.ReviewedBy != nil {
			reviewer = app.ReviewedBy.Username
		}
		record := []string{
			app.UUID.String(),
			app.Name,
			app.Email,
			deref(app.Phone),
			app.ResumeURL,
			deref(app.PortfolioURL),
			deref(app.Experience),
			app.CoverLetter,
			string(app.Status),
			deref(app.Notes),
			reviewer,
			formatOptionalTime(app.ReviewedAt),
			app.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writeExportRow(xl, sheet, i+2, record); err != nil {
			return "", nil, err
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("applications_%s_%s.xlsx", slugify(job.Title), f.clock().UTC().Format("20060102"))
	return filename, buf.Bytes(), nil
}

func writeExportRow(xl *excelize.File, sheet string, row int, values []string) error {
	cellRef, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel row", err)
	}
	if err := xl.SetSheetRow(sheet, cellRef, &values); err != nil {
		return NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel row", err)
	}
	return nil
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := strings.TrimSpace(replacer.Replace(name))
	if safe == "" {
		return "Applications"
	}
	if r := []rune(safe); len(r) > 31 {
		return string(r[:31])
	}
	return safe
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "job"
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
