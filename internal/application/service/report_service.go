package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/garyjia/school-leave/internal/application/port"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/garyjia/school-leave/internal/report"
)

// ReportArchiveDir is the storage folder for exported reports
const ReportArchiveDir = "reports"

// ErrArchiveNotFound is returned for an archived report that does not exist,
// or when no archive is configured
var ErrArchiveNotFound = errors.New("archived report not found")

var archiveContentTypes = map[string]string{
	".csv":  "text/csv; charset=utf-8",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Export is a rendered report file
type Export struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService renders exports and memos
type ReportService interface {
	ExportCSV(ctx context.Context, now time.Time) (*Export, error)
	ExportWorkbook(ctx context.Context, now time.Time) (*Export, error)
	Memo(ctx context.Context, id string, now time.Time) ([]byte, error)
	MemoFromSubmission(sub *entity.Submission, now time.Time) ([]byte, error)
	// Archived returns a previously exported report by file name
	Archived(ctx context.Context, name string) (*Export, error)
	DeleteArchived(ctx context.Context, name string) error
}

// ReportConfig holds the rendering settings
type ReportConfig struct {
	SchoolName string
	Location   *time.Location
}

type reportServiceImpl struct {
	leaves  LeaveService
	storage port.FileStorage
	cfg     ReportConfig
	logger  Logger
}

// NewReportService creates a new ReportService. storage may be nil, in
// which case exports are not archived.
func NewReportService(leaves LeaveService, storage port.FileStorage, cfg ReportConfig, logger Logger) ReportService {
	_, logger, _ = orDefaults(nil, logger, nil)
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &reportServiceImpl{
		leaves:  leaves,
		storage: storage,
		cfg:     cfg,
		logger:  logger,
	}
}

// ExportCSV renders every request as CSV, newest first
func (s *reportServiceImpl) ExportCSV(ctx context.Context, now time.Time) (*Export, error) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, s.leaves.List(ctx, ListFilter{}), s.cfg.Location); err != nil {
		return nil, err
	}

	exp := &Export{
		FileName:    report.FileName(now, "csv"),
		ContentType: archiveContentTypes[".csv"],
		Content:     buf.Bytes(),
	}
	s.archive(ctx, exp)
	return exp, nil
}

// ExportWorkbook renders every request as an XLSX workbook, newest first
func (s *reportServiceImpl) ExportWorkbook(ctx context.Context, now time.Time) (*Export, error) {
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, s.leaves.List(ctx, ListFilter{}), s.cfg.Location); err != nil {
		return nil, err
	}

	exp := &Export{
		FileName:    report.FileName(now, "xlsx"),
		ContentType: archiveContentTypes[".xlsx"],
		Content:     buf.Bytes(),
	}
	s.archive(ctx, exp)
	return exp, nil
}

// Memo renders the printable memo of a stored request
func (s *reportServiceImpl) Memo(ctx context.Context, id string, now time.Time) ([]byte, error) {
	leave, err := s.leaves.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.renderMemo(leave, now)
}

// MemoFromSubmission renders the memo of a form that has not been submitted.
// Incomplete forms are accepted; missing values render as dotted blanks.
func (s *reportServiceImpl) MemoFromSubmission(sub *entity.Submission, now time.Time) ([]byte, error) {
	leave := sub.ToLeaveRequest(time.Time{})
	if sub.StartDate.IsZero() || sub.EndDate.IsZero() {
		leave.TotalDays = 0
	}
	return s.renderMemo(leave, now)
}

func (s *reportServiceImpl) renderMemo(leave *entity.LeaveRequest, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	data := report.NewMemoData(leave, s.cfg.SchoolName, now, s.cfg.Location)
	if err := report.RenderMemo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// archive keeps a copy of the export. Failures are logged; the export is
// still returned to the caller.
func (s *reportServiceImpl) archive(ctx context.Context, exp *Export) {
	if s.storage == nil {
		return
	}
	p := path.Join(ReportArchiveDir, exp.FileName)
	if err := s.storage.Save(ctx, p, exp.Content); err != nil {
		s.logger.Error("Failed to archive report", "path", p, "error", err)
		return
	}
	s.logger.Info("Report archived", "path", p, "bytes", len(exp.Content))
}

// Archived reads an export kept by archive. name is a bare file name such
// as report_leave_2023-10-20.csv.
func (s *reportServiceImpl) Archived(ctx context.Context, name string) (*Export, error) {
	p, contentType, err := s.archivePath(ctx, name)
	if err != nil {
		return nil, err
	}

	content, err := s.storage.Read(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("read archived report %s: %w", name, err)
	}
	return &Export{FileName: name, ContentType: contentType, Content: content}, nil
}

// DeleteArchived removes an export kept by archive
func (s *reportServiceImpl) DeleteArchived(ctx context.Context, name string) error {
	p, _, err := s.archivePath(ctx, name)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, p); err != nil {
		return fmt.Errorf("delete archived report %s: %w", name, err)
	}
	s.logger.Info("Archived report deleted", "path", p)
	return nil
}

func (s *reportServiceImpl) archivePath(ctx context.Context, name string) (string, string, error) {
	contentType, ok := archiveContentTypes[path.Ext(name)]
	if s.storage == nil || !ok || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return "", "", fmt.Errorf("%w: %s", ErrArchiveNotFound, name)
	}

	p := path.Join(ReportArchiveDir, name)
	if !s.storage.Exists(ctx, p) {
		return "", "", fmt.Errorf("%w: %s", ErrArchiveNotFound, name)
	}
	return p, contentType, nil
}
