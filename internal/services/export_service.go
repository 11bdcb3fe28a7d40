package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"stajdefteri/internal/export"
	"stajdefteri/pkg/logger"
)

type ExportServiceInterface interface {
	Export(ctx context.Context, studentID, format string) (*export.File, error)
}

type ExportService struct {
	workspace *Workspace
	compiler  *export.Compiler
	log       *logger.Logger
}

func NewExportService(workspace *Workspace, compiler *export.Compiler, log *logger.Logger) ExportServiceInterface {
	return &ExportService{
		workspace: workspace,
		compiler:  compiler,
		log:       log.With("service", "ExportService"),
	}
}

// Export renders the student's saved days from a snapshot of the journal.
func (s *ExportService) Export(ctx context.Context, studentID, format string) (*export.File, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	j, err := s.workspace.View(ctx, studentID)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "export.compile")
	span.SetAttributes(attribute.String("format", string(f)))
	defer span.End()

	file, err := s.compiler.Compile(ctx, j, f)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "export failed")
		return nil, err
	}
	return file, nil
}
