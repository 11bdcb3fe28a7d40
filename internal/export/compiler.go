package export

import (
	"context"
	"fmt"

	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

// ImageFetcher loads one image as JPEG bytes.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
	FetchAll(ctx context.Context, sections []Section)
}

type Compiler struct {
	images ImageFetcher
	log    *logger.Logger
}

func NewCompiler(images ImageFetcher, log *logger.Logger) *Compiler {
	return &Compiler{images: images, log: log.With("component", "ExportCompiler")}
}

// Compile renders the saved days of j. Image and cover failures are logged
// and leave the document without them.
func (c *Compiler) Compile(ctx context.Context, j *dm.Journal, f Format) (*File, error) {
	sections := BuildSections(j.Days)
	if len(sections) == 0 {
		return nil, utils.ErrNothingToExport
	}
	doc := Document{Profile: j.Profile, Sections: sections}

	if f != FormatXLSX {
		c.images.FetchAll(ctx, doc.Sections)
		cover, err := RenderCover(j.Profile, sections[0].Date, sections[len(sections)-1].Date)
		if err != nil {
			c.log.Warn("cover skipped", "error", err)
		} else {
			doc.Cover = cover
		}
	}

	var (
		data []byte
		err  error
	)
	switch f {
	case FormatDOCX:
		data, err = RenderDOCX(doc)
	case FormatPDF:
		data, err = RenderPDF(doc)
	case FormatXLSX:
		data, err = RenderXLSX(doc)
	default:
		return nil, fmt.Errorf("%w: %q", utils.ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrExportFailed, err)
	}
	c.log.Info("export compiled", "student_id", j.StudentID, "format", string(f), "days", len(sections), "bytes", len(data))
	return &File{
		Filename:    Filename(j.Profile.Name, f),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}
