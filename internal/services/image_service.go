package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"stajdefteri/internal/infra"
	"stajdefteri/internal/journal"
	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/internal/models/request_models"
	"stajdefteri/pkg/logger"
	mem "stajdefteri/pkg/memcache"
	"stajdefteri/pkg/utils"
)

const (
	MaxUploadBytes     = 10 << 20
	uploadMaxDimension = 1600
	pickerSessionTTL   = 30 * time.Minute
	maxCaptionRunes    = 240
)

const describeInstruction = `Sen bir staj defteri editörüsün. Verilen görseli staj raporunda kullanılacak tek cümlelik,
teknik ve resmi bir Türkçe açıklama ile tanımla. Yalnızca açıklama cümlesini yaz.`

const analysisInstruction = `You review images for an electrical engineering internship journal written in Turkish.
Return only a JSON object with these fields:
imageType (one of "technical_drawing", "field_photo", "diagram_table", "other"),
imageTypeConfidence (0..1), suitabilityScore (0..100), suitabilityReason (Turkish),
qualityAssessment (one of "iyi", "orta", "zayıf"), detectedElements (array of Turkish strings),
technicalDescription (Turkish), suggestedTopic (short Turkish topic),
suggestedContent (one Turkish sentence describing the work shown),
alternativeSearchTerms (array of English search phrases).`

// ImageFetcher loads an image as JPEG bytes for the vision model.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

type ImageServiceInterface interface {
	SearchStock(ctx context.Context, studentID string, dayNumber int, req request_models.SearchImagesRequest) (*dm.SearchSession, error)
	PickStock(ctx context.Context, studentID string, dayNumber int, req request_models.PickImageRequest) (dm.DayEntry, error)
	AutoSearch(ctx context.Context, studentID string, dayNumber int) (dm.DayEntry, error)
	AnalyzeUpload(ctx context.Context, studentID string, dayNumber int, data []byte) (*dm.AnalyzedUpload, error)
	AcceptAnalysis(ctx context.Context, studentID string, dayNumber int, req request_models.AcceptAnalysisRequest) (dm.DayEntry, error)
	ClearImage(ctx context.Context, studentID string, dayNumber int) (dm.DayEntry, error)
}

// pendingAnalysis waits for the student to accept or ignore an upload.
type pendingAnalysis struct {
	StudentID string
	Upload    dm.AnalyzedUpload
}

type ImageSearchers struct {
	// Stock serves manual searches, Auto serves automatic ones. Either may be
	// nil when its provider is not configured.
	Stock ImageSearcher
	Auto  ImageSearcher
}

type ImageService struct {
	workspace *Workspace
	searchers ImageSearchers
	queries   *QueryGenerator
	ai        utils.GenerativeClientInterface
	fetcher   ImageFetcher
	storage   infra.ImageStorage
	sessions  mem.SessionStore[dm.SearchSession]
	analyses  mem.SessionStore[pendingAnalysis]
	log       *logger.Logger
}

func NewImageService(
	workspace *Workspace,
	searchers ImageSearchers,
	queries *QueryGenerator,
	ai utils.GenerativeClientInterface,
	fetcher ImageFetcher,
	storage infra.ImageStorage,
	log *logger.Logger,
) ImageServiceInterface {
	return &ImageService{
		workspace: workspace,
		searchers: searchers,
		queries:   queries,
		ai:        ai,
		fetcher:   fetcher,
		storage:   storage,
		sessions:  mem.NewSessions[dm.SearchSession](),
		analyses:  mem.NewSessions[pendingAnalysis](),
		log:       log.With("service", "ImageService"),
	}
}

func (s *ImageService) day(ctx context.Context, studentID string, dayNumber int) (dm.DayEntry, error) {
	j, err := s.workspace.View(ctx, studentID)
	if err != nil {
		return dm.DayEntry{}, err
	}
	return findDay(j, dayNumber)
}

var guideTerms = map[dm.VisualGuide]string{
	dm.VisualTechnicalDrawing: "teknik çizim",
	dm.VisualFieldPhoto:       "saha fotoğrafı",
	dm.VisualDiagramTable:     "şema tablo",
}

// SearchStock runs a manual search. Provider errors are logged and reported
// as an empty result list.
func (s *ImageService) SearchStock(ctx context.Context, studentID string, dayNumber int, req request_models.SearchImagesRequest) (*dm.SearchSession, error) {
	day, err := s.day(ctx, studentID, dayNumber)
	if err != nil {
		return nil, err
	}
	guide := dm.VisualGuide(req.Guide)
	if !guide.Valid() {
		return nil, utils.ErrInvalidInput
	}
	query := utils.CollapseSpaces(req.Query)
	if query == "" {
		query = utils.CollapseSpaces(day.SpecificTopic + " " + guideTerms[guide])
	}

	var results []dm.StockImage
	if s.searchers.Stock == nil {
		s.log.Warn("stock search not configured")
	} else {
		ctx, span := tracer.Start(ctx, "images.search_stock")
		span.SetAttributes(attribute.String("query", query))
		raw, err := s.searchers.Stock.Search(ctx, query)
		span.End()
		if err != nil {
			s.log.Warn("stock search failed", "student_id", studentID, "day", dayNumber, "error", err)
		}
		results = FilterImages(raw)
	}

	session := dm.SearchSession{
		ID:        uuid.NewString(),
		StudentID: studentID,
		DayNumber: dayNumber,
		Results:   results,
	}
	s.sessions.Set(session.ID, session, pickerSessionTTL)
	s.log.Debug("stock search", "student_id", studentID, "day", dayNumber, "query", query, "results", len(results))
	return &session, nil
}

// PickStock consumes the search session; a second pick must search again.
// A rejected pick (bad index, busy day) leaves the session usable.
func (s *ImageService) PickStock(ctx context.Context, studentID string, dayNumber int, req request_models.PickImageRequest) (dm.DayEntry, error) {
	session, ok := s.sessions.Peek(req.SessionID)
	if !ok || session.StudentID != studentID || session.DayNumber != dayNumber {
		return dm.DayEntry{}, utils.ErrSessionExpired
	}
	if req.Index < 0 || req.Index >= len(session.Results) {
		return dm.DayEntry{}, utils.ErrInvalidInput
	}
	day, err := s.day(ctx, studentID, dayNumber)
	if err != nil {
		return dm.DayEntry{}, err
	}
	if day.Busy() {
		return dm.DayEntry{}, utils.ErrDayBusy
	}
	// Two concurrent picks both pass Peek; only one gets the session.
	if _, ok := s.sessions.Consume(req.SessionID); !ok {
		return dm.DayEntry{}, utils.ErrSessionExpired
	}
	return s.selectImage(ctx, studentID, dayNumber, session.Results[req.Index].URL, dm.ImageSourceStock)
}

// AutoSearch builds a query for the day's topic and takes the first result
// that passes the domain filter.
func (s *ImageService) AutoSearch(ctx context.Context, studentID string, dayNumber int) (dm.DayEntry, error) {
	day, err := s.day(ctx, studentID, dayNumber)
	if err != nil {
		return dm.DayEntry{}, err
	}
	if day.Busy() {
		return dm.DayEntry{}, utils.ErrDayBusy
	}
	searcher := s.searchers.Auto
	if searcher == nil {
		searcher = s.searchers.Stock
	}
	if searcher == nil {
		s.log.Warn("automatic search not configured")
		return dm.DayEntry{}, utils.ErrNoImageFound
	}

	query := s.queries.Query(ctx, day)
	ctx, span := tracer.Start(ctx, "images.auto_search")
	span.SetAttributes(attribute.String("query", query), attribute.Int("day_number", dayNumber))
	raw, err := searcher.Search(ctx, query)
	span.End()
	if err != nil {
		s.log.Warn("automatic search failed", "student_id", studentID, "day", dayNumber, "query", query, "error", err)
	}
	results := FilterImages(raw)
	if len(results) == 0 {
		return dm.DayEntry{}, utils.ErrNoImageFound
	}
	s.log.Info("automatic image found", "student_id", studentID, "day", dayNumber, "query", query, "domain", results[0].Domain)
	return s.selectImage(ctx, studentID, dayNumber, results[0].URL, dm.ImageSourceSearch)
}

// AnalyzeUpload stores the upload and asks the vision model about it. A
// failed analysis still returns the stored image.
func (s *ImageService) AnalyzeUpload(ctx context.Context, studentID string, dayNumber int, data []byte) (*dm.AnalyzedUpload, error) {
	if len(data) > MaxUploadBytes {
		return nil, utils.ErrImageTooLarge
	}
	if _, err := s.day(ctx, studentID, dayNumber); err != nil {
		return nil, err
	}
	jpg, _, err := utils.NormalizeToJPEG(data, uploadMaxDimension, uploadMaxDimension)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	key := fmt.Sprintf("uploads/%s/%d/%s.jpg", studentID, dayNumber, id)
	imageURL, err := s.storage.Put(ctx, key, utils.JPEGMimeType, jpg)
	if err != nil {
		return nil, fmt.Errorf("%w: store upload: %v", utils.ErrDatabaseError, err)
	}

	upload := dm.AnalyzedUpload{ID: id, DayNumber: dayNumber, ImageURL: imageURL}
	ctx, span := tracer.Start(ctx, "images.analyze_upload")
	raw, err := s.ai.Generate(ctx, utils.GenerateRequest{
		System:      analysisInstruction,
		Prompt:      "Analyze this image.",
		Temperature: 0.2,
		JSON:        true,
		Image:       &utils.ImageInput{MIMEType: utils.JPEGMimeType, Data: jpg},
	})
	if err == nil {
		err = utils.DecodeJSONResponse(raw, &upload.Analysis)
	}
	span.End()
	if err != nil {
		s.log.Warn("image analysis failed", "student_id", studentID, "day", dayNumber, "error", err)
		upload.Analysis = dm.ImageAnalysis{}
	} else {
		upload.Analyzed = true
	}

	s.analyses.Set(id, pendingAnalysis{StudentID: studentID, Upload: upload}, pickerSessionTTL)
	return &upload, nil
}

// AcceptAnalysis sets the uploaded image on the day. With ApplySuggestion the
// suggested topic and content direction replace the plan values first.
func (s *ImageService) AcceptAnalysis(ctx context.Context, studentID string, dayNumber int, req request_models.AcceptAnalysisRequest) (dm.DayEntry, error) {
	pending, ok := s.analyses.Consume(req.AnalysisID)
	if !ok || pending.StudentID != studentID || pending.Upload.DayNumber != dayNumber {
		return dm.DayEntry{}, utils.ErrSessionExpired
	}

	if req.ApplySuggestion && pending.Upload.Analyzed {
		action := journal.PlanEdited{DayNumber: dayNumber}
		if topic := utils.CollapseSpaces(pending.Upload.Analysis.SuggestedTopic); topic != "" {
			action.SpecificTopic = &topic
		}
		if directive := strings.TrimSpace(pending.Upload.Analysis.SuggestedContent); directive != "" {
			action.CustomDirective = &directive
		}
		if action.SpecificTopic != nil || action.CustomDirective != nil {
			_, err := s.workspace.Update(ctx, studentID, func(j *dm.Journal) (*dm.Journal, error) {
				day, err := findDay(j, dayNumber)
				if err != nil {
					return nil, err
				}
				if day.Busy() {
					return nil, utils.ErrDayBusy
				}
				j.Days = journal.Reduce(j.Days, action)
				if err := s.workspace.PersistPlan(ctx, j); err != nil {
					return nil, err
				}
				return j, nil
			})
			if err != nil {
				return dm.DayEntry{}, err
			}
		}
	}
	return s.selectImage(ctx, studentID, dayNumber, pending.Upload.ImageURL, dm.ImageSourceAnalyzed)
}

// ClearImage removes the image. A saved day is re-persisted without it.
func (s *ImageService) ClearImage(ctx context.Context, studentID string, dayNumber int) (dm.DayEntry, error) {
	j, err := s.workspace.Update(ctx, studentID, func(j *dm.Journal) (*dm.Journal, error) {
		day, err := findDay(j, dayNumber)
		if err != nil {
			return nil, err
		}
		if day.IsImageLoading {
			return nil, utils.ErrDayBusy
		}
		j.Days = journal.Reduce(j.Days, journal.ImageCleared{DayNumber: dayNumber})
		s.writeThrough(ctx, j, dayNumber)
		return j, nil
	})
	if err != nil {
		return dm.DayEntry{}, err
	}
	return findDay(j, dayNumber)
}

// selectImage marks the day as loading, asks for a caption outside the lock
// and then sets the image.
func (s *ImageService) selectImage(ctx context.Context, studentID string, dayNumber int, imageURL string, source dm.ImageSource) (dm.DayEntry, error) {
	_, err := s.workspace.Update(ctx, studentID, func(j *dm.Journal) (*dm.Journal, error) {
		day, err := findDay(j, dayNumber)
		if err != nil {
			return nil, err
		}
		if day.Busy() {
			return nil, utils.ErrDayBusy
		}
		j.Days = journal.Reduce(j.Days, journal.ImageLoading{DayNumber: dayNumber, At: s.workspace.stamp()})
		return j, nil
	})
	if err != nil {
		return dm.DayEntry{}, err
	}

	finished := false
	defer func() {
		if !finished {
			s.workspace.clearBusy(ctx, studentID, journal.ImageFailed{DayNumber: dayNumber})
		}
	}()
	caption := s.describe(ctx, imageURL)
	finished = true

	j, err := s.workspace.Update(context.WithoutCancel(ctx), studentID, func(j *dm.Journal) (*dm.Journal, error) {
		j.Days = journal.Reduce(j.Days, journal.ImageSelected{
			DayNumber: dayNumber,
			URL:       imageURL,
			Source:    source,
			Caption:   caption,
		})
		s.writeThrough(ctx, j, dayNumber)
		return j, nil
	})
	if err != nil {
		return dm.DayEntry{}, err
	}
	s.log.Info("image selected", "student_id", studentID, "day", dayNumber, "source", string(source), "has_caption", caption != "")
	return findDay(j, dayNumber)
}

// writeThrough re-persists a saved day after its image changed. When the
// write fails the day is marked unsaved so the student can save again.
func (s *ImageService) writeThrough(ctx context.Context, j *dm.Journal, dayNumber int) {
	day, err := findDay(j, dayNumber)
	if err != nil || !day.IsSaved {
		return
	}
	if err := s.workspace.PersistDay(context.WithoutCancel(ctx), j.StudentID, day); err != nil {
		s.log.Error("image write-through failed", "student_id", j.StudentID, "day", dayNumber, "error", err)
		j.Days = journal.Reduce(j.Days, journal.Deleted{DayNumber: dayNumber})
	}
}

// describe returns a one sentence caption or "" when anything fails.
func (s *ImageService) describe(ctx context.Context, imageURL string) string {
	data, err := s.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		s.log.Debug("caption skipped, image not loadable", "error", err)
		return ""
	}
	raw, err := s.ai.Generate(ctx, utils.GenerateRequest{
		System:      describeInstruction,
		Prompt:      "Bu görseli açıkla.",
		Temperature: 0.3,
		Image:       &utils.ImageInput{MIMEType: utils.JPEGMimeType, Data: data},
	})
	if err != nil {
		s.log.Warn("caption generation failed", "error", err)
		return ""
	}
	caption := utils.CollapseSpaces(strings.Trim(strings.TrimSpace(raw), `"'`))
	return utils.TruncateRunes(caption, maxCaptionRunes)
}
