package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"stajdefteri/internal/export"
	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/internal/models/request_models"
	"stajdefteri/internal/services"
	"stajdefteri/pkg/middleware"
	"stajdefteri/pkg/utils"
)

type fakeJournalService struct {
	services.JournalServiceInterface
	generated []int
	journal   *dm.Journal
	err       error
}

func (f *fakeJournalService) GetJournal(_ context.Context, _ string) (*dm.Journal, error) {
	return f.journal, f.err
}

func (f *fakeJournalService) GenerateDay(_ context.Context, _ string, day int) (dm.DayEntry, error) {
	f.generated = append(f.generated, day)
	return dm.DayEntry{DayNumber: day, IsGenerated: true}, f.err
}

func (f *fakeJournalService) EditPlan(_ context.Context, _ string, day int, _ request_models.EditPlanRequest) (dm.DayEntry, error) {
	return dm.DayEntry{DayNumber: day}, f.err
}

type fakeImageService struct {
	services.ImageServiceInterface
	uploaded []byte
}

func (f *fakeImageService) AnalyzeUpload(_ context.Context, _ string, _ int, data []byte) (*dm.AnalyzedUpload, error) {
	f.uploaded = data
	return &dm.AnalyzedUpload{}, nil
}

type fakeExportService struct {
	student string
	format  string
}

func (f *fakeExportService) Export(_ context.Context, studentID, format string) (*export.File, error) {
	f.student, f.format = studentID, format
	if format == "odt" {
		return nil, utils.ErrUnsupportedFormat
	}
	return &export.File{Filename: "Staj_Defteri_Ayse.docx", ContentType: "application/test", Data: []byte("doc")}, nil
}

type fakeProxyService struct {
	params url.Values
}

func (f *fakeProxyService) Search(_ context.Context, params url.Values) (map[string]any, error) {
	f.params = params
	if params.Get("engine") != "google_images" {
		return nil, utils.ErrUnsupportedEngine
	}
	return map[string]any{"filtered_count": 1}, nil
}

func newTestRouter(register func(r *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api", func(c *gin.Context) {
		c.Set(middleware.StudentIDKey, "stu-1")
		c.Next()
	})
	register(g)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestGenerateDayRejectsBadDayNumber(t *testing.T) {
	svc := &fakeJournalService{}
	jc := NewJournalController(svc)
	r := newTestRouter(func(g *gin.RouterGroup) {
		g.POST("/journal/days/:day/generate", jc.GenerateDay)
	})

	for _, day := range []string{"abc", "0", "-3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/journal/days/"+day+"/generate", nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("day %s: want=%d got=%d", day, http.StatusBadRequest, w.Code)
		}
	}
	if len(svc.generated) != 0 {
		t.Fatalf("service calls: want=0 got=%d", len(svc.generated))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/journal/days/4/generate", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("valid day: want=%d got=%d", http.StatusOK, w.Code)
	}
	if len(svc.generated) != 1 || svc.generated[0] != 4 {
		t.Fatalf("generated days: want=[4] got=%v", svc.generated)
	}
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{utils.ErrPlanNotFound, http.StatusNotFound},
		{utils.ErrImageRequired, http.StatusUnprocessableEntity},
		{utils.ErrDayBusy, http.StatusConflict},
		{fmt.Errorf("%w: upstream 500", utils.ErrGenerationFailed), http.StatusBadGateway},
		{fmt.Errorf("%w: disk full", utils.ErrDatabaseError), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		svc := &fakeJournalService{err: tc.err}
		jc := NewJournalController(svc)
		r := newTestRouter(func(g *gin.RouterGroup) {
			g.GET("/journal", jc.GetJournal)
			g.POST("/journal/days/:day/generate", jc.GenerateDay)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/journal/days/2/generate", nil))
		if w.Code != tc.code {
			t.Fatalf("%v: want=%d got=%d", tc.err, tc.code, w.Code)
		}
		if resp := decode(t, w); resp.Status != "error" || resp.Code != tc.code {
			t.Fatalf("%v: envelope: want=error/%d got=%s/%d", tc.err, tc.code, resp.Status, resp.Code)
		}
	}
}

func TestEditPlanValidatesBody(t *testing.T) {
	jc := NewJournalController(&fakeJournalService{})
	r := newTestRouter(func(g *gin.RouterGroup) {
		g.PUT("/journal/days/:day/plan", jc.EditPlan)
	})

	cases := []struct {
		body string
		code int
	}{
		{`{"category":"research"}`, http.StatusBadRequest},
		{`{"specific_topic":"ab"}`, http.StatusBadRequest},
		{`{"category":"management","specific_topic":"Bakım planlaması"}`, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPut, "/api/journal/days/3/plan", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.code {
			t.Fatalf("%s: want=%d got=%d", tc.body, tc.code, w.Code)
		}
	}
}

func TestAnalyzeImageReadsMultipartField(t *testing.T) {
	svc := &fakeImageService{}
	ic := NewImageController(svc)
	r := newTestRouter(func(g *gin.RouterGroup) {
		g.POST("/journal/days/:day/images/analyze", ic.AnalyzeImage)
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "pano.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("image-bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/journal/days/2/images/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d body=%s", http.StatusOK, w.Code, w.Body.String())
	}
	if string(svc.uploaded) != "image-bytes" {
		t.Fatalf("uploaded: want=%q got=%q", "image-bytes", svc.uploaded)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/journal/days/2/images/analyze", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing file: want=%d got=%d", http.StatusBadRequest, w.Code)
	}
}

func TestExportJournalSendsAttachment(t *testing.T) {
	svc := &fakeExportService{}
	ec := NewExportController(svc)
	r := newTestRouter(func(g *gin.RouterGroup) {
		g.GET("/journal/export", ec.ExportJournal)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/journal/export", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, w.Code)
	}
	if svc.format != "docx" || svc.student != "stu-1" {
		t.Fatalf("export args: want=stu-1/docx got=%s/%s", svc.student, svc.format)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="Staj_Defteri_Ayse.docx"` {
		t.Fatalf("disposition: got=%q", got)
	}
	if w.Header().Get("Content-Type") != "application/test" || w.Body.String() != "doc" {
		t.Fatalf("payload: got=%q %q", w.Header().Get("Content-Type"), w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/journal/export?format=odt", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("odt: want=%d got=%d", http.StatusBadRequest, w.Code)
	}
}

func TestSearchProxyPassesQueryThrough(t *testing.T) {
	svc := &fakeProxyService{}
	sc := NewSearchProxyController(svc)
	r := newTestRouter(func(g *gin.RouterGroup) {
		g.GET("/search-images", sc.SearchImages)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search-images?engine=google_images&q=trafo&ijn=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, w.Code)
	}
	if svc.params.Get("q") != "trafo" || svc.params.Get("ijn") != "1" {
		t.Fatalf("params: got=%v", svc.params)
	}
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["filtered_count"] != float64(1) {
		t.Fatalf("filtered_count: want=1 got=%v", payload["filtered_count"])
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search-images?engine=yandex&q=trafo", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("engine: want=%d got=%d", http.StatusBadRequest, w.Code)
	}
}
