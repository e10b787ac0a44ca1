package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alnah/go-doctrans/internal/extract"
	"github.com/alnah/go-doctrans/internal/lang"
)

// maxUploadBytes caps multipart parsing for document uploads.
const maxUploadBytes = 32 << 20

// PipelineFactory builds a fresh pipeline bound to the given status record.
// The server creates one pipeline per run so per-run options never leak
// across runs.
type PipelineFactory func(status *RunStatus) *Pipeline

// Server exposes the upload / progress / download front end over HTTP.
// Exactly one translation run is active at a time; uploads arriving while
// a run is in flight are rejected.
type Server struct {
	logger      *zap.Logger
	languages   *lang.Table
	newPipeline PipelineFactory
	estimator   ScoreEstimator
	uploadDir   string
	status      *RunStatus

	mu       sync.Mutex
	active   bool
	download string
	quality  *QualityRating
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithUploadDir sets the directory for uploads and translated output.
func WithUploadDir(dir string) ServerOption {
	return func(s *Server) {
		if dir != "" {
			s.uploadDir = dir
		}
	}
}

// WithEstimator attaches an optional quality estimator; its rating is
// exposed on completed runs. Nil disables quality rating.
func WithEstimator(e ScoreEstimator) ServerOption {
	return func(s *Server) {
		s.estimator = e
	}
}

// NewServer creates a Server. The upload directory is created if missing.
func NewServer(logger *zap.Logger, table *lang.Table, factory PipelineFactory, opts ...ServerOption) (*Server, error) {
	s := &Server{
		logger:      logger,
		languages:   table,
		newPipeline: factory,
		uploadDir:   filepath.Join(os.TempDir(), "doctrans-uploads"),
		status:      NewRunStatus(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create upload directory: %w", err)
	}
	return s, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /translate", s.handleTranslate)
	mux.HandleFunc("GET /progress", s.handleProgress)
	mux.HandleFunc("GET /download/{name}", s.handleDownload)
	return mux
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>go-doctrans</title></head>
<body>
<h1>Document translation</h1>
<form action="/translate" method="post" enctype="multipart/form-data">
  <p><input type="file" name="pdf_file" accept=".pdf" required></p>
  <p>From:
    <select name="source_lang">{{range .Languages}}<option>{{.}}</option>{{end}}</select>
    To:
    <select name="target_lang">{{range .Languages}}<option>{{.}}</option>{{end}}</select>
  </p>
  <p><button type="submit">Translate</button></p>
</form>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, struct{ Languages []string }{s.languages.Names()})
	if err != nil {
		s.logger.Error("render index", zap.Error(err))
	}
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("pdf_file")
	if err != nil {
		http.Error(w, "missing pdf_file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".pdf" {
		http.Error(w, "only PDF files are allowed", http.StatusBadRequest)
		return
	}

	sourceLang := r.FormValue("source_lang")
	targetLang := r.FormValue("target_lang")

	// Resolve up front so an unsupported language never starts a run.
	if _, err := s.languages.Resolve(sourceLang); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	targetTag, err := s.languages.Resolve(targetLang)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !s.tryAcquire() {
		http.Error(w, ErrRunActive.Error(), http.StatusConflict)
		return
	}

	id := uuid.NewString()
	uploadPath := filepath.Join(s.uploadDir, id+".pdf")
	if err := saveUpload(uploadPath, file); err != nil {
		s.status.Fail(err)
		s.release()
		s.logger.Error("save upload", zap.Error(err))
		http.Error(w, "cannot store upload", http.StatusInternalServerError)
		return
	}

	outName := id + "_" + targetTag + ".txt"
	s.logger.Info("translation started",
		zap.String("file", header.Filename),
		zap.String("source", sourceLang),
		zap.String("target", targetLang))

	// The run executes on its own goroutine so /progress can observe the
	// shared status while it is in flight. No cancellation: once started,
	// a run proceeds to completion or failure.
	go s.runTranslation(uploadPath, outName, sourceLang, targetLang)

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"progress_url": "/progress"})
}

// tryAcquire claims the single run slot and marks the shared status active
// before the caller responds, so a poller never observes a just-accepted
// run as idle.
func (s *Server) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return false
	}
	s.active = true
	s.download = ""
	s.quality = nil
	s.status.Begin()
	return true
}

func (s *Server) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

// runTranslation is the background body of one run: extract, translate,
// write the output file, and rate quality when an estimator is wired.
func (s *Server) runTranslation(uploadPath, outName, sourceLang, targetLang string) {
	defer func() {
		_ = os.Remove(uploadPath)
		s.release()
	}()

	text, err := extract.PDFText(uploadPath)
	if err != nil {
		s.status.Fail(err)
		s.logger.Error("extract text", zap.Error(err))
		return
	}
	cleaned := extract.Clean(text)

	pipeline := s.newPipeline(s.status)
	result, err := pipeline.Run(context.Background(), cleaned, sourceLang, targetLang)
	if err != nil {
		// Run fails the status itself on unit errors; failing again covers
		// paths that return before its loop starts, such as resolution.
		s.status.Fail(err)
		s.logger.Error("translation failed", zap.Error(err))
		return
	}
	for _, warning := range result.Warnings {
		s.logger.Warn("truncation detected", zap.String("warning", warning))
	}

	outPath := filepath.Join(s.uploadDir, outName)
	if err := os.WriteFile(outPath, []byte(result.Output), 0644); err != nil {
		s.status.Fail(err)
		s.logger.Error("write output", zap.Error(err))
		return
	}

	var rating *QualityRating
	if s.estimator != nil {
		score, err := s.estimator.Estimate(context.Background(), cleaned, result.Output)
		if err != nil {
			s.logger.Warn("quality estimation failed", zap.Error(err))
		} else {
			r := InterpretScore(score)
			rating = &r
		}
	}

	s.mu.Lock()
	s.download = "/download/" + outName
	s.quality = rating
	s.mu.Unlock()

	s.logger.Info("translation complete",
		zap.Int("units", result.Units),
		zap.Int("warnings", len(result.Warnings)),
		zap.String("output", outPath))
}

// progressResponse is the pollable run state.
type progressResponse struct {
	Active      bool             `json:"active"`
	Progress    ProgressSnapshot `json:"progress"`
	Error       string           `json:"error"`
	DownloadURL string           `json:"download_url,omitempty"`
	Quality     *QualityRating   `json:"quality,omitempty"`
}

func (s *Server) handleProgress(w http.ResponseWriter, _ *http.Request) {
	snapshot := s.status.Snapshot()

	s.mu.Lock()
	resp := progressResponse{
		Active:      snapshot.Active,
		Progress:    snapshot.Progress,
		Error:       snapshot.Error,
		DownloadURL: s.download,
		Quality:     s.quality,
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || name != filepath.Base(name) {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.uploadDir, name)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}
