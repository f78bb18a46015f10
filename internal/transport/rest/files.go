package rest

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/godilite/survey-dashboard/internal/dataset"
	"github.com/godilite/survey-dashboard/internal/survey"
	"github.com/godilite/survey-dashboard/internal/upload"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20

type uploadHandler struct {
	uploader Uploader
	logger   *zap.Logger
}

type UploadResponse struct {
	PageName   string          `json:"pageName"`
	SurveyType survey.Type     `json:"surveyType"`
	Files      int             `json:"files"`
	Results    []upload.Result `json:"results"`
}

// Upload handles POST /v1/uploads. The multipart form carries pageName,
// type and one or more file parts.
func (h *uploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	t, err := survey.ParseType(r.FormValue("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}

	files := make([]upload.File, 0, len(headers))
	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable file "+hdr.Filename)
			return
		}
		defer f.Close()
		files = append(files, upload.File{Name: hdr.Filename, Body: f})
	}

	page := r.FormValue("pageName")
	results, err := h.uploader.Upload(r.Context(), page, t, files...)
	if err != nil {
		handleError(w, h.logger, "upload", err)
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{
		PageName:   upload.NormalizePageName(page),
		SurveyType: t,
		Files:      len(results),
		Results:    results,
	})
}

// cacheFileHandler serves the exported <part>.json caches the dashboard
// reads.
type cacheFileHandler struct {
	dir string
}

// Serve handles GET /cache/{name}.json
func (h *cacheFileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !dataset.ValidPart(name) {
		writeError(w, http.StatusNotFound, "cache not found")
		return
	}
	path := filepath.Join(h.dir, name+".json")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, "cache not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, path)
}
