package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/mind-engage/gradecurve/internal/auth"
	"github.com/mind-engage/gradecurve/internal/grading"
	"github.com/mind-engage/gradecurve/internal/ingest"
	"github.com/mind-engage/gradecurve/internal/journal"
	"github.com/mind-engage/gradecurve/internal/report"
	"github.com/mind-engage/gradecurve/internal/storage"
)

const DefaultMaxUploadBytes = 16 << 20

type uploadResp struct {
	Message  string               `json:"message"`
	FileID   string               `json:"file_id"`
	Filename string               `json:"filename"`
	RunID    string               `json:"run_id"`
	Summary  grading.Summary      `json:"summary"`
	Details  []grading.Assignment `json:"details"`
}

// POST /upload (multipart: file=<sheet>.xlsx, expected_count=N, sheet=Name)
func UploadHandler(d Deps) http.HandlerFunc {
	limit := d.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		if err := r.ParseMultipartForm(limit); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
				writeError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("File too large. Maximum size is %dMB.", limit>>20))
				return
			}
			writeError(w, http.StatusBadRequest, "No file part in the request")
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file part in the request")
			return
		}
		defer f.Close()
		if strings.TrimSpace(hdr.Filename) == "" {
			writeError(w, http.StatusBadRequest, "No file selected for uploading")
			return
		}
		if err := ingest.CheckFilename(hdr.Filename); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		opts := ingest.Options{Sheet: strings.TrimSpace(r.FormValue("sheet"))}
		if s := strings.TrimSpace(r.FormValue("expected_count")); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "expected_count must be a non-negative integer")
				return
			}
			opts.ExpectedCount = n
		}

		sheet, err := ingest.Read(f, opts)
		if err != nil {
			var verr *ingest.ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Problems: verr.Problems})
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := d.Engine.Run(r.Context(), sheet.Records)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred: "+err.Error())
			return
		}
		data, err := report.Workbook(res, report.Meta{SourceFilename: hdr.Filename, SubjectCode: sheet.SubjectCode})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred: "+err.Error())
			return
		}
		outName := report.OutputFilename(hdr.Filename)
		fileID, err := d.Store.Put(storage.Artifact{Filename: outName, ContentType: report.ContentType, Data: data})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred: "+err.Error())
			return
		}

		runID := uuid.NewString()
		if err := d.journal().Append(r.Context(), journal.FromResult(runID, hdr.Filename, len(sheet.Records), res)); err != nil {
			d.logger().Errorf("journal run %s: %v", runID, err)
		}
		d.logger().Infoj(log.JSON{
			"msg":        "graded upload",
			"request_id": middleware.GetReqID(r.Context()),
			"run_id":     runID,
			"user":       auth.SubjectFromContext(r.Context()),
			"source":     hdr.Filename,
			"records":    len(sheet.Records),
			"policy":     res.Policy,
			"outcome":    res.Outcome.Kind.String(),
		})

		writeJSON(w, http.StatusOK, uploadResp{
			Message:  "File processed successfully",
			FileID:   fileID,
			Filename: outName,
			RunID:    runID,
			Summary:  res.Summary,
			Details:  res.Assignments,
		})
	}
}

// GET /download/{fileID}
func DownloadHandler(store storage.ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "fileID"))
		a, err := store.Get(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "File not found or has expired")
				return
			}
			writeError(w, http.StatusInternalServerError, "Download failed: "+err.Error())
			return
		}
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Content-Disposition", `attachment; filename="`+a.Filename+`"`)
		http.ServeContent(w, r, a.Filename, time.Time{}, bytes.NewReader(a.Data))
	}
}
