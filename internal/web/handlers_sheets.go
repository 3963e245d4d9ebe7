package web

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerport/ledgerport/internal/core"
	"github.com/ledgerport/ledgerport/internal/store"
	"github.com/ledgerport/ledgerport/internal/transcode"
)

// handleImport accepts a multipart file upload and starts a background
// import job. The parsed table replaces any stored sheet of the same name.
//
// Form fields: file (required), header, startRow, startCol.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		s.badRequest(w, r, "missing sheet name")
		return
	}

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.badRequest(w, r, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.badRequest(w, r, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, &transcode.IOFailure{Path: header.Filename, Err: err})
		return
	}
	if len(data) == 0 {
		s.badRequest(w, r, "uploaded file is empty")
		return
	}

	req := core.ImportRequest{
		SheetName: name,
		FileName:  header.Filename,
		Data:      data,
		Header:    formBool(r, "header"),
	}
	if req.StartRow, err = formInt(r, "startRow"); err != nil {
		s.badRequest(w, r, "startRow must be an integer")
		return
	}
	if req.StartCol, err = formInt(r, "startCol"); err != nil {
		s.badRequest(w, r, "startCol must be an integer")
		return
	}

	jobID, err := s.service.StartImport(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"job_id": jobID})
}

// handleListSheets returns metadata for every stored sheet, ordered by name.
func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	metas, err := s.service.Store().ListSheets(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if metas == nil {
		metas = []store.SheetMeta{}
	}
	writeJSON(w, map[string]any{"sheets": metas})
}

// handleGetSheet returns one sheet's metadata.
func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := s.service.Store().Sheet(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, sheet.Meta)
}

// handleExportSheet streams a stored sheet as a CSV attachment.
// ?header=1 includes the column name line.
func (s *Server) handleExportSheet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sheet, err := s.service.Store().Sheet(r.Context(), name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	opts := transcode.ExportOptions{Header: queryBool(r, "header")}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	if err := transcode.ExportWriter(w, sheet.Table, opts); err != nil {
		// Headers are already sent; log and let the client see the short body.
		slog.Error("sheet export failed", "sheet", name, "error", err)
	}
}

// handleDeleteSheet removes a stored sheet.
func (s *Server) handleDeleteSheet(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Store().DeleteSheet(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// handlePreview parses the first records of an uploaded file without
// storing anything. Form fields: file (required), header, rows.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.badRequest(w, r, "file too large or invalid form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.badRequest(w, r, "no file provided")
		return
	}
	defer file.Close()

	rows, err := formInt(r, "rows")
	if err != nil || rows < 0 {
		s.badRequest(w, r, "rows must be a non-negative integer")
		return
	}
	if rows == 0 {
		rows = s.cfg.Import.PreviewRows
	}

	result, err := transcode.Preview(file, rows, formBool(r, "header"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, result)
}

// formBool reads a form field as a boolean; absent or unparseable is false.
func formBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.FormValue(key))
	return v
}

// formInt reads a form field as an integer; absent is zero.
func formInt(r *http.Request, key string) (int, error) {
	raw := r.FormValue(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// queryBool reads a query parameter as a boolean; absent or unparseable is false.
func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}
