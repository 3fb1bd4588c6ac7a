package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/samplesheet/internal/core"
	"github.com/JonMunkholm/samplesheet/internal/logging"
)

// defaultSheetName names downloads for sheets posted as a raw body.
const defaultSheetName = "SampleSheet.csv"

// upload is a sheet taken from a request, with an optional schema override.
type upload struct {
	sheet  io.Reader
	name   string
	schema *core.Schema
	close  func()
}

// readUpload accepts either a multipart form with a "file" part (and an
// optional "schema" part) or the sheet as the raw request body.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, int, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, formStatus(err), fmt.Errorf("read body: %w", err)
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return nil, http.StatusBadRequest, errNoFile
		}
		return &upload{sheet: bytes.NewReader(body), name: defaultSheetName, close: func() {}}, 0, nil
	}

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return nil, formStatus(err), fmt.Errorf("read upload: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, http.StatusBadRequest, errNoFile
	}
	u := &upload{sheet: file, name: header.Filename, close: func() { file.Close() }}

	schemaFile, _, err := r.FormFile("schema")
	if errors.Is(err, http.ErrMissingFile) {
		return u, 0, nil
	}
	if err != nil {
		u.close()
		return nil, http.StatusBadRequest, fmt.Errorf("read schema part: %w", err)
	}
	defer schemaFile.Close()

	data, err := io.ReadAll(schemaFile)
	if err != nil {
		u.close()
		return nil, http.StatusBadRequest, fmt.Errorf("read schema part: %w", err)
	}
	if u.schema, err = core.ParseSchema(data); err != nil {
		u.close()
		return nil, http.StatusBadRequest, err
	}
	return u, 0, nil
}

// formStatus distinguishes oversized uploads from malformed ones. The
// multipart reader does not always wrap *http.MaxBytesError.
func formStatus(err error) int {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large") {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// handleValidate validates an uploaded sheet and returns the report.
// Validation findings come back with 200; only unusable input is an error.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	u, status, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, status)
		return
	}
	defer u.close()

	logging.FromContext(r.Context()).Debug("sheet received", "file", u.name, "schema_override", u.schema != nil)

	res, err := s.service.ValidateSheet(r.Context(), u.sheet, u.schema)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleReverseComplement returns the sheet with one column reverse-complemented.
// The column comes from the "field" query parameter.
func (s *Server) handleReverseComplement(w http.ResponseWriter, r *http.Request) {
	u, status, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, status)
		return
	}
	defer u.close()

	out, err := s.service.ReverseComplement(r.Context(), u.sheet, r.URL.Query().Get("field"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeSheet(w, downloadName(u.name, "revcomp"), out)
}

// handleConvertV1ToV2 returns the sheet rewritten in the BCL Convert layout.
func (s *Server) handleConvertV1ToV2(w http.ResponseWriter, r *http.Request) {
	u, status, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, status)
		return
	}
	defer u.close()

	out, err := s.service.ConvertV1ToV2(r.Context(), u.sheet)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeSheet(w, downloadName(u.name, "v2"), out)
}

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status      string             `json:"status"`
	Validations core.LimiterStatus `json:"validations"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Validations: s.service.LimiterStatus(),
	})
}

// writeSheet sends sheet text as a CSV attachment.
func writeSheet(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}

// downloadName turns "run42.csv" into "run42_v2.csv".
func downloadName(name, suffix string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = defaultSheetName
	}
	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".csv"
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + "_" + suffix + ext
}
