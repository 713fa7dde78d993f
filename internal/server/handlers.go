package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
	"github.com/outsider987/Patlytics-hotfix/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, _, err := s.runner.Detect(r.Context(), req.Graph, req.Start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateTrace(w http.ResponseWriter, r *http.Request) {
	var req traceRequest
	if !s.decode(w, r, &req) {
		return
	}
	tr, err := s.runner.Trace(r.Context(), req.Graph, req.Start, pipeline.TraceOptions{
		Policy: req.Policy,
		Locale: req.Locale,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.runner.SaveTrace(r.Context(), tr); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/traces/"+tr.ID)
	writeJSON(w, http.StatusCreated, summarize(tr))
}

func (s *Server) handleGetTrace(w http.ResponseWriter, r *http.Request) {
	tr, err := s.runner.LoadTrace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (s *Server) handleGetStep(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid step index: %q", chi.URLParam(r, "index")))
		return
	}
	st, err := s.runner.Step(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleEliminate(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, _, err := s.runner.Eliminate(r.Context(), req.Graph, req.Start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := pipeline.RenderOptions{Start: req.Start, Format: req.Format, Eliminate: req.Eliminate}
	data, _, err := s.runner.Render(r.Context(), req.Graph, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if opts.Format == pipeline.FormatSVG {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decode reads and validates a JSON body. On failure it writes the error
// response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := r.Body
	if s.opts.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	}
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
		case errs.GetCode(err) != "":
			s.writeError(w, err)
		default:
			s.writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "malformed request body"))
		}
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.writeError(w, validationError(err))
		return false
	}
	return true
}

// validationError turns validator output into one INVALID_INPUT error naming
// each failing field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request")
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Tag()))
		}
	}
	return errs.New(errs.ErrCodeInvalidInput, "invalid request: %s", strings.Join(parts, ", "))
}

func statusOf(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidGraph, errs.ErrCodeInvalidFormat,
		errs.ErrCodeInvalidPolicy, errs.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeNodeNotFound, errs.ErrCodeTraceNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	status := statusOf(code)
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: string(code)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
