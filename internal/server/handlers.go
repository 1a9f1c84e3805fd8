package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/jobswipe/internal/logging"
	"github.com/jonathan/jobswipe/internal/resume"
	"github.com/jonathan/jobswipe/internal/types"
)

// handleParse accepts a multipart upload in the "resume" field and returns a ResumeParsingResult
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile(resume.FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.parseFailure(w, http.StatusRequestEntityTooLarge, MsgUploadTooLarge, err)
			return
		}
		s.parseFailure(w, http.StatusBadRequest, MsgMissingFile, err)
		return
	}
	defer func() { _ = file.Close() }()

	if strings.ToLower(filepath.Ext(header.Filename)) != ".pdf" {
		s.parseFailure(w, http.StatusBadRequest, MsgUnsupportedFormat, nil)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.parseFailure(w, http.StatusInternalServerError, MsgServerError, err)
		return
	}

	text, err := s.extractor.ExtractText(r.Context(), content)
	if err != nil {
		s.parseFailure(w, http.StatusInternalServerError, MsgServerError, err)
		return
	}

	data, err := s.parser.ParseResume(r.Context(), text)
	if err != nil {
		s.parseFailure(w, http.StatusInternalServerError, MsgServerError, err)
		return
	}

	s.logger.Info("resume parsed",
		zap.String("file", header.Filename),
		zap.Int("skills", len(data.Skills)),
		zap.Int("work_entries", len(data.WorkExperience)))
	s.jsonResponse(w, http.StatusOK, types.ResumeParsingResult{
		Success:    true,
		Data:       data,
		Confidence: ParseConfidence,
		Warnings:   []string{MsgParsedWithAI},
	})
}

func (s *Server) parseFailure(w http.ResponseWriter, status int, message string, cause error) {
	if cause != nil {
		s.logger.Error("failed to parse resume", zap.Int(logging.FieldStatus, status), zap.Error(cause))
	}
	s.jsonResponse(w, status, types.ResumeParsingResult{
		Success:  false,
		Error:    message,
		Warnings: []string{},
	})
}

// handleJobs returns the catalog as a JSON array
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.catalog.FetchAll(r.Context())
	if err != nil {
		s.logger.Error("failed to fetch catalog", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), "failed to load jobs")
		return
	}
	if jobs == nil {
		jobs = []types.Job{}
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
