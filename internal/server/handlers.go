package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/juris/internal/extract"
	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/internal/session"
	"github.com/hyperjump/juris/pkg/utils"
	"go.uber.org/zap"
)

const (
	sniffLen        = 512
	maxMemoryUpload = 1 << 20
)

type createSessionResponse struct {
	ID       string           `json:"id"`
	Messages []models.Message `json:"messages"`
}

type submitRequest struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	s.respondJSON(w, http.StatusCreated, createSessionResponse{ID: sess.ID(), Messages: sess.Messages()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(id); err != nil {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if sess.Processing() {
		s.respondReason(w, http.StatusConflict, session.ErrBusy)
		return
	}

	limit := s.maxBytes + multipartOverhead
	if r.ContentLength > limit {
		s.respondReason(w, http.StatusRequestEntityTooLarge, &extract.TooLargeError{Size: r.ContentLength, Limit: s.maxBytes})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(maxMemoryUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondReason(w, http.StatusRequestEntityTooLarge, &extract.TooLargeError{Size: r.ContentLength, Limit: s.maxBytes})
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	_, fh, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing form field \"file\"")
		return
	}
	cand, err := candidateFromPart(fh)
	if err != nil {
		s.respondReason(w, http.StatusBadRequest, err)
		return
	}
	s.logger.Debug("upload request",
		zap.String("session", sess.ID()),
		zap.String("file", cand.Name),
		zap.String("mime", cand.MIMEType),
		zap.Int64("size", cand.Size))

	doc, err := sess.Upload(r.Context(), cand)
	if err != nil {
		s.respondReason(w, statusFor(err), err)
		return
	}
	s.respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.RemoveDocument()
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("message request",
		zap.String("session", sess.ID()),
		zap.String("message", utils.Truncate(req.Message, 80)))
	msg, err := sess.Submit(r.Context(), req.Message)
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		s.respondError(w, http.StatusBadRequest, "message is required when no document is attached")
		return
	case errors.Is(err, session.ErrBusy):
		s.respondReason(w, http.StatusConflict, err)
		return
	case err != nil:
		s.logger.Error("generation failed", zap.String("session", sess.ID()), zap.Error(err))
		s.respondJSON(w, http.StatusBadGateway, errorResponse{
			Error:  "Generation failed",
			Detail: "Sorry, I encountered an error while processing your request. Please try again.",
		})
		return
	}
	s.respondJSON(w, http.StatusOK, msg)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

// candidateFromPart builds an upload candidate from a multipart file. A
// missing or generic Content-Type is replaced by a sniff of the first bytes.
func candidateFromPart(fh *multipart.FileHeader) (extract.UploadCandidate, error) {
	declared := fh.Header.Get("Content-Type")
	f, err := fh.Open()
	if err != nil {
		return extract.UploadCandidate{}, errors.Join(extract.ErrRead, err)
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	_ = f.Close()
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return extract.UploadCandidate{}, errors.Join(extract.ErrRead, err)
	}
	return extract.UploadCandidate{
		Name:     fh.Filename,
		MIMEType: extract.SniffMIME(declared, head[:n]),
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}

// statusFor maps ingestion and session errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, extract.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, extract.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, extract.ErrEmptyDocument), errors.Is(err, extract.ErrInvalidPDF):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, extract.ErrRead):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondReason(w http.ResponseWriter, status int, err error) {
	if errors.Is(err, session.ErrBusy) {
		s.respondJSON(w, status, errorResponse{
			Error:  "Busy",
			Detail: "Another request for this session is still being processed. Please wait.",
		})
		return
	}
	title, detail := extract.Reason(err)
	s.respondJSON(w, status, errorResponse{Error: title, Detail: detail})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: message})
}
