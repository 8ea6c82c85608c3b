// Package session holds per-conversation state: the attached document slot and the transcript.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/juris/internal/extract"
	"github.com/hyperjump/juris/internal/ingest"
	"github.com/hyperjump/juris/internal/llm"
	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/internal/prompt"
	"github.com/hyperjump/juris/pkg/utils"
	"go.uber.org/zap"
)

// Greeting is the first assistant message of every session.
const Greeting = "Hello! I'm your AI Legal Assistant powered by Gemini. I can help you with legal questions, " +
	"contract analysis, and general legal guidance. How can I assist you today?"

var (
	// ErrBusy is returned when an upload or submission is already in progress.
	ErrBusy = errors.New("session busy")
	// ErrEmptyMessage is returned when there is neither a question nor a document to send.
	ErrEmptyMessage = errors.New("empty message")
	// ErrNotFound is returned by Manager for unknown session IDs.
	ErrNotFound = errors.New("session not found")
)

// Session is one conversation. It owns at most one attached document, which
// is consumed by the next submitted message.
type Session struct {
	id        string
	pipeline  *ingest.Pipeline
	generator llm.Generator
	logger    *zap.Logger
	created   time.Time

	processing atomic.Bool
	generating atomic.Bool

	mu       sync.Mutex
	document *models.UploadedFile
	messages []models.Message
}

// View is a point-in-time copy of a session.
type View struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Document  *models.UploadedFile `json:"document,omitempty"`
	Messages  []models.Message     `json:"messages"`
}

// New creates a session with the greeting already in its transcript.
func New(p *ingest.Pipeline, g llm.Generator, logger *zap.Logger) *Session {
	logger = utils.OrNop(logger)
	now := time.Now()
	id := uuid.New().String()
	return &Session{
		id:        id,
		pipeline:  p,
		generator: g,
		logger:    logger.With(zap.String("session", id)),
		created:   now,
		messages: []models.Message{{
			ID:        uuid.New().String(),
			Role:      models.RoleAssistant,
			Content:   Greeting,
			Timestamp: now,
		}},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Processing reports whether an upload is being ingested.
func (s *Session) Processing() bool {
	return s.processing.Load()
}

// Upload ingests c and, on success, replaces the attached document. Only one
// upload may run at a time; a concurrent call returns ErrBusy without touching
// the slot. On failure the previous document stays attached.
func (s *Session) Upload(ctx context.Context, c extract.UploadCandidate) (*models.UploadedFile, error) {
	if !s.processing.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.processing.Store(false)

	f, err := s.pipeline.Ingest(ctx, c)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.document = f
	s.mu.Unlock()
	return f, nil
}

// Document returns the attached document, or nil.
func (s *Session) Document() *models.UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

// RemoveDocument detaches the current document, if any.
func (s *Session) RemoveDocument() {
	s.mu.Lock()
	s.document = nil
	s.mu.Unlock()
}

// Submit sends question, together with the attached document if there is
// one, to the generator. The document is consumed even if generation fails.
// The assistant reply is appended to the transcript and returned.
func (s *Session) Submit(ctx context.Context, question string) (*models.Message, error) {
	question = strings.TrimSpace(question)

	if !s.generating.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.generating.Store(false)

	s.mu.Lock()
	doc := s.document
	if question == "" && doc == nil {
		s.mu.Unlock()
		return nil, ErrEmptyMessage
	}
	userMsg := models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleUser,
		Content:   question,
		Timestamp: time.Now(),
	}
	if doc != nil {
		userMsg.Attachment = doc.Name
		if userMsg.Content == "" {
			userMsg.Content = fmt.Sprintf("Analyze %s", doc.Name)
		}
	}
	s.messages = append(s.messages, userMsg)
	s.document = nil
	s.mu.Unlock()

	text := prompt.Compose(doc, question)
	reply, err := s.generator.Generate(ctx, text)
	if err != nil {
		s.logger.Warn("generation failed", zap.Error(err))
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	msg := models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return &msg, nil
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]models.Message, len(s.messages))
	copy(msgs, s.messages)
	return View{ID: s.id, CreatedAt: s.created, Document: s.document, Messages: msgs}
}
