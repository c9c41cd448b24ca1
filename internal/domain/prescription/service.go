package prescription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sankatmochan/rx/internal/platform/cache"
)

// MaxIDAttempts bounds how many fresh ids Create tries before giving up.
const MaxIDAttempts = 5

// Renderer turns a stored record into a print-ready document. now is used only
// where the record lacks a timestamp the layout needs.
type Renderer interface {
	Render(p *Prescription, now time.Time) ([]byte, error)
}

type Service struct {
	prescriptions Repository
	ids           IDGenerator
	renderer      Renderer
	logger        zerolog.Logger
	now           func() time.Time

	docs      cache.Store
	docsTTL   time.Duration
	docsKeyNS string
}

func NewService(prescriptions Repository, ids IDGenerator, renderer Renderer, logger zerolog.Logger) *Service {
	return &Service{
		prescriptions: prescriptions,
		ids:           ids,
		renderer:      renderer,
		logger:        logger,
		now:           time.Now,
		docs:          cache.Nop{},
	}
}

// SetDocumentCache attaches a cache for rendered documents. Keys are namespace+id.
func (s *Service) SetDocumentCache(store cache.Store, ttl time.Duration, namespace string) {
	s.docs = store
	s.docsTTL = ttl
	s.docsKeyNS = namespace
}

// SetClock replaces the time source used for creation timestamps and render defaults.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreatePrescription validates p, stamps it and stores it under a freshly
// generated id. Id collisions are retried with a new id up to MaxIDAttempts.
func (s *Service) CreatePrescription(ctx context.Context, p *Prescription) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.ApplyDefaults(s.now().UTC())

	for attempt := 1; attempt <= MaxIDAttempts; attempt++ {
		id, err := s.ids.NewID()
		if err != nil {
			return err
		}
		p.ID = id
		err = s.prescriptions.Create(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			p.ID = ""
			return fmt.Errorf("store prescription: %w", err)
		}
		s.logger.Warn().Str("id", id).Int("attempt", attempt).Msg("prescription id collision, regenerating")
	}
	p.ID = ""
	return fmt.Errorf("%w after %d attempts", ErrIDExhausted, MaxIDAttempts)
}

func (s *Service) GetPrescription(ctx context.Context, id string) (*Prescription, error) {
	return s.prescriptions.GetByID(ctx, id)
}

// PatientHistory lists a patient's prescriptions, newest first. Name matching
// ignores case.
func (s *Service) PatientHistory(ctx context.Context, name string, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.ListByPatientName(ctx, name, limit, offset)
}

func (s *Service) SearchByDiagnosis(ctx context.Context, term string, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.SearchByDiagnosis(ctx, term, limit, offset)
}

// RenderPrescription resolves id and renders the record. A lookup miss returns
// ErrNotFound without invoking the renderer.
func (s *Service) RenderPrescription(ctx context.Context, id string) (*Prescription, []byte, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	key := s.docsKeyNS + p.ID
	if doc, ok, err := s.docs.Get(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("id", p.ID).Msg("document cache read failed")
	} else if ok {
		return p, doc, nil
	}

	doc, err := s.renderer.Render(p, s.now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("id", p.ID).Msg("render prescription")
		return p, nil, err
	}
	if err := s.docs.Set(ctx, key, doc, s.docsTTL); err != nil {
		s.logger.Warn().Err(err).Str("id", p.ID).Msg("document cache write failed")
	}
	return p, doc, nil
}
