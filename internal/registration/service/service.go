// Package service owns the lifecycle of registration workflows: starting them
// for anonymous visitors, looking them up, and discarding them once they
// complete or go idle.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ddinvest/internal/registration/metrics"
	"ddinvest/internal/registration/models"
	"ddinvest/internal/registration/workflow"
	id "ddinvest/pkg/domain"
	dErrors "ddinvest/pkg/domain-errors"
	"ddinvest/pkg/platform/sentinel"
	"ddinvest/pkg/requestcontext"
)

// Registry holds live workflows.
type Registry interface {
	Save(ctx context.Context, wf *workflow.Workflow) error
	Get(ctx context.Context, regID id.RegistrationID) (*workflow.Workflow, error)
	Delete(ctx context.Context, regID id.RegistrationID) error
	Sweep(now time.Time, idle time.Duration) []id.RegistrationID
	Len() int
}

type Service struct {
	registry Registry
	identity workflow.Identity
	sessions SessionChecker
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithSessionChecker refuses new registrations from signed-in sessions.
func WithSessionChecker(sessions SessionChecker) Option {
	return func(s *Service) {
		s.sessions = sessions
	}
}

func New(registry Registry, identity workflow.Identity, opts ...Option) (*Service, error) {
	if registry == nil {
		return nil, errors.New("workflow registry is required")
	}
	if identity == nil {
		return nil, errors.New("identity service is required")
	}
	s := &Service{
		registry: registry,
		identity: identity,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start opens a new workflow. A visitor who is already signed in is refused
// with a conflict.
func (s *Service) Start(ctx context.Context) (*workflow.Workflow, error) {
	if err := s.requireAnonymous(ctx); err != nil {
		return nil, err
	}

	wf, err := workflow.New(id.NewRegistrationID(), s.identity,
		workflow.WithLogger(s.logger),
		workflow.WithMetrics(s.metrics),
	)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Save(ctx, wf); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration")
	}
	s.metrics.SetActiveWorkflows(s.registry.Len())
	s.logger.InfoContext(ctx, "registration started", "registration_id", wf.ID())
	return wf, nil
}

func (s *Service) requireAnonymous(ctx context.Context) error {
	sid, ok := requestcontext.SessionID(ctx)
	if !ok || s.sessions == nil {
		return nil
	}
	authed, err := s.sessions.Authenticated(ctx, sid)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check session")
	}
	if authed {
		return dErrors.New(dErrors.CodeConflict, "already signed in")
	}
	return nil
}

// Get returns a live workflow.
func (s *Service) Get(ctx context.Context, regID id.RegistrationID) (*workflow.Workflow, error) {
	wf, err := s.registry.Get(ctx, regID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	return wf, nil
}

// Submit runs the workflow's submission. A created account ends the
// registration and the workflow is discarded.
func (s *Service) Submit(ctx context.Context, wf *workflow.Workflow) (*models.Outcome, error) {
	outcome, err := wf.Submit(ctx)
	if err != nil {
		return nil, err
	}
	s.discard(ctx, wf.ID())
	return outcome, nil
}

// Abandon discards a workflow at the visitor's request.
func (s *Service) Abandon(ctx context.Context, regID id.RegistrationID) error {
	err := s.registry.Delete(ctx, regID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "registration not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove registration")
	}
	s.metrics.SetActiveWorkflows(s.registry.Len())
	s.logger.InfoContext(ctx, "registration abandoned", "registration_id", regID)
	return nil
}

func (s *Service) discard(ctx context.Context, regID id.RegistrationID) {
	if err := s.registry.Delete(ctx, regID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to discard completed registration", "registration_id", regID, "error", err)
	}
	s.metrics.SetActiveWorkflows(s.registry.Len())
}

// Sweep discards workflows idle for longer than idle and returns how many
// were removed.
func (s *Service) Sweep(ctx context.Context, idle time.Duration) int {
	removed := s.registry.Sweep(requestcontext.Now(ctx), idle)
	s.metrics.AddExpired(len(removed))
	s.metrics.SetActiveWorkflows(s.registry.Len())
	if len(removed) > 0 {
		s.logger.InfoContext(ctx, "idle registrations discarded", "count", len(removed))
	}
	return len(removed)
}
