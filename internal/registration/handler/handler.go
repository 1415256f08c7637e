package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ddinvest/internal/registration/models"
	"ddinvest/internal/registration/workflow"
	id "ddinvest/pkg/domain"
	dErrors "ddinvest/pkg/domain-errors"
	"ddinvest/pkg/platform/httputil"
)

// Service is the registration lifecycle used by the handler.
type Service interface {
	Start(ctx context.Context) (*workflow.Workflow, error)
	Get(ctx context.Context, regID id.RegistrationID) (*workflow.Workflow, error)
	Submit(ctx context.Context, wf *workflow.Workflow) (*models.Outcome, error)
	Abandon(ctx context.Context, regID id.RegistrationID) error
}

// Handler serves /registrations.
type Handler struct {
	service Service
	logger  *slog.Logger
	limit   func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithIdentityLimit wraps the routes that call the Identity Service.
func WithIdentityLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.limit = mw
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
		limit:   func(next http.Handler) http.Handler { return next },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the registration endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/registrations", func(r chi.Router) {
		r.Post("/", h.HandleStart)
		r.Route("/{registrationID}", func(r chi.Router) {
			r.Get("/", h.workflowOp(snapshot))
			r.Delete("/", h.HandleAbandon)

			r.Put("/fields/{field}", h.workflowOp(h.setField))
			r.Post("/fields/{field}/focus", h.workflowOp(h.focus))
			r.Post("/fields/{field}/blur", h.workflowOp(h.blur))
			r.Put("/consents/{consent}", h.workflowOp(h.setConsent))

			r.Put("/email-verification/code", h.workflowOp(h.setCode))

			r.Group(func(r chi.Router) {
				r.Use(h.limit)
				r.Post("/handle-check", h.workflowOp(h.checkHandle))
				r.Post("/email-verification", h.workflowOp(h.sendVerification))
				r.Post("/email-verification/confirm", h.workflowOp(h.confirmCode))
				r.Post("/submit", h.HandleSubmit)
			})
		})
	})
}

// HandleStart handles POST /registrations.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	wf, err := h.service.Start(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, StartResponse{ID: wf.ID(), State: wf.Snapshot()})
}

// HandleAbandon handles DELETE /registrations/{id}.
func (h *Handler) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	regID, err := registrationID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Abandon(r.Context(), regID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSubmit handles POST /registrations/{id}/submit.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wf, err := h.load(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	outcome, err := h.service.Submit(context.WithoutCancel(ctx), wf)
	if err != nil {
		h.writeFailure(ctx, w, wf, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, outcome)
}

type opFunc func(ctx context.Context, r *http.Request, wf *workflow.Workflow) error

// workflowOp loads the workflow named in the path, applies op and answers with
// the resulting snapshot.
func (h *Handler) workflowOp(op opFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		wf, err := h.load(r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		if err := op(ctx, r, wf); err != nil {
			h.writeFailure(ctx, w, wf, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, wf.Snapshot())
	}
}

func (h *Handler) load(r *http.Request) (*workflow.Workflow, error) {
	regID, err := registrationID(r)
	if err != nil {
		return nil, err
	}
	return h.service.Get(r.Context(), regID)
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, wf *workflow.Workflow, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{Error: string(code)}
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "registration operation failed", "registration_id", wf.ID(), "error", err)
	} else {
		resp.ErrorDescription = dErrors.MessageOf(err, "")
	}
	st := wf.Snapshot()
	resp.State = &st
	httputil.WriteJSON(w, httputil.StatusFor(code), resp)
}

func registrationID(r *http.Request) (id.RegistrationID, error) {
	regID, err := id.ParseRegistrationID(chi.URLParam(r, "registrationID"))
	if err != nil {
		return id.RegistrationID{}, dErrors.New(dErrors.CodeNotFound, "registration not found")
	}
	return regID, nil
}

func fieldParam(r *http.Request) (models.Field, error) {
	f, ok := models.ParseField(chi.URLParam(r, "field"))
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown field")
	}
	return f, nil
}

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

func snapshot(context.Context, *http.Request, *workflow.Workflow) error { return nil }

func (h *Handler) setField(_ context.Context, r *http.Request, wf *workflow.Workflow) error {
	field, err := fieldParam(r)
	if err != nil {
		return err
	}
	req, err := httputil.DecodeJSON[FieldRequest](r)
	if err != nil {
		return err
	}
	return wf.SetField(field, req.Value)
}

func (h *Handler) focus(_ context.Context, r *http.Request, wf *workflow.Workflow) error {
	field, err := fieldParam(r)
	if err != nil {
		return err
	}
	wf.Focus(field)
	return nil
}

func (h *Handler) blur(_ context.Context, r *http.Request, wf *workflow.Workflow) error {
	field, err := fieldParam(r)
	if err != nil {
		return err
	}
	wf.Blur(field)
	return nil
}

func (h *Handler) setConsent(_ context.Context, r *http.Request, wf *workflow.Workflow) error {
	consent, ok := models.ParseConsent(chi.URLParam(r, "consent"))
	if !ok {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown consent")
	}
	req, err := httputil.DecodeJSON[ConsentRequest](r)
	if err != nil {
		return err
	}
	wf.SetConsent(consent, req.Agreed)
	return nil
}

func (h *Handler) setCode(_ context.Context, r *http.Request, wf *workflow.Workflow) error {
	req, err := httputil.DecodeJSON[CodeRequest](r)
	if err != nil {
		return err
	}
	wf.SetCode(req.Code)
	return nil
}

// Identity Service calls outlive the request; the workflow's loading flags
// track them and the client timeout bounds them.

func (h *Handler) checkHandle(ctx context.Context, _ *http.Request, wf *workflow.Workflow) error {
	return wf.CheckHandle(context.WithoutCancel(ctx))
}

func (h *Handler) sendVerification(ctx context.Context, _ *http.Request, wf *workflow.Workflow) error {
	return wf.SendVerification(context.WithoutCancel(ctx))
}

func (h *Handler) confirmCode(ctx context.Context, _ *http.Request, wf *workflow.Workflow) error {
	return wf.ConfirmCode(context.WithoutCancel(ctx))
}
