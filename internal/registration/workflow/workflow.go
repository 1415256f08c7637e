// Package workflow is the registration controller: it owns the form, the
// verification attestations and the error slot, and decides when the
// Identity Service may be called.
//
// A Workflow is safe for concurrent use. State changes happen under a mutex;
// Identity Service calls run outside it so a slow handle check never blocks
// email verification. Each call is stamped with the field value it targeted
// and its result is applied only if that value is still current.
package workflow

import (
	"log/slog"
	"sync"

	"ddinvest/internal/registration/metrics"
	"ddinvest/internal/registration/models"
	"ddinvest/internal/registration/validate"
	"ddinvest/internal/registration/visibility"
	id "ddinvest/pkg/domain"
	dErrors "ddinvest/pkg/domain-errors"
)

// Workflow is one registration attempt.
type Workflow struct {
	id       id.RegistrationID
	identity Identity
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu           sync.Mutex
	form         models.Form
	verification models.Verification
	visible      *visibility.Tracker
	loading      models.Loading
	errSlot      *models.Notice
	info         string
	outcome      *models.Outcome

	// dispatches counts queued verification codes.
	dispatches uint64
}

type Option func(*Workflow)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Workflow) {
		w.metrics = m
	}
}

// New creates a fresh workflow bound to an Identity Service.
func New(regID id.RegistrationID, identity Identity, opts ...Option) (*Workflow, error) {
	if identity == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "identity service is required")
	}
	w := &Workflow{
		id:           regID,
		identity:     identity,
		logger:       slog.Default(),
		verification: models.Verification{EmailStage: models.EmailUnverified},
		visible:      visibility.New(models.FieldPassword, models.FieldEmail, models.FieldBirthDate),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// ID returns the registration ID.
func (w *Workflow) ID() id.RegistrationID { return w.id }

// SetField applies a text edit. Editing the handle drops the availability
// attestation; editing the email drops verification, hides the code form and
// clears the entered code. The birth date goes through its input mask.
func (w *Workflow) SetField(field models.Field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.outcome != nil {
		return w.failLocal(MsgAlreadyCompleted)
	}
	if field == models.FieldGender && value != "" {
		if _, ok := validate.ParseGender(value); !ok {
			return w.failLocal(MsgGenderInvalid)
		}
	}

	switch field {
	case models.FieldBirthDate:
		value = validate.MaskBirthDate(w.form.BirthDate, value)
	case models.FieldHandle:
		w.verification.HandleChecked = false
	case models.FieldEmail:
		w.verification.EmailStage = models.EmailUnverified
		w.verification.Code = ""
	}
	w.form.Set(field, value)
	w.clearSlots()
	return nil
}

// SetConsent toggles a consent checkbox. A completed registration ignores it.
func (w *Workflow) SetConsent(consent models.Consent, agreed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.outcome != nil {
		return
	}

	switch consent {
	case models.ConsentTerms:
		w.form.TermsAgreed = agreed
	case models.ConsentPrivacy:
		w.form.PrivacyAgreed = agreed
	case models.ConsentMarketing:
		w.form.MarketingAgreed = agreed
	}
	w.clearSlots()
}

// SetCode records the verification code being typed.
func (w *Workflow) SetCode(code string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.outcome != nil {
		return
	}
	w.verification.Code = code
}

// Focus hides the field's validation message while it is being edited.
func (w *Workflow) Focus(field models.Field) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible.Focus(field)
}

// Blur lets the field's validation message show. A valid 8-digit birth date
// is reformatted to YYYY-MM-DD on the way out.
func (w *Workflow) Blur(field models.Field) {
	w.mu.Lock()
	defer w.mu.Unlock()

	value := w.form.Value(field)
	w.visible.Blur(field, value)
	if field == models.FieldBirthDate && value != "" {
		w.form.BirthDate = validate.FormatBirthDate(value)
	}
}

// Snapshot returns the current state for rendering.
func (w *Workflow) Snapshot() models.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workflow) snapshotLocked() models.State {
	f := w.form
	st := models.State{
		Handle:          f.Handle,
		Email:           f.Email,
		DisplayName:     f.DisplayName,
		RealName:        f.RealName,
		BirthDate:       f.BirthDate,
		Gender:          f.Gender,
		Phone:           f.Phone,
		TermsAgreed:     f.TermsAgreed,
		PrivacyAgreed:   f.PrivacyAgreed,
		MarketingAgreed: f.MarketingAgreed,

		Password:    validate.Password(f.Password),
		FieldErrors: map[models.Field]string{},

		HandleChecked: w.verification.HandleChecked,
		EmailStage:    w.verification.EmailStage,
		EmailVerified: w.verification.EmailVerified(),
		CodeFormShown: w.verification.CodeFormShown(),
		Code:          w.verification.Code,

		Loading:   w.loading,
		Info:      w.info,
		Completed: w.outcome != nil,
	}
	if w.errSlot != nil {
		n := *w.errSlot
		st.Error = &n
	}

	if w.visible.Visible(models.FieldPassword) && !st.Password.IsValid {
		st.FieldErrors[models.FieldPassword] = MsgPasswordWeak
	}
	if w.visible.Visible(models.FieldEmail) && !validate.Email(f.Email) {
		st.FieldErrors[models.FieldEmail] = MsgEmailInvalid
	}
	if w.visible.Visible(models.FieldBirthDate) && f.BirthDate != "" && !validate.BirthDate(f.BirthDate) {
		st.FieldErrors[models.FieldBirthDate] = MsgBirthDateInvalid
	}
	return st
}

// Verification returns the current attestations.
func (w *Workflow) Verification() models.Verification {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.verification
}

// Busy reports whether any Identity Service call is outstanding.
func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	l := w.loading
	return l.HandleCheck || l.SendCode || l.ConfirmCode || l.Submit
}

// Outcome returns the terminal result, or nil while the workflow is open.
func (w *Workflow) Outcome() *models.Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.outcome == nil {
		return nil
	}
	o := *w.outcome
	return &o
}

// -----------------------------------------------------------------------------
// Error slot. Callers hold w.mu.
// -----------------------------------------------------------------------------

func (w *Workflow) clearSlots() {
	w.errSlot = nil
	w.info = ""
}

func (w *Workflow) succeed(info string) {
	w.errSlot = nil
	w.info = info
}

func (w *Workflow) setError(kind models.ErrorKind, msg string) {
	w.errSlot = &models.Notice{Kind: kind, Message: msg}
	w.info = ""
}

func (w *Workflow) failLocal(msg string) error {
	w.setError(models.ErrorKindValidation, msg)
	return dErrors.New(dErrors.CodeValidation, msg)
}

// failRemote converts an Identity Service failure into the error slot. A
// rejection shows the service's message (or rejectedMsg when it gave none);
// anything that could not complete shows transportMsg.
func (w *Workflow) failRemote(err error, rejectedMsg, transportMsg string) error {
	if classify(err) == models.ErrorKindTransport {
		w.setError(models.ErrorKindTransport, transportMsg)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, transportMsg)
	}
	msg := dErrors.MessageOf(err, rejectedMsg)
	w.setError(models.ErrorKindRejection, msg)
	return dErrors.Wrap(err, dErrors.CodeRejected, msg)
}

// classify maps a coded error onto the three failure kinds shown to the user.
func classify(err error) models.ErrorKind {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return models.ErrorKindValidation
	case dErrors.CodeRejected, dErrors.CodeConflict, dErrors.CodeUnauthorized:
		return models.ErrorKindRejection
	default:
		return models.ErrorKindTransport
	}
}

func inFlight() error {
	return dErrors.New(dErrors.CodeInFlight, MsgRequestInFlight)
}

func rejected(msg string) error {
	return dErrors.New(dErrors.CodeRejected, msg)
}
