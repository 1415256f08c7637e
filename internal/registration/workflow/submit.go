package workflow

import (
	"context"
	"errors"
	"time"

	"ddinvest/internal/registration/models"
	dErrors "ddinvest/pkg/domain-errors"
)

// Submit evaluates the submission gate against the live state and, when it
// passes, issues exactly one account-creation call. While that call is
// outstanding further submits are suppressed with an in_flight error and make
// no call. Success is terminal: the outcome points at the login entry point
// and no session is created.
func (w *Workflow) Submit(ctx context.Context) (*models.Outcome, error) {
	w.mu.Lock()
	if w.outcome != nil {
		err := w.failLocal(MsgAlreadyCompleted)
		w.mu.Unlock()
		return nil, err
	}
	if w.loading.Submit {
		w.mu.Unlock()
		return nil, inFlight()
	}
	w.clearSlots()

	if ge := firstFailure(&w.form, w.verification); ge != nil {
		w.metrics.IncrementGateBlocked(ge.Reason)
		w.setError(models.ErrorKindValidation, ge.Message)
		w.mu.Unlock()
		return nil, dErrors.Wrap(ge, dErrors.CodeValidation, ge.Message)
	}

	req := buildRequest(&w.form)
	w.loading.Submit = true
	w.mu.Unlock()

	start := time.Now()
	account, err := w.identity.CreateAccount(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading.Submit = false

	if err == nil && account == nil {
		err = dErrors.New(dErrors.CodeUnavailable, "identity service returned no account")
	}
	if err != nil {
		return nil, w.failSubmitLocked(ctx, err)
	}

	w.metrics.IncrementSubmission("created")
	w.logger.InfoContext(ctx, "account created",
		"registration_id", w.id,
		"account_id", account.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	w.outcome = &models.Outcome{Account: *account, Next: models.LoginPath}
	w.succeed(MsgRegistered)
	o := *w.outcome
	return &o, nil
}

func (w *Workflow) failSubmitLocked(ctx context.Context, err error) error {
	w.logger.WarnContext(ctx, "account creation failed", "registration_id", w.id, "error", err)
	if errors.Is(err, models.ErrEmailAlreadyRegistered) {
		w.metrics.IncrementSubmission("email_taken")
		w.setError(models.ErrorKindRejection, MsgEmailAlreadyRegistered)
		return dErrors.Wrap(err, dErrors.CodeConflict, MsgEmailAlreadyRegistered)
	}
	if classify(err) == models.ErrorKindTransport {
		w.metrics.IncrementSubmission("transport_error")
	} else {
		w.metrics.IncrementSubmission("rejected")
	}
	return w.failRemote(err, MsgSubmitFailed, MsgSubmitFailed)
}
