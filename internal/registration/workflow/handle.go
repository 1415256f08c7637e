package workflow

import (
	"context"

	"ddinvest/internal/registration/models"
)

// CheckHandle asks the Identity Service whether the current handle is free.
//
// The local guard only requires a non-empty handle; length rules are not
// applied here, so the service's answer alone decides HandleChecked. On any
// failure HandleChecked keeps its prior value.
func (w *Workflow) CheckHandle(ctx context.Context) error {
	w.mu.Lock()
	target := w.form.Handle
	if target == "" {
		err := w.failLocal(MsgHandleRequired)
		w.mu.Unlock()
		return err
	}
	if w.loading.HandleCheck {
		w.mu.Unlock()
		return inFlight()
	}
	w.loading.HandleCheck = true
	w.mu.Unlock()

	res, err := w.identity.CheckHandleAvailability(ctx, target)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading.HandleCheck = false

	if w.form.Handle != target {
		// The handle was edited while the check was in flight; the edit already
		// reset HandleChecked and this answer is about a different string.
		w.metrics.IncrementStale("handle_check")
		w.logger.DebugContext(ctx, "discarding stale handle check", "registration_id", w.id)
		return nil
	}

	if err != nil {
		w.metrics.IncrementHandleCheck("error")
		w.logger.WarnContext(ctx, "handle check failed", "registration_id", w.id, "error", err)
		return w.failRemote(err, MsgHandleCheckFailed, MsgHandleCheckFailed)
	}

	if !res.Available {
		w.metrics.IncrementHandleCheck("taken")
		w.verification.HandleChecked = false
		msg := res.Message
		if msg == "" {
			msg = MsgHandleTaken
		}
		w.setError(models.ErrorKindRejection, msg)
		return rejected(msg)
	}

	w.metrics.IncrementHandleCheck("available")
	w.verification.HandleChecked = true
	w.succeed(MsgHandleAvailable)
	return nil
}
