package workflow

import (
	"context"

	"ddinvest/internal/registration/models"
	"ddinvest/internal/registration/validate"
)

// SendVerification asks the Identity Service to mail a code to the current
// email. A resend while a code is pending is allowed; rate limiting is the
// service's concern. Success moves the stage to CodeRequested and clears any
// previously entered code. Failure leaves the stage where it was. A dispatch
// that lands after the email was edited or verified is dropped.
func (w *Workflow) SendVerification(ctx context.Context) error {
	w.mu.Lock()
	target := w.form.Email
	if err := w.sendGuardLocked(target); err != nil {
		w.mu.Unlock()
		return err
	}
	w.loading.SendCode = true
	w.clearSlots()
	w.mu.Unlock()

	res, err := w.identity.SendVerificationEmail(ctx, target)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading.SendCode = false

	if w.form.Email != target || w.verification.EmailVerified() {
		// The code belongs to an address the user has since replaced, or
		// the earlier code was confirmed while this one was being sent.
		w.metrics.IncrementStale("send_code")
		w.logger.DebugContext(ctx, "discarding stale verification dispatch", "registration_id", w.id)
		return nil
	}

	if err != nil {
		w.metrics.IncrementVerification("send", "error")
		w.logger.WarnContext(ctx, "verification dispatch failed", "registration_id", w.id, "error", err)
		return w.failRemote(err, MsgCodeNotQueued, MsgSendFailed)
	}
	if !res.Queued {
		w.metrics.IncrementVerification("send", "not_queued")
		msg := res.Message
		if msg == "" {
			msg = MsgCodeNotQueued
		}
		w.setError(models.ErrorKindRejection, msg)
		return rejected(msg)
	}

	w.metrics.IncrementVerification("send", "queued")
	w.verification.EmailStage = models.EmailCodeRequested
	w.verification.Code = ""
	w.dispatches++
	w.succeed(MsgCodeSent)
	return nil
}

func (w *Workflow) sendGuardLocked(email string) error {
	switch {
	case email == "":
		return w.failLocal(MsgEmailRequired)
	case !validate.Email(email):
		return w.failLocal(MsgEmailInvalid)
	case w.verification.EmailVerified():
		return w.failLocal(MsgEmailAlreadyVerified)
	case w.loading.SendCode:
		return inFlight()
	}
	return nil
}

// ConfirmCode submits the entered code for the current email. A rejection
// keeps the code so the user can correct it; success moves the stage to
// Verified and hides the code form. An answer for a code superseded by a
// later dispatch is dropped.
func (w *Workflow) ConfirmCode(ctx context.Context) error {
	w.mu.Lock()
	email, code, dispatch := w.form.Email, w.verification.Code, w.dispatches
	if err := w.confirmGuardLocked(code); err != nil {
		w.mu.Unlock()
		return err
	}
	w.loading.ConfirmCode = true
	w.clearSlots()
	w.mu.Unlock()

	res, err := w.identity.VerifyEmailCode(ctx, email, code)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading.ConfirmCode = false

	if w.form.Email != email || w.verification.EmailStage != models.EmailCodeRequested || w.dispatches != dispatch {
		// An email edit reset the protocol, or a resend replaced the code
		// being confirmed. Neither may verify the current address.
		w.metrics.IncrementStale("confirm_code")
		w.logger.DebugContext(ctx, "discarding stale code confirmation", "registration_id", w.id)
		return nil
	}

	if err != nil {
		w.metrics.IncrementVerification("confirm", "error")
		w.logger.InfoContext(ctx, "code confirmation failed", "registration_id", w.id, "error", err)
		return w.failRemote(err, MsgCodeRejected, MsgConfirmFailed)
	}
	if !res.Verified {
		w.metrics.IncrementVerification("confirm", "rejected")
		msg := res.Message
		if msg == "" {
			msg = MsgCodeRejected
		}
		w.setError(models.ErrorKindRejection, msg)
		return rejected(msg)
	}

	w.metrics.IncrementVerification("confirm", "verified")
	w.verification.EmailStage = models.EmailVerified
	w.verification.Code = ""
	w.succeed(MsgEmailVerified)
	return nil
}

func (w *Workflow) confirmGuardLocked(code string) error {
	switch {
	case w.verification.EmailStage != models.EmailCodeRequested:
		return w.failLocal(MsgCodeNotRequested)
	case code == "":
		return w.failLocal(MsgCodeRequired)
	case !validate.VerificationCode(code):
		return w.failLocal(MsgCodeLength)
	case w.loading.ConfirmCode:
		return inFlight()
	}
	return nil
}
