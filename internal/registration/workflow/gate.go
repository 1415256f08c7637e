package workflow

import (
	"fmt"

	"ddinvest/internal/registration/models"
	"ddinvest/internal/registration/validate"
)

// Gate reasons, reported as metric labels.
const (
	ReasonConstraint       = "constraint"
	ReasonPasswordMismatch = "password_mismatch"
	ReasonConsentMissing   = "consent_missing"
	ReasonHandleUnchecked  = "handle_unchecked"
	ReasonEmailUnverified  = "email_unverified"
)

// GateError explains why a submission was blocked locally.
type GateError struct {
	Reason  string
	Message string
}

func (e *GateError) Error() string { return e.Message }

type lengthRule struct {
	field  models.Field
	label  string
	lo, hi int
}

var requiredRules = []lengthRule{
	{models.FieldHandle, "handle", validate.HandleMinLength, validate.HandleMaxLength},
	{models.FieldEmail, "email", 1, 0},
	{models.FieldPassword, "password", validate.PasswordMinLength, validate.PasswordMaxLength},
	{models.FieldPasswordConfirmation, "password confirmation", 1, 0},
	{models.FieldDisplayName, "display name", validate.DisplayMinLength, validate.DisplayMaxLength},
}

// checkConstraints replays the form's native input constraints: required
// fields, length ranges and the shape of filled optional fields.
func checkConstraints(f *models.Form) *GateError {
	for _, rule := range requiredRules {
		v := f.Value(rule.field)
		if v == "" {
			return &GateError{Reason: ReasonConstraint, Message: rule.label + msgFieldRequiredSuffix}
		}
		if rule.hi > 0 && !validate.Length(v, rule.lo, rule.hi) {
			return &GateError{
				Reason:  ReasonConstraint,
				Message: rule.label + fmt.Sprintf(msgFieldLengthSuffixFormat, rule.lo, rule.hi),
			}
		}
	}
	if !validate.Email(f.Email) {
		return &GateError{Reason: ReasonConstraint, Message: MsgEmailInvalid}
	}
	if f.BirthDate != "" && !validate.BirthDate(f.BirthDate) {
		return &GateError{Reason: ReasonConstraint, Message: MsgBirthDateInvalid}
	}
	return nil
}

// checkGate evaluates the submission conditions in their fixed order. The
// first failing condition wins.
func checkGate(f *models.Form, v models.Verification) *GateError {
	if f.Password != f.PasswordConfirmation {
		return &GateError{Reason: ReasonPasswordMismatch, Message: MsgPasswordMismatch}
	}
	if !f.TermsAgreed || !f.PrivacyAgreed {
		return &GateError{Reason: ReasonConsentMissing, Message: MsgConsentRequired}
	}
	if !v.HandleChecked {
		return &GateError{Reason: ReasonHandleUnchecked, Message: MsgHandleUnchecked}
	}
	if !v.EmailVerified() {
		return &GateError{Reason: ReasonEmailUnverified, Message: MsgEmailUnverified}
	}
	return nil
}

// firstFailure runs the constraints then the gate.
func firstFailure(f *models.Form, v models.Verification) *GateError {
	if ge := checkConstraints(f); ge != nil {
		return ge
	}
	return checkGate(f, v)
}

// buildRequest normalizes the form into the account-creation payload.
func buildRequest(f *models.Form) models.CreateAccountRequest {
	req := models.CreateAccountRequest{
		Handle:          f.Handle,
		Email:           f.Email,
		Password:        f.Password,
		DisplayName:     f.DisplayName,
		RealName:        optional(f.RealName),
		Phone:           optional(f.Phone),
		TermsAgreed:     f.TermsAgreed,
		PrivacyAgreed:   f.PrivacyAgreed,
		MarketingAgreed: f.MarketingAgreed,
	}
	if f.BirthDate != "" {
		d := validate.NormalizeBirthDate(f.BirthDate)
		req.BirthDate = &d
	}
	if g, ok := validate.ParseGender(f.Gender); ok {
		req.Gender = &g
	}
	return req
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
