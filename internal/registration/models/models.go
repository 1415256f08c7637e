package models

import (
	"errors"
	"time"
)

// ErrEmailAlreadyRegistered is wrapped by the identity client when account
// creation is declined because the email belongs to an existing account.
var ErrEmailAlreadyRegistered = errors.New("email already registered")

// Field names a text input of the registration form.
type Field string

const (
	FieldHandle               Field = "handle"
	FieldEmail                Field = "email"
	FieldPassword             Field = "password"
	FieldPasswordConfirmation Field = "password_confirmation"
	FieldDisplayName          Field = "display_name"
	FieldRealName             Field = "real_name"
	FieldBirthDate            Field = "birth_date"
	FieldGender               Field = "gender"
	FieldPhone                Field = "phone"
)

var fields = map[Field]bool{
	FieldHandle: true, FieldEmail: true, FieldPassword: true,
	FieldPasswordConfirmation: true, FieldDisplayName: true, FieldRealName: true,
	FieldBirthDate: true, FieldGender: true, FieldPhone: true,
}

// ParseField returns the Field named s.
func ParseField(s string) (Field, bool) {
	f := Field(s)
	return f, fields[f]
}

// Consent names a checkbox of the registration form.
type Consent string

const (
	ConsentTerms     Consent = "terms"
	ConsentPrivacy   Consent = "privacy"
	ConsentMarketing Consent = "marketing"
)

// ParseConsent returns the Consent named s.
func ParseConsent(s string) (Consent, bool) {
	switch c := Consent(s); c {
	case ConsentTerms, ConsentPrivacy, ConsentMarketing:
		return c, true
	}
	return "", false
}

// Gender is the optional self-declared gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Form is the mutable registration record. Optional fields are empty when unset.
type Form struct {
	Handle               string
	Email                string
	Password             string
	PasswordConfirmation string
	DisplayName          string
	RealName             string
	BirthDate            string
	Gender               string
	Phone                string

	TermsAgreed     bool
	PrivacyAgreed   bool
	MarketingAgreed bool
}

// Value returns the current text of a field.
func (f *Form) Value(field Field) string {
	switch field {
	case FieldHandle:
		return f.Handle
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	case FieldPasswordConfirmation:
		return f.PasswordConfirmation
	case FieldDisplayName:
		return f.DisplayName
	case FieldRealName:
		return f.RealName
	case FieldBirthDate:
		return f.BirthDate
	case FieldGender:
		return f.Gender
	case FieldPhone:
		return f.Phone
	}
	return ""
}

// Set overwrites the text of a field.
func (f *Form) Set(field Field, value string) {
	switch field {
	case FieldHandle:
		f.Handle = value
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	case FieldPasswordConfirmation:
		f.PasswordConfirmation = value
	case FieldDisplayName:
		f.DisplayName = value
	case FieldRealName:
		f.RealName = value
	case FieldBirthDate:
		f.BirthDate = value
	case FieldGender:
		f.Gender = value
	case FieldPhone:
		f.Phone = value
	}
}

// EmailStage is the state of the email verification sub-protocol.
type EmailStage string

const (
	EmailUnverified    EmailStage = "unverified"
	EmailCodeRequested EmailStage = "code_requested"
	EmailVerified      EmailStage = "verified"
)

// Verification tracks the point-in-time attestations about handle and email.
type Verification struct {
	HandleChecked bool
	EmailStage    EmailStage
	Code          string
}

// EmailVerified reports whether the current email has been confirmed.
func (v Verification) EmailVerified() bool { return v.EmailStage == EmailVerified }

// CodeFormShown reports whether the code-entry form is displayed.
func (v Verification) CodeFormShown() bool { return v.EmailStage == EmailCodeRequested }

// PasswordCheck is the live result of the password shape rules.
type PasswordCheck struct {
	HasLetter      bool `json:"has_letter"`
	HasDigit       bool `json:"has_digit"`
	HasSpecialChar bool `json:"has_special_char"`
	HasMinLength   bool `json:"has_min_length"`
	IsValid        bool `json:"is_valid"`
}

// ErrorKind classifies a failure shown in the error slot.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindRejection  ErrorKind = "rejection"
	ErrorKindTransport  ErrorKind = "transport"
)

// Notice is the single visible error.
type Notice struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Loading reports which asynchronous operations are outstanding.
type Loading struct {
	HandleCheck bool `json:"handle_check"`
	SendCode    bool `json:"send_code"`
	ConfirmCode bool `json:"confirm_code"`
	Submit      bool `json:"submit"`
}

// State is a read-only snapshot of a workflow for rendering. Passwords are
// never included.
type State struct {
	Handle          string `json:"handle"`
	Email           string `json:"email"`
	DisplayName     string `json:"display_name"`
	RealName        string `json:"real_name"`
	BirthDate       string `json:"birth_date"`
	Gender          string `json:"gender"`
	Phone           string `json:"phone"`
	TermsAgreed     bool   `json:"terms_agreed"`
	PrivacyAgreed   bool   `json:"privacy_agreed"`
	MarketingAgreed bool   `json:"marketing_agreed"`

	Password    PasswordCheck    `json:"password"`
	FieldErrors map[Field]string `json:"field_errors"`

	HandleChecked bool       `json:"handle_checked"`
	EmailStage    EmailStage `json:"email_stage"`
	EmailVerified bool       `json:"email_verified"`
	CodeFormShown bool       `json:"code_form_shown"`
	Code          string     `json:"code"`

	Loading   Loading `json:"loading"`
	Error     *Notice `json:"error,omitempty"`
	Info      string  `json:"info,omitempty"`
	Completed bool    `json:"completed"`
}

// HandleAvailability is the Identity Service answer to a handle check.
type HandleAvailability struct {
	Available bool
	Message   string
}

// VerificationDispatch is the Identity Service answer to a send request.
type VerificationDispatch struct {
	Queued  bool
	Message string
}

// VerificationResult is the Identity Service answer to a code confirmation.
type VerificationResult struct {
	Verified bool
	Message  string
}

// CreateAccountRequest is the account-creation payload. Empty optional fields
// are nil.
type CreateAccountRequest struct {
	Handle          string
	Email           string
	Password        string
	DisplayName     string
	RealName        *string
	BirthDate       *string
	Gender          *Gender
	Phone           *string
	TermsAgreed     bool
	PrivacyAgreed   bool
	MarketingAgreed bool
}

// Account is the created account as reported by the Identity Service.
type Account struct {
	ID          int64     `json:"id"`
	Handle      string    `json:"handle"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// LoginPath is where a completed registration hands control.
const LoginPath = "/login"

// Outcome is the terminal result of a successful registration.
type Outcome struct {
	Account Account `json:"account"`
	Next    string  `json:"next"`
}
