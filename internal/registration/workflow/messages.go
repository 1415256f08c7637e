package workflow

// User-facing messages written into the error and info slots.
const (
	MsgHandleRequired    = "handle is required"
	MsgHandleAvailable   = "handle is available"
	MsgHandleTaken       = "handle is already taken"
	MsgHandleCheckFailed = "could not check handle availability, please try again"

	MsgEmailRequired        = "email is required"
	MsgEmailInvalid         = "enter a valid email address"
	MsgEmailAlreadyVerified = "email is already verified"
	MsgCodeSent             = "verification code sent, check your inbox"
	MsgCodeNotQueued        = "verification code could not be sent"
	MsgSendFailed           = "could not send the verification code, please try again"
	MsgCodeNotRequested     = "request a verification code first"
	MsgCodeRequired         = "verification code is required"
	MsgCodeLength           = "verification code must be 6 digits"
	MsgCodeRejected         = "verification code was not accepted"
	MsgConfirmFailed        = "could not verify the code, please try again"
	MsgEmailVerified        = "email verified"

	MsgPasswordWeak     = "password needs at least 8 characters including a letter, a digit and a special character"
	MsgBirthDateInvalid = "enter a valid birth date (YYYYMMDD)"
	MsgGenderInvalid    = "select a listed gender"

	MsgPasswordMismatch       = "passwords do not match"
	MsgConsentRequired        = "agree to the terms of service and privacy policy"
	MsgHandleUnchecked        = "check handle availability before signing up"
	MsgEmailUnverified        = "verify your email before signing up"
	MsgEmailAlreadyRegistered = "this email is already registered"
	MsgSubmitFailed           = "sign up failed, please try again"
	MsgRegistered             = "sign up complete, please log in"
	MsgAlreadyCompleted       = "registration is already complete"
	MsgRequestInFlight        = "a request is already in progress"

	msgFieldRequiredSuffix     = " is required"
	msgFieldLengthSuffixFormat = " must be %d to %d characters"
)
