package identity

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ddinvest/internal/registration/models"
	dErrors "ddinvest/pkg/domain-errors"
	"ddinvest/pkg/platform/sentinel"
)

const codeEmailTaken = "email_taken"

// errorBody is the service's failure envelope. Detail is either a string or,
// for request validation errors, a list of {msg} objects.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Code   string          `json:"code"`
}

type validationItem struct {
	Msg string `json:"msg"`
}

// detailText flattens the detail field into one message.
func (b errorBody) detailText() string {
	if len(b.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Detail, &s); err == nil {
		return s
	}
	var items []validationItem
	if err := json.Unmarshal(b.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// decodeFailure turns a non-2xx answer into a coded error.
func decodeFailure(status int, raw []byte) error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)
	detail := body.detailText()

	if status >= http.StatusInternalServerError {
		cause := fmt.Errorf("%w: status %d", sentinel.ErrUnavailable, status)
		if detail != "" {
			cause = fmt.Errorf("%w: %s", cause, detail)
		}
		return dErrors.Wrap(cause, dErrors.CodeUnavailable, "identity service failed")
	}

	msg := detail
	if msg == "" {
		msg = http.StatusText(status)
	}
	if emailTaken(status, body.Code, detail) {
		return dErrors.Wrap(models.ErrEmailAlreadyRegistered, dErrors.CodeRejected, msg)
	}
	if status == http.StatusUnauthorized {
		return dErrors.New(dErrors.CodeUnauthorized, msg)
	}
	return dErrors.New(dErrors.CodeRejected, msg)
}

// emailTaken recognizes the duplicate-email refusal of account creation. The
// service reports it as a 400 with a localized detail, or with an explicit
// code.
func emailTaken(status int, code, detail string) bool {
	if code == codeEmailTaken {
		return true
	}
	if status != http.StatusBadRequest && status != http.StatusConflict {
		return false
	}
	if strings.Contains(detail, "이미 존재하는 이메일") {
		return true
	}
	lower := strings.ToLower(detail)
	if !strings.Contains(lower, "email") {
		return false
	}
	for _, hint := range []string{"exist", "already", "taken", "registered", "in use"} {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
