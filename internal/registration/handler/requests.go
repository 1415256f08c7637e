package handler

// FieldRequest is the body of PUT /registrations/{id}/fields/{field}.
type FieldRequest struct {
	Value string `json:"value"`
}

// ConsentRequest is the body of PUT /registrations/{id}/consents/{consent}.
type ConsentRequest struct {
	Agreed bool `json:"agreed"`
}

// CodeRequest is the body of PUT /registrations/{id}/email-verification/code.
type CodeRequest struct {
	Code string `json:"code"`
}
