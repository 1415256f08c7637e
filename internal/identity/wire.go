package identity

import (
	"encoding/json"
	"time"

	"ddinvest/internal/registration/models"
)

type availabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type verificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Email   string `json:"email"`
}

type registerRequest struct {
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	Password        string         `json:"password"`
	Nickname        string         `json:"nickname"`
	FullName        *string        `json:"full_name"`
	BirthDate       *string        `json:"birth_date"`
	Gender          *models.Gender `json:"gender"`
	Phone           *string        `json:"phone"`
	TermsAgreed     bool           `json:"terms_agreed"`
	PrivacyAgreed   bool           `json:"privacy_agreed"`
	MarketingAgreed bool           `json:"marketing_agreed"`
}

func toRegisterRequest(req models.CreateAccountRequest) registerRequest {
	return registerRequest{
		Username:        req.Handle,
		Email:           req.Email,
		Password:        req.Password,
		Nickname:        req.DisplayName,
		FullName:        req.RealName,
		BirthDate:       req.BirthDate,
		Gender:          req.Gender,
		Phone:           req.Phone,
		TermsAgreed:     req.TermsAgreed,
		PrivacyAgreed:   req.PrivacyAgreed,
		MarketingAgreed: req.MarketingAgreed,
	}
}

// userResponse covers the user objects returned by register, login and me.
type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Nickname  *string   `json:"nickname"`
	CreatedAt wireTime `json:"created_at"`
}

func (u userResponse) toAccount() models.Account {
	acc := models.Account{
		ID:        u.ID,
		Handle:    u.Username,
		Email:     u.Email,
		CreatedAt: time.Time(u.CreatedAt),
	}
	if u.Nickname != nil {
		acc.DisplayName = *u.Nickname
	}
	return acc
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

// wireTime accepts RFC 3339 timestamps and the zone-less ISO form the service
// emits for naive datetimes, which are taken as UTC.
type wireTime time.Time

var wireTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		// null or a non-string leaves the zero time.
		return nil
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = wireTime(parsed)
			return nil
		}
	}
	return nil
}
