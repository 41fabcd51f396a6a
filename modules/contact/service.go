// Package contact relays storefront contact messages.
package contact

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/3marnadates-alt/3marna.art/domain/form"
	"github.com/3marnadates-alt/3marna.art/modules/formrelay"
	"github.com/go-monolith/mono/pkg/types"
)

// MaxMessageLength bounds the message body in characters.
const MaxMessageLength = 5000

// Customer-facing result messages.
const (
	MsgSent   = "شكراً على تواصلكم مع تمور العمارنة."
	MsgFailed = "حدث خطأ أثناء الإرسال. يرجى المحاولة مرة أخرى."
)

// Validation errors
var (
	ErrNameRequired    = errors.New("name is required")
	ErrEmailRequired   = errors.New("email is required")
	ErrEmailInvalid    = errors.New("email is not a valid address")
	ErrPhoneRequired   = errors.New("phone is required")
	ErrMessageRequired = errors.New("message is required")
	ErrMessageTooLong  = errors.New("message exceeds maximum length")
)

// Request is a contact form submission.
type Request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Validate checks the form fields.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ErrEmailInvalid
	}
	if strings.TrimSpace(r.Phone) == "" {
		return ErrPhoneRequired
	}
	if strings.TrimSpace(r.Message) == "" {
		return ErrMessageRequired
	}
	if utf8.RuneCountInString(r.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// Fields returns the form posted to the relay.
func (r Request) Fields() form.Fields {
	var f form.Fields
	f.Add("name", r.Name)
	f.Add("email", r.Email)
	f.Add("phone", r.Phone)
	f.Add("message", r.Message)
	return f
}

// Result is the outcome of a contact submission.
type Result struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	ErrorReason string `json:"error_reason,omitempty"`
}

// Service sends contact messages through the form relay.
type Service struct {
	relay  formrelay.Submitter
	logger types.Logger
}

// NewService creates a contact service.
func NewService(relay formrelay.Submitter, logger types.Logger) *Service {
	return &Service{relay: relay, logger: logger}
}

// Submit validates and relays req in a single attempt.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	res := s.relay.Submit(ctx, req.Fields())
	if !res.Success() {
		s.logger.Warn("Contact message not delivered", "outcome", res.Outcome, "error", res.Err)
		return Result{Success: false, ErrorReason: MsgFailed}, nil
	}

	s.logger.Info("Contact message relayed", "email", req.Email)
	return Result{Success: true, Message: MsgSent}, nil
}
