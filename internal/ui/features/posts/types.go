package posts

import (
	"net/mail"
	"strings"

	"github.com/leapstack-labs/leapdash/internal/ui/features/common"
)

// Validation messages of the comment form.
const (
	MsgNameRequired  = "Name required"
	MsgEmailRequired = "Email required"
	MsgInvalidEmail  = "Invalid email"
	MsgBodyRequired  = "Body required"
)

// commentSignals are the datastar signals the comment form binds.
type commentSignals struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Body  string `json:"body"`
}

func (s commentSignals) trimmed() commentSignals {
	return commentSignals{
		Name:  strings.TrimSpace(s.Name),
		Email: strings.TrimSpace(s.Email),
		Body:  strings.TrimSpace(s.Body),
	}
}

// validate checks every field and returns one message per failing field.
func (s commentSignals) validate() common.CommentErrors {
	var errs common.CommentErrors
	if s.Name == "" {
		errs.Name = MsgNameRequired
	}
	switch {
	case s.Email == "":
		errs.Email = MsgEmailRequired
	case !validEmail(s.Email):
		errs.Email = MsgInvalidEmail
	}
	if s.Body == "" {
		errs.Body = MsgBodyRequired
	}
	return errs
}

// validEmail accepts a bare addr-spec with a dotted domain, e.g. a@b.co.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".") && !strings.HasPrefix(domain, ".")
}
