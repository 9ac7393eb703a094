// Package validate checks submitted form data. Each form has one pure
// function returning an Errors map; an empty map means the input is
// valid. Uniqueness rules consult persistence through the injected
// UserLookup so they stay testable.
package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Errors maps a field name to its validation messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Any() bool { return len(e) > 0 }

func (e Errors) Error() string {
	var b strings.Builder
	for field, msgs := range e {
		for _, m := range msgs {
			if b.Len() > 0 {
				b.WriteString("; ")
			}
			if field != "" {
				b.WriteString(field + ": ")
			}
			b.WriteString(m)
		}
	}
	return b.String()
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const requiredMsg = "This field is required"

func required(e Errors, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Add(field, requiredMsg)
		return false
	}
	return true
}

func length(e Errors, field, value string, min, max int) bool {
	if n := utf8.RuneCountInString(value); n < min || n > max {
		e.Add(field, fmt.Sprintf("Must be between %d and %d characters long", min, max))
		return false
	}
	return true
}

func email(e Errors, field, value string) bool {
	if !emailRe.MatchString(value) {
		e.Add(field, "Invalid email address")
		return false
	}
	return true
}

// UserLookup provides the read-only persistence checks behind the
// uniqueness rules.
type UserLookup interface {
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

type RegisterForm struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

// Register validates a registration submission. Every field is checked
// independently so one round-trip reports all failures; within a field
// checking stops at the first failure. The returned error is non-nil
// only when a uniqueness lookup itself failed.
func Register(ctx context.Context, f RegisterForm, users UserLookup) (Errors, error) {
	errs := Errors{}

	if required(errs, "username", f.Username) && length(errs, "username", f.Username, 5, 20) {
		taken, err := users.UsernameTaken(ctx, f.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("username", "Username already registered. Please use a different username")
		}
	}

	if required(errs, "email", f.Email) && email(errs, "email", f.Email) {
		taken, err := users.EmailTaken(ctx, f.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", "Email already registered. Please use a different email")
		}
	}

	required(errs, "password", f.Password)
	if required(errs, "confirm", f.Confirm) && f.Confirm != f.Password {
		errs.Add("confirm", "Passwords must match")
	}

	return errs, nil
}

type LoginForm struct {
	Email    string
	Password string
}

func Login(f LoginForm) Errors {
	errs := Errors{}
	if required(errs, "email", f.Email) {
		email(errs, "email", f.Email)
	}
	required(errs, "password", f.Password)
	return errs
}

type PostForm struct {
	Title     string
	Category  string
	Reference string
	Content   string
	Private   bool
}

func Post(f PostForm, validCategory func(string) bool) Errors {
	errs := Errors{}
	if required(errs, "title", f.Title) {
		length(errs, "title", f.Title, 3, 30)
	}
	if required(errs, "category", f.Category) && !validCategory(f.Category) {
		errs.Add("category", "Not a valid choice")
	}
	required(errs, "content", f.Content)
	return errs
}
