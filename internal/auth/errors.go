package auth

import "strings"

// Kind classifies an authentication failure into the closed set the
// login surface knows how to present.
type Kind string

const (
	KindUserNotFound  Kind = "user-not-found"
	KindWrongPassword Kind = "wrong-password"
	KindEmailExists   Kind = "email-already-in-use"
	KindWeakPassword  Kind = "weak-password"
	KindInvalidEmail  Kind = "invalid-email"
	KindNotConfigured Kind = "not-configured"
	KindUnknown       Kind = "unknown"
)

// Error is an authentication failure with a stable kind and a message
// safe to show to the end user.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

var userMessages = map[Kind]string{
	KindUserNotFound:  "No account found with this email address.",
	KindWrongPassword: "Incorrect password. Please try again.",
	KindEmailExists:   "An account with this email already exists.",
	KindWeakPassword:  "Password should be at least 6 characters long.",
	KindInvalidEmail:  "Please enter a valid email address.",
	KindNotConfigured: "Authentication is not properly configured. Please check your environment variables.",
}

func newError(kind Kind, fallback string) *Error {
	if msg, ok := userMessages[kind]; ok {
		return &Error{Kind: kind, Message: msg}
	}
	return &Error{Kind: kind, Message: fallback}
}

// classify maps an identity provider error code to a Kind. Codes carry
// optional detail after a colon, e.g. "WEAK_PASSWORD : ...".
func classify(code string) Kind {
	if i := strings.IndexByte(code, ':'); i >= 0 {
		code = code[:i]
	}
	switch strings.TrimSpace(code) {
	case "EMAIL_NOT_FOUND":
		return KindUserNotFound
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return KindWrongPassword
	case "EMAIL_EXISTS":
		return KindEmailExists
	case "WEAK_PASSWORD":
		return KindWeakPassword
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return KindInvalidEmail
	default:
		return KindUnknown
	}
}
