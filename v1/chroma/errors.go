package chroma

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Kind classifies an Error so callers can decide whether to retry,
// fix their input, or fall back.
type Kind string

const (
	// KindConfiguration: invalid client or request construction, detected
	// before any network call.
	KindConfiguration Kind = "configuration"

	// KindConnectivity: transport-level failure (DNS, TCP, TLS, timeout).
	KindConnectivity Kind = "connectivity"

	// KindAuthFailure: the server rejected the credentials.
	KindAuthFailure Kind = "auth_failure"

	// KindNotFound: the named collection or entry does not exist.
	KindNotFound Kind = "not_found"

	// KindConflict: a strict create or add collided with an existing name or id.
	KindConflict Kind = "conflict"

	// KindBadRequest: the server rejected the request as malformed.
	KindBadRequest Kind = "bad_request"

	// KindServer: remote failure, 5xx-class.
	KindServer Kind = "server_error"

	// KindProtocol: the response violates the expected shape.
	KindProtocol Kind = "protocol_error"

	// KindEmbedding: the embedding provider failed before any database call.
	KindEmbedding Kind = "embedding_error"
)

// Sentinel errors for use with errors.Is. Any *Error of the same Kind matches.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrConnectivity  = &Error{Kind: KindConnectivity}
	ErrAuthFailure   = &Error{Kind: KindAuthFailure}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrBadRequest    = &Error{Kind: KindBadRequest}
	ErrServer        = &Error{Kind: KindServer}
	ErrProtocol      = &Error{Kind: KindProtocol}
	ErrEmbedding     = &Error{Kind: KindEmbedding}
)

// Error is returned by every fallible operation in this package.
type Error struct {
	Kind Kind

	// Op is the client operation that failed, e.g. "query".
	Op string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// ServerError is the error name reported by the server, if any.
	ServerError string

	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("chroma")
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	b.WriteString(": ")
	b.WriteString(string(e.Kind))
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRetryable reports whether repeating the same call may succeed:
// connectivity failures and server-side errors.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindConnectivity, KindServer:
		return true
	}
	return false
}

// IsNotFoundError checks if the error reports a missing collection or entry.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError checks if the error reports a duplicate name or id.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsEmbeddingError checks if the error came from the embedding provider.
func IsEmbeddingError(err error) bool {
	return errors.Is(err, ErrEmbedding)
}

func configError(op, msg string) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Message: msg}
}

func wrapError(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: msg, Err: err}
}

// serverErrorBody is the error envelope returned by the server.
// Older servers put the error name in "error" and the text in "message";
// some proxies only return "detail".
type serverErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  any    `json:"detail"`
}

// mapHTTPError converts a non-2xx response into an *Error.
func mapHTTPError(op string, resp *http.Response) *Error {
	name, message := extractServerError(resp.Body)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	e := &Error{
		Op:          op,
		StatusCode:  resp.StatusCode,
		ServerError: name,
		Message:     message,
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		e.Kind = KindAuthFailure
	case resp.StatusCode == http.StatusNotFound:
		e.Kind = KindNotFound
	case resp.StatusCode == http.StatusConflict:
		e.Kind = KindConflict
	case resp.StatusCode >= http.StatusInternalServerError:
		e.Kind = KindServer
	default:
		e.Kind = KindBadRequest
	}

	// Some server versions report missing collections and duplicates with
	// a generic status; the error name is more precise. Message text only
	// refines client errors, so a 5xx stays retryable unless the server
	// named the failure.
	byMessage := resp.StatusCode < http.StatusInternalServerError
	if k, ok := kindFromServerError(name, message, byMessage); ok && e.Kind != KindAuthFailure {
		e.Kind = k
	}
	return e
}

func kindFromServerError(name, message string, byMessage bool) (Kind, bool) {
	switch name {
	case "NotFoundError", "InvalidCollection", "InvalidCollectionException":
		return KindNotFound, true
	case "UniqueConstraintError", "DuplicateIDError", "IDAlreadyExistsError":
		return KindConflict, true
	case "AuthorizationError", "AuthenticationError":
		return KindAuthFailure, true
	}
	if !byMessage {
		return "", false
	}
	lower := strings.ToLower(message)
	if strings.Contains(lower, "does not exist") {
		return KindNotFound, true
	}
	if strings.Contains(lower, "already exists") {
		return KindConflict, true
	}
	return "", false
}

func extractServerError(body io.Reader) (name, message string) {
	if body == nil {
		return "", ""
	}
	data, err := io.ReadAll(io.LimitReader(body, 8192))
	if err != nil || len(data) == 0 {
		return "", ""
	}

	var parsed serverErrorBody
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", strings.TrimSpace(string(data))
	}

	message = parsed.Message
	if message == "" && parsed.Detail != nil {
		if s, ok := parsed.Detail.(string); ok {
			message = s
		} else if b, err := json.Marshal(parsed.Detail); err == nil {
			message = string(b)
		}
	}
	if message == "" && parsed.Error != "" && !looksLikeErrorName(parsed.Error) {
		return "", parsed.Error
	}
	return parsed.Error, message
}

// looksLikeErrorName reports whether s is an identifier such as
// "NotFoundError" rather than free text.
func looksLikeErrorName(s string) bool {
	return s != "" && !strings.ContainsAny(s, " :.")
}
