// Package apperror gives every failure the same shape no matter where it came
// from, so handlers, sockets and logs all report errors the same way.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"PartyHub/utils/logger"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

const unknownMessage = "An unexpected error occurred"

// Error is the normalized error shape.
type Error struct {
	Message  string         `json:"message"`
	Code     string         `json:"code,omitempty"`
	Severity Severity       `json:"severity"`
	Context  map[string]any `json:"context,omitempty"`

	Status int   `json:"-"`
	Cause  error `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus is the status a handler should answer with; 500 when unset.
func (e *Error) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// WithContext returns a copy of e carrying one more context entry.
func (e Error) WithContext(key string, value any) Error {
	ctx := make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	e.Context = ctx
	return e
}

func New(status int, code, message string) *Error {
	return &Error{Message: message, Code: code, Severity: SeverityError, Status: status}
}

func Wrap(status int, code, message string, cause error) *Error {
	return &Error{Message: message, Code: code, Severity: SeverityError, Status: status, Cause: cause}
}

func BadRequest(code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

func Unauthorized(message string) *Error {
	e := New(http.StatusUnauthorized, "unauthorized", message)
	e.Severity = SeverityWarning
	return e
}

func Forbidden(message string) *Error {
	e := New(http.StatusForbidden, "forbidden", message)
	e.Severity = SeverityWarning
	return e
}

func NotFound(code, message string) *Error {
	e := New(http.StatusNotFound, code, message)
	e.Severity = SeverityWarning
	return e
}

// Normalize turns anything that was raised or returned as an error into an
// Error. It understands *Error, plain errors (optionally exposing Code() and
// HTTPStatus()), strings and decoded JSON objects with message/code/severity/
// context keys. Anything else is formatted with fmt.
func Normalize(v any) Error {
	var out Error

	switch t := v.(type) {
	case nil:
		out.Message = unknownMessage
	case *Error:
		if t == nil {
			out.Message = unknownMessage
			break
		}
		out = *t
	case Error:
		out = t
	case error:
		var ae *Error
		if errors.As(t, &ae) && ae != nil {
			out = *ae
			break
		}
		out.Message = t.Error()
		out.Cause = t
		var coded interface{ Code() string }
		if errors.As(t, &coded) {
			out.Code = coded.Code()
		}
		var statused interface{ HTTPStatus() int }
		if errors.As(t, &statused) {
			out.Status = statused.HTTPStatus()
		}
	case string:
		out.Message = t
	case map[string]any:
		out = fromObject(t)
	case fmt.Stringer:
		out.Message = t.String()
	default:
		out.Message = fmt.Sprint(v)
	}

	if out.Message == "" {
		out.Message = unknownMessage
	}
	out.Severity = severity(out.Severity)
	return out
}

func fromObject(obj map[string]any) Error {
	var out Error
	for _, key := range []string{"message", "error", "msg"} {
		if m, ok := obj[key].(string); ok && m != "" {
			out.Message = m
			break
		}
	}
	switch c := obj["code"].(type) {
	case string:
		out.Code = c
	case float64:
		out.Code = fmt.Sprintf("%g", c)
	case int:
		out.Code = fmt.Sprint(c)
	}
	if s, ok := obj["severity"].(string); ok {
		out.Severity = Severity(s)
	}
	if ctx, ok := obj["context"].(map[string]any); ok {
		out.Context = ctx
	}
	return out
}

func severity(s Severity) Severity {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError, SeverityCritical:
		return s
	}
	return SeverityError
}

// Report logs e once at the level matching its severity.
func Report(e Error) {
	kv := []any{"code", e.Code, "severity", e.Severity}
	if e.Status != 0 {
		kv = append(kv, "status", e.Status)
	}
	for k, v := range e.Context {
		kv = append(kv, k, v)
	}
	if e.Cause != nil && e.Cause.Error() != e.Message {
		kv = append(kv, "cause", e.Cause.Error())
	}

	switch e.Severity {
	case SeverityInfo:
		logger.Infow(e.Message, kv...)
	case SeverityWarning:
		logger.Warnw(e.Message, kv...)
	default:
		logger.Errorw(e.Message, kv...)
	}
}
