package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrNetwork matches transport failures: the API could not be reached.
	ErrNetwork = errors.New("no internet connection")
	// ErrUnauthorized matches 401 responses.
	ErrUnauthorized = errors.New("unauthorized")
)

const fallbackMessage = "Something went wrong"

// Error is a non 2xx response of the API.
type Error struct {
	Status  int
	Message string
	// Fields holds per field validation errors.
	Fields map[string][]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// UserMessage returns the message to show in the interface.
func (e *Error) UserMessage() string { return e.Message }

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// NetworkError wraps a transport failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string        { return "api: network: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error        { return e.Err }
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }
func (e *NetworkError) UserMessage() string  { return "No internet connection" }

// parseError builds an [Error] from a response body. The message is the
// first present of message, error.message, error, detail, and the first
// field error.
func parseError(status int, body []byte) *Error {
	e := &Error{Status: status}
	if gjson.ValidBytes(body) {
		doc := gjson.ParseBytes(body)
		e.Fields = fieldErrors(doc)
		for _, path := range []string{"message", "error.message", "error", "detail"} {
			if v := doc.Get(path); v.Type == gjson.String && v.String() != "" {
				e.Message = v.String()
				break
			}
		}
		if e.Message == "" {
			e.Message = firstFieldError(e.Fields)
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Message == "" {
		e.Message = fallbackMessage
	}
	return e
}

func fieldErrors(doc gjson.Result) map[string][]string {
	if !doc.IsObject() {
		return nil
	}
	fields := map[string][]string{}
	doc.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			return true
		}
		for _, msg := range value.Array() {
			if msg.Type == gjson.String {
				fields[key.String()] = append(fields[key.String()], msg.String())
			}
		}
		return true
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func firstFieldError(fields map[string][]string) string {
	if msgs := fields["non_field_errors"]; len(msgs) > 0 {
		return msgs[0]
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if msgs := fields[k]; len(msgs) > 0 {
			return strings.ReplaceAll(k, "_", " ") + ": " + msgs[0]
		}
	}
	return ""
}
