package form

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DateLayout is the date format of date fields.
	DateLayout     = time.DateOnly
	DateLayoutHint = "YYYY-MM-DD"
)

// Rule checks a single value and returns a message when it is invalid.
type Rule func(string) string

// Rules builds a [Schema] from per-field rules. The first failing rule of a
// field wins.
func Rules(rules map[string][]Rule) Schema {
	return func(v Values) Errors {
		errs := Errors{}
		for k, rs := range rules {
			for _, r := range rs {
				if msg := r(v[k]); msg != "" {
					errs[k] = msg
					break
				}
			}
		}
		if len(errs) == 0 {
			return nil
		}
		return errs
	}
}

// Merge combines schemas. Errors of later schemas do not replace earlier
// ones for the same field.
func Merge(schemas ...Schema) Schema {
	return func(v Values) Errors {
		errs := Errors{}
		for _, s := range schemas {
			for k, msg := range s(v) {
				if _, ok := errs[k]; !ok {
					errs[k] = msg
				}
			}
		}
		if len(errs) == 0 {
			return nil
		}
		return errs
	}
}

func Required(msg string) Rule {
	return func(s string) string {
		if strings.TrimSpace(s) == "" {
			return msg
		}
		return ""
	}
}

func MinLength(n int, msg string) Rule {
	return func(s string) string {
		if len([]rune(s)) < n {
			return msg
		}
		return ""
	}
}

func Email(msg string) Rule {
	return func(s string) string {
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return msg
		}
		return ""
	}
}

func UUID(msg string) Rule {
	return func(s string) string {
		if err := uuid.Validate(s); err != nil {
			return msg
		}
		return ""
	}
}

// Positive accepts numbers greater than zero.
func Positive(msg string) Rule {
	return func(s string) string {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || f <= 0 {
			return msg
		}
		return ""
	}
}

func OneOf(msg string, allowed ...string) Rule {
	return func(s string) string {
		if !slices.Contains(allowed, s) {
			return msg
		}
		return ""
	}
}

func Match(re *regexp.Regexp, msg string) Rule {
	return func(s string) string {
		if !re.MatchString(s) {
			return msg
		}
		return ""
	}
}

func ValidDate(msg string) Rule {
	return func(s string) string {
		if _, err := ParseDate(s); err != nil {
			return msg
		}
		return ""
	}
}

// ParseDate parses a value of a date field.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
