package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hupe1980/spdxtag/internal/tag"
)

// EachValue builds a Check that runs fn on every value of the named tag.
// fn returns an empty message for acceptable values. Unset tags produce no
// findings; structural validation covers them.
func EachValue(name string, fn func(value string) string) Check {
	return func(reg *tag.Registry) []Finding {
		t := reg.MustGet(name)

		var out []Finding

		for i, v := range t.Values() {
			msg := fn(v)
			if msg == "" {
				continue
			}

			if len(t.Values()) > 1 {
				msg = fmt.Sprintf("value %d: %s", i+1, msg)
			}

			out = append(out, Finding{Section: t.Section, Tag: t.Name, Message: msg})
		}

		return out
	}
}

// Matches builds a Check requiring every value of the named tag to match re.
func Matches(name string, re *regexp.Regexp, expected string) Check {
	return EachValue(name, func(v string) string {
		if re.MatchString(v) {
			return ""
		}

		return fmt.Sprintf("%q does not look like %s", v, expected)
	})
}

// Fields builds a Check requiring every value of the named tag to consist of
// at least n whitespace-separated fields.
func Fields(name string, n int) Check {
	return EachValue(name, func(v string) string {
		if got := len(strings.Fields(v)); got < n {
			return fmt.Sprintf("%q has %d field(s), expected %d", v, got, n)
		}

		return ""
	})
}

// Arity builds a Check warning about every tag of section that is not
// declared multi-valued but carries more than one value.
func Arity(section string) Check {
	return func(reg *tag.Registry) []Finding {
		var out []Finding

		for _, t := range reg.InSection(section) {
			if n := len(t.Values()); !t.Multi && n > 1 {
				out = append(out, Finding{
					Section: t.Section,
					Tag:     t.Name,
					Message: fmt.Sprintf("expected a single value, got %d", n),
				})
			}
		}

		return out
	}
}
