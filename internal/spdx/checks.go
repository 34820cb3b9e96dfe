package spdx

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/cases"
)

var (
	versionPattern = regexp.MustCompile(`^SPDX-\d+\.\d+$`)
	idPattern      = regexp.MustCompile(`^SPDXRef-[A-Za-z0-9.\-]+$`)
	createdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)
)

// creatorKinds are the case-folded prefixes a Creator value may start with.
// Both spellings of organisation are accepted.
var creatorKinds = []string{"tool:", "person:", "organization:", "organisation:"}

func checkCreator(v string) string {
	folded := cases.Fold().String(strings.TrimSpace(v))

	for _, kind := range creatorKinds {
		if strings.HasPrefix(folded, kind) {
			return ""
		}
	}

	return fmt.Sprintf("%q is not tagged as Tool:, Person: or Organization:", v)
}

func checkNamespace(v string) string {
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" {
		return fmt.Sprintf("%q is not an absolute URI", v)
	}

	if strings.Contains(v, "#") {
		return fmt.Sprintf("%q must not contain '#'", v)
	}

	return ""
}

func checkPackageVersion(v string) string {
	if v == NoAssertion {
		return ""
	}

	if _, err := semver.NewVersion(v); err != nil {
		return fmt.Sprintf("%q is not a semantic version", v)
	}

	return ""
}

func checkBool(v string) string {
	if v == "true" || v == "false" {
		return ""
	}

	return fmt.Sprintf("%q must be true or false", v)
}
