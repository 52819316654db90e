// Package publicid builds the opaque identifiers under which assets are
// stored at the provider.
package publicid

import (
	"regexp"

	"github.com/google/uuid"
)

// MinLength is the shortest identifier the gateway accepts on removal
// requests. The random suffix alone is a 36 character UUID, so anything
// shorter cannot have been issued by this service.
const MinLength = 36

var (
	extensionPattern = regexp.MustCompile(`\.[^.]*$`)
	specialsPattern  = regexp.MustCompile("[`~!@#$%^&*()_|+=?;:'\",.<>{}\\[\\]\\\\/]")
	spaceRunPattern  = regexp.MustCompile(`\s\s+`)
	spacePattern     = regexp.MustCompile(`\s`)
)

// Normalize turns a user supplied filename into a safe identifier fragment:
// the trailing dot-extension is stripped, special characters are removed,
// whitespace runs collapse to a single space and remaining whitespace
// becomes hyphens. Normalize is total and idempotent; a filename consisting
// entirely of special characters yields the empty string.
func Normalize(filename string) string {
	out := extensionPattern.ReplaceAllString(filename, "")
	out = specialsPattern.ReplaceAllString(out, "")
	out = spaceRunPattern.ReplaceAllString(out, " ")
	return spacePattern.ReplaceAllString(out, "-")
}

// New returns a collision resistant public id for the given filename.
func New(filename string) string {
	return Normalize(filename) + "-" + uuid.NewString()
}
