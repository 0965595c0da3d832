// Package transcript prepares user-supplied text before it is sent to a
// provider.
package transcript

import (
	"regexp"
	"strings"
)

// Finnish personal identity code: DDMMYY, century sign, individual number
// and check character.
var personalIDRe = regexp.MustCompile(`(?i)\d{6}[-+A]\d{3}[0-9A-Z]`)

// Normalize trims surrounding whitespace. The transcript itself is forwarded
// unchanged.
func Normalize(text string) string {
	return strings.TrimSpace(text)
}

// ContainsPersonalID reports whether text contains something shaped like a
// Finnish personal identity code. Anything with six digits, a century sign and
// four more characters matches, including some order numbers and timestamps.
func ContainsPersonalID(text string) bool {
	return personalIDRe.MatchString(text)
}
