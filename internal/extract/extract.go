// Package extract turns the model's raw, untrusted text into a typed
// candidate build. Exactly one parse attempt per source: a fenced JSON block
// takes precedence over the bare text, and there are no repair heuristics —
// a malformed response is terminal for the request.
package extract

import (
	"regexp"
	"strings"

	"github.com/hyperjump/buildbot/pkg/utils"
)

// rawPrefixLen bounds how much of the offending raw text is carried in an
// OutputError for diagnosis.
const rawPrefixLen = 200

// fencePattern matches the first ```json code fence. Models told to emit
// bare JSON still wrap it in fences often enough that tolerating one is the
// difference between a working endpoint and a 500.
var fencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Payload returns the JSON-candidate portion of the model's raw text: the
// first fenced block's contents when present, otherwise the trimmed text.
func Payload(raw string) string {
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return strings.TrimSpace(raw)
}

func truncateRaw(raw string) string {
	return utils.Truncate(raw, rawPrefixLen)
}
