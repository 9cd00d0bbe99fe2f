package transform

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// AvailabilityFilter tests whether a document declares availability on any
// of a set of platforms.
type AvailabilityFilter struct {
	pattern *regexp.Regexp
}

// NewAvailabilityFilter builds a filter for platform display names such as
// "iOS" or "macOS". A filter without platforms matches nothing.
func NewAvailabilityFilter(platforms []string) *AvailabilityFilter {
	if len(platforms) == 0 {
		return &AvailabilityFilter{}
	}
	quoted := make([]string, len(platforms))
	for i, p := range platforms {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return &AvailabilityFilter{
		pattern: regexp.MustCompile(`Available in \(?(?:` + strings.Join(quoted, "|") + `)`),
	}
}

// AppliesTo reports whether some line of r is an availability line for one
// of the filter's platforms. Reading stops at the first match.
func (f *AvailabilityFilter) AppliesTo(r io.Reader) (bool, error) {
	if f.pattern == nil {
		return false, nil
	}
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if f.pattern.Match(line) {
			return true, nil
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}
