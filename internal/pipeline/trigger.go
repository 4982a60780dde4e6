package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// The ref a pipeline run was started for and whether it releases.
type Trigger struct {
	Ref   string // Ref as given, e.g. "refs/tags/v1.2.3" or "main".
	IsTag bool   // Whether the ref is a release tag.
	Tag   string // Tag name with any "refs/tags/" prefix stripped.
}

// Classifies a ref against the release tag pattern.
//
// The "refs/tags/" prefix is stripped before matching so both full refs
// and bare tag names classify the same way. Any ref the pattern does not
// match runs the build stages but never touches the release boundary.
func Detect(ref, pattern string) (Trigger, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Trigger{}, fmt.Errorf("invalid tag pattern %q: %w", pattern, err)
	}

	tag := strings.TrimPrefix(ref, "refs/tags/")
	if strings.HasPrefix(ref, "refs/heads/") || !re.MatchString(tag) {
		return Trigger{Ref: ref}, nil
	}

	return Trigger{Ref: ref, IsTag: true, Tag: tag}, nil
}
