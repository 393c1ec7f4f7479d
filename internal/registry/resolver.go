// ABOUTME: Instruction resolver mapping dotted method paths to table entries
// ABOUTME: Failures localize the valid alternatives to the deepest resolved segment

package registry

import (
	"fmt"
	"strings"
)

// ResolutionError reports a method path that does not resolve, along with the
// valid alternatives at the point resolution stopped.
type ResolutionError struct {
	Path      string
	Reason    string
	Available []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s", e.Path, e.Reason)
}

// Resolve maps a dotted method path to its operation. A trailing "()" is
// stripped first, so "notes.list()" and "notes.list" are the same call. On
// failure the returned error carries the alternatives local to the failure:
// the group names when the first segment is unknown, the group's method paths
// when the group resolved but the operation did not.
func (r *Registry) Resolve(path string) (*Operation, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(path), "()")
	if cleaned == "" {
		return nil, &ResolutionError{
			Path:      path,
			Reason:    "empty method path",
			Available: r.GroupNames(),
		}
	}

	segments := strings.Split(cleaned, ".")
	if len(segments) != 2 {
		return nil, &ResolutionError{
			Path:      path,
			Reason:    "method path must be group.operation",
			Available: r.GroupNames(),
		}
	}

	group, ok := r.index[segments[0]]
	if !ok {
		return nil, &ResolutionError{
			Path:      path,
			Reason:    fmt.Sprintf("unknown group %q", segments[0]),
			Available: r.GroupNames(),
		}
	}

	op, ok := group.index[segments[1]]
	if !ok {
		available := make([]string, 0, len(group.Operations))
		for _, o := range group.Operations {
			available = append(available, o.Path)
		}
		return nil, &ResolutionError{
			Path:      path,
			Reason:    fmt.Sprintf("unknown operation %q in group %q", segments[1], segments[0]),
			Available: available,
		}
	}
	return op, nil
}
