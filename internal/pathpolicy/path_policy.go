package pathpolicy

import (
	"fmt"
	"path"
	"strings"
)

type PathPolicy struct {
	Deny  bool // explicitly do not allow this entry
	Exact bool // require and exact match, no subdirs
	Below bool // only subdirs, not the entry itself
}

// PathPolicies maps absolute path prefixes to the policy that applies to
// them and everything below. The longest matching prefix wins.
type PathPolicies struct {
	entries map[string]PathPolicy
}

// Create a new PathPolicies from a map of path to PathPolicy
func NewPathPolicies(entries map[string]PathPolicy) *PathPolicies {
	pol := &PathPolicies{
		entries: make(map[string]PathPolicy, len(entries)),
	}
	for k, v := range entries {
		pol.entries[path.Clean(k)] = v
	}
	return pol
}

// ValidatePath checks that fsPath is absolute and in canonical form, i.e.
// without empty, "." or ".." components and without a trailing slash.
func ValidatePath(fsPath string) error {
	// Quickly check we have a path and it is absolute
	if fsPath == "" || fsPath[0] != '/' {
		return fmt.Errorf("path %q must be absolute", fsPath)
	}

	if strings.IndexByte(fsPath, 0) >= 0 {
		return fmt.Errorf("path %q contains a NUL byte", fsPath)
	}

	// ensure that only clean paths are valid
	if fsPath != path.Clean(fsPath) {
		return fmt.Errorf("path %q must be canonical", fsPath)
	}

	return nil
}

// lookup returns the policy of the longest prefix of fsPath and the path
// components left over after that prefix.
func (pol *PathPolicies) lookup(fsPath string) (PathPolicy, []string, bool) {
	components := strings.Split(strings.TrimPrefix(fsPath, "/"), "/")
	if fsPath == "/" {
		components = nil
	}

	for i := len(components); i >= 0; i-- {
		prefix := "/" + strings.Join(components[:i], "/")
		if policy, ok := pol.entries[prefix]; ok {
			return policy, components[i:], true
		}
	}

	return PathPolicy{}, components, false
}

// Check a given path against the PathPolicies
func (pol *PathPolicies) Check(fsPath string) error {
	if err := ValidatePath(fsPath); err != nil {
		return err
	}

	policy, left, ok := pol.lookup(fsPath)
	if !ok {
		return fmt.Errorf("path %q is not covered by any policy", fsPath)
	}

	// 1) path is explicitly not allowed or
	// 2) a subpath was match but an explicit match is required or
	// 3) the entry itself was matched but only subpaths are allowed
	if policy.Deny || (policy.Exact && len(left) > 0) || (policy.Below && len(left) == 0) {
		return fmt.Errorf("path %q is not allowed", fsPath)
	}

	// exact match or recursive path allowed
	return nil
}
