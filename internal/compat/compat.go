// Package compat gates provider construction on a declared API version,
// the way a plugin-style allocator backend would negotiate compatibility
// with whatever embeds it.
package compat

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ProviderAPIConstraint is the range of provider API versions this build
// of critnib's memory-provider layer knows how to drive.
const ProviderAPIConstraint = ">= 1.0.0, < 2.0.0"

// RequireAPIVersion returns an error unless declared satisfies constraint.
// An empty constraint defaults to ProviderAPIConstraint.
func RequireAPIVersion(declared, constraint string) error {
	if constraint == "" {
		constraint = ProviderAPIConstraint
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("compat: invalid constraint %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(declared)
	if err != nil {
		return fmt.Errorf("compat: invalid declared version %q: %w", declared, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("compat: provider API version %s does not satisfy %s", declared, constraint)
	}

	return nil
}
