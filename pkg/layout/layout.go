// Package layout maps resource categories to on-disk destinations under a
// profile root, and rewrites download URLs for hosts that are only reachable
// through a configured mirror.
package layout

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/glacier-launcher/glacier/pkg/errors"
	"github.com/glacier-launcher/glacier/pkg/model"
)

// MirrorRule substitutes a mirror prefix for an explicit allow-list of source
// hosts. Matching is on the URL authority, never on the raw URL string, so an
// allow-listed host appearing in a query parameter does not trigger a
// rewrite.
type MirrorRule struct {
	// Hosts are the source hosts the rule applies to, e.g.
	// "raw.githubusercontent.com".
	Hosts []string
	// Prefix is the mirror base the original URL is appended to, e.g.
	// "https://mirror.example.net/".
	Prefix string
}

func (r MirrorRule) matches(host string) bool {
	for _, h := range r.Hosts {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}

// Resolver computes destination paths beneath a profile root and applies the
// mirror policy. The path mapping is a pure function over the configured
// root.
type Resolver struct {
	root    string
	mirrors []MirrorRule
}

// NewResolver creates a Resolver for the given profiles root directory.
func NewResolver(profilesRoot string, mirrors []MirrorRule) *Resolver {
	return &Resolver{root: profilesRoot, mirrors: mirrors}
}

// ProfileDir returns the root directory of a profile.
func (r *Resolver) ProfileDir(profile string) string {
	return filepath.Join(r.root, profile)
}

// ResolvePath maps a (category, profile, fileName) tuple to the canonical
// destination path. Unknown categories are rejected.
func (r *Resolver) ResolvePath(category model.ResourceCategory, profile, fileName string) (string, error) {
	if !category.Valid() {
		return "", errors.Wrapf(errors.ErrUnknownResourceCategory, "%q", string(category))
	}
	if fileName == "" || strings.Contains(fileName, "/") || strings.Contains(fileName, "\\") {
		return "", errors.Wrapf(errors.ErrInvalidPath, "file name %q", fileName)
	}
	return filepath.Join(r.ProfileDir(profile), category.Dir(), fileName), nil
}

// RelativePath maps a manifest-declared relative path to its destination
// beneath the profile root, rejecting traversal outside of it.
func (r *Resolver) RelativePath(profile, relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", errors.Wrapf(errors.ErrInvalidPath, "relative path %q", relPath)
	}
	return filepath.Join(r.ProfileDir(profile), clean), nil
}

// Rewrite applies the mirror policy to a URL. URLs whose host is not on any
// rule's allow-list pass through unchanged. Rewriting prepends the mirror
// prefix to the full original URL.
func (r *Resolver) Rewrite(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	for _, rule := range r.mirrors {
		if !rule.matches(u.Hostname()) {
			continue
		}
		rewritten, err := url.Parse(strings.TrimSuffix(rule.Prefix, "/") + "/" + u.String())
		if err != nil {
			return u
		}
		return rewritten
	}
	return u
}
