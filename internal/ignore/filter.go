// Package ignore decides which workspace paths are kept out of the activity log.
package ignore

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Segments and prefixes that are always excluded, whatever the configured patterns say.
const (
	DependencyDir = "node_modules"
	VCSDir        = ".git"
	EnvPrefix     = ".env"
)

// rule is one parsed exclude pattern.
type rule struct {
	glob     string
	negate   bool
	dirOnly  bool
	anchored bool
}

// Filter is an immutable exclude predicate over workspace-relative paths.
// Patterns use gitignore conventions: a bare name matches at any depth, a
// trailing "/" only matches directories, a leading "/" or inner "/" anchors
// the pattern to the workspace root, "!" re-includes, and the last matching
// pattern wins. Globs are evaluated with doublestar, so "**" is supported.
type Filter struct {
	rules []rule
}

// New compiles patterns into a Filter. Blank lines, "#" comments and
// patterns doublestar rejects are skipped.
func New(patterns []string) *Filter {
	f := &Filter{}
	for _, p := range patterns {
		if r, ok := parseRule(p); ok {
			f.rules = append(f.rules, r)
		}
	}
	return f
}

func parseRule(p string) (rule, bool) {
	p = strings.TrimSpace(filepath.ToSlash(p))
	if p == "" || strings.HasPrefix(p, "#") {
		return rule{}, false
	}

	var r rule
	if strings.HasPrefix(p, "!") {
		r.negate = true
		p = p[1:]
	}
	if strings.HasSuffix(p, "/") {
		r.dirOnly = true
		p = strings.TrimRight(p, "/")
	}
	if strings.HasPrefix(p, "/") {
		r.anchored = true
		p = strings.TrimLeft(p, "/")
	} else if strings.Contains(p, "/") {
		r.anchored = true
	}
	if p == "" || !doublestar.ValidatePattern(p) {
		return rule{}, false
	}
	r.glob = p
	return r, true
}

// Len returns the number of compiled patterns.
func (f *Filter) Len() int {
	return len(f.rules)
}

// Excluded reports whether the file at relPath must not be logged.
func (f *Filter) Excluded(relPath string) bool {
	return f.excluded(relPath, false)
}

// ExcludedDir reports whether the directory at relPath is excluded, so
// nothing below it needs watching.
func (f *Filter) ExcludedDir(relPath string) bool {
	return f.excluded(relPath, true)
}

func (f *Filter) excluded(relPath string, isDir bool) bool {
	p := strings.Trim(strings.TrimPrefix(filepath.ToSlash(relPath), "./"), "/")
	if p == "" || p == "." {
		return false
	}
	segments := strings.Split(p, "/")

	if hardExcluded(segments, isDir) {
		return true
	}

	excluded := false
	for _, r := range f.rules {
		if r.matches(segments, isDir) {
			excluded = !r.negate
		}
	}
	return excluded
}

// hardExcluded applies the fixed dependency-dir, VCS-dir and dot-env rules.
func hardExcluded(segments []string, isDir bool) bool {
	for _, s := range segments {
		if s == DependencyDir || s == VCSDir {
			return true
		}
	}
	return !isDir && strings.HasPrefix(segments[len(segments)-1], EnvPrefix)
}

// matches tests the rule against the path and each of its parent directories.
// Parent directories always count as directories; the final segment is a
// directory only when isDir is set, so dir-only rules otherwise hit it
// through a parent.
func (r rule) matches(segments []string, isDir bool) bool {
	last := len(segments) - 1
	for i := range segments {
		if i == last && r.dirOnly && !isDir {
			break
		}
		var candidate string
		if r.anchored {
			candidate = path.Join(segments[:i+1]...)
		} else {
			candidate = segments[i]
		}
		if ok, _ := doublestar.Match(r.glob, candidate); ok {
			return true
		}
	}
	return false
}
