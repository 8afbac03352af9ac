// Package repository models the (url, branch) pair every jobs-file
// compilation is scoped to, and derives the short name used both for job
// naming and for peer-job discovery during reconciliation.
package repository

import (
	"fmt"
	"regexp"
	"strings"
)

// nameRe mirrors the original repository-name derivation: the last path
// segment, with an optional trailing .git (and slash) stripped.
var nameRe = regexp.MustCompile(`.*/([^./]+)(\.git/?)?$`)

// Repository is an immutable (url, branch) pair with a derived short name.
type Repository struct {
	URL    string
	Branch string
	Name   string
}

// DefaultBranch is used when a caller does not specify one explicitly.
const DefaultBranch = "master"

// New constructs a Repository, deriving Name from URL. It fails if URL does
// not match the expected "last path segment, optional .git suffix" shape.
func New(url, branch string) (Repository, error) {
	if branch == "" {
		branch = DefaultBranch
	}

	name, err := DeriveName(url)
	if err != nil {
		return Repository{}, err
	}

	return Repository{URL: url, Branch: branch, Name: name}, nil
}

// DeriveName extracts the bare repository name from a URL, accepting the
// scp-like, ssh://, git://, and plain-path shapes used by common hosting
// providers.
func DeriveName(url string) (string, error) {
	m := nameRe.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("repository: %q does not look like a repository URL", url)
	}
	return m[1], nil
}

// Equal reports whether two repositories refer to the same url and branch,
// using ordinary (case-sensitive) string comparison. Case folding is only
// ever applied during peer-job discovery, never here.
func (r Repository) Equal(other Repository) bool {
	return r.URL == other.URL && r.Branch == other.Branch
}

// JobPrefix is the prefix shared by every Jenkins job generated for this
// repository and branch: "name-branch".
func (r Repository) JobPrefix() string {
	return r.Name + "-" + r.Branch
}

// SameURL reports whether URLs a and b refer to the same remote, folding
// case and tolerating a trailing ".git" on either side. This is used only
// by the reconciliation client when matching peer jobs' SCM configuration.
func SameURL(a, b string) bool {
	return strings.EqualFold(trimGitSuffix(a), trimGitSuffix(b))
}

func trimGitSuffix(url string) string {
	url = strings.TrimSuffix(url, "/")
	return strings.TrimSuffix(url, ".git")
}
