package options

import "fmt"

// SelectorKind tags the effective remote selector.
type SelectorKind int

const (
	// SelectorNone means no branch, tag or PR was requested.
	SelectorNone SelectorKind = iota
	// SelectorBranch selects a named branch.
	SelectorBranch
	// SelectorTag selects a named tag.
	SelectorTag
	// SelectorPR selects a pull request head.
	SelectorPR
)

// RemoteSelector is the single effective remote selection, computed once per
// invocation from the mutually exclusive option slots and immutable thereafter.
type RemoteSelector struct {
	Kind SelectorKind
	// Name is the branch or tag name, or the PR number for SelectorPR.
	Name string
}

// Ref returns the git ref path the source-control layer should fetch.
// A PR selector is rewritten to its synthetic head ref.
func (s RemoteSelector) Ref() string {
	switch s.Kind {
	case SelectorBranch:
		return "refs/heads/" + s.Name
	case SelectorTag:
		return "refs/tags/" + s.Name
	case SelectorPR:
		return fmt.Sprintf("refs/pull/%s/head", s.Name)
	default:
		return ""
	}
}

// TrackingName returns a short name for the local tracking ref used when
// syncing a clone to this selector.
func (s RemoteSelector) TrackingName() string {
	switch s.Kind {
	case SelectorPR:
		return "pr-" + s.Name
	case SelectorNone:
		return ""
	default:
		return s.Name
	}
}

// Selector computes the effective RemoteSelector. Validate must have
// succeeded first; with a valid option set at most one slot is non-empty.
func (o Options) Selector() RemoteSelector {
	switch {
	case o.Branch != "":
		return RemoteSelector{Kind: SelectorBranch, Name: o.Branch}
	case o.Tag != "":
		return RemoteSelector{Kind: SelectorTag, Name: o.Tag}
	case o.PR != "":
		return RemoteSelector{Kind: SelectorPR, Name: o.PR}
	default:
		return RemoteSelector{Kind: SelectorNone}
	}
}
