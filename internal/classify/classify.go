// Package classify applies the safety rules to a parsed loader call. The
// rules form a total order and the first match is final, so a call always
// gets exactly one verdict.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/revscan-dev/revscan/internal/pyargs"
)

// Classification is the safety verdict for one call site.
type Classification int

const (
	Safe Classification = iota
	Partial
	Unsafe
)

func (c Classification) String() string {
	switch c {
	case Safe:
		return "safe"
	case Partial:
		return "partial"
	case Unsafe:
		return "unsafe"
	default:
		return "unknown"
	}
}

// DefaultShaPattern matches a full commit hash, the only revision value
// treated as immutable.
const DefaultShaPattern = `^[0-9a-fA-F]{40}$`

// Rules holds the configurable constants the classifier evaluates. New
// loader APIs or keyword spellings are added here, not in the rule logic.
type Rules struct {
	RevisionKeyword    string
	AuthKeywords       []string
	LocalFlagKeywords  []string
	IdentifierKeywords []string
	sha                *regexp.Regexp
}

// NewRules compiles a rule set. shaPattern must be a valid regular
// expression; an empty pattern falls back to DefaultShaPattern.
func NewRules(revisionKeyword string, authKeywords, localFlagKeywords, identifierKeywords []string, shaPattern string) (*Rules, error) {
	if shaPattern == "" {
		shaPattern = DefaultShaPattern
	}
	sha, err := regexp.Compile(shaPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid sha pattern %q: %w", shaPattern, err)
	}
	if revisionKeyword == "" {
		revisionKeyword = "revision"
	}
	return &Rules{
		RevisionKeyword:    revisionKeyword,
		AuthKeywords:       authKeywords,
		LocalFlagKeywords:  localFlagKeywords,
		IdentifierKeywords: identifierKeywords,
		sha:                sha,
	}, nil
}

// DefaultRules covers the hub loader APIs as commonly written.
func DefaultRules() *Rules {
	rules, err := NewRules(
		"revision",
		[]string{"use_auth_token", "token"},
		[]string{"local_files_only"},
		[]string{"pretrained_model_name_or_path", "repo_id", "path"},
		DefaultShaPattern,
	)
	if err != nil {
		panic(err)
	}
	return rules
}

// Classify maps a parsed argument list to exactly one verdict. Rules are
// evaluated strictly in order and the first match wins:
//
//  1. purely local source -> Safe
//  2. literal revision: full hex hash -> Safe, anything else -> Unsafe
//  3. non-literal revision -> Partial
//  4. no revision: auth keyword present -> Partial, otherwise -> Unsafe
func (r *Rules) Classify(args []pyargs.Argument) Classification {
	if r.localSource(args) {
		return Safe
	}

	if rev, ok := keywordArg(args, r.RevisionKeyword); ok {
		if rev.Kind == pyargs.LiteralString {
			if r.sha.MatchString(rev.Value) {
				return Safe
			}
			return Unsafe
		}
		return Partial
	}

	for _, kw := range r.AuthKeywords {
		if _, ok := keywordArg(args, kw); ok {
			return Partial
		}
	}
	return Unsafe
}

// localSource reports whether the call can only read from the local
// filesystem: either a local-files-only flag set to a literal True, or an
// identifying path argument that looks like a filesystem path instead of a
// hub identifier.
func (r *Rules) localSource(args []pyargs.Argument) bool {
	for _, kw := range r.LocalFlagKeywords {
		if arg, ok := keywordArg(args, kw); ok {
			if arg.Kind == pyargs.LiteralBool && arg.Value == "True" {
				return true
			}
		}
	}

	if id, ok := r.identifierArg(args); ok && id.Kind == pyargs.LiteralString {
		return isLocalPath(id.Value)
	}
	return false
}

// identifierArg picks the argument naming the artifact: the first
// positional argument, or any configured identifier keyword.
func (r *Rules) identifierArg(args []pyargs.Argument) (pyargs.Argument, bool) {
	for _, kw := range r.IdentifierKeywords {
		if arg, ok := keywordArg(args, kw); ok {
			return arg, true
		}
	}
	for _, arg := range args {
		if arg.Name == "" {
			return arg, true
		}
	}
	return pyargs.Argument{}, false
}

func keywordArg(args []pyargs.Argument, name string) (pyargs.Argument, bool) {
	for _, arg := range args {
		if arg.Name == name {
			return arg, true
		}
	}
	return pyargs.Argument{}, false
}

// isLocalPath applies the lexical heuristic separating filesystem paths
// from org/name hub identifiers: a path contains a separator but lacks the
// two-segment shape.
func isLocalPath(value string) bool {
	if strings.ContainsAny(value, `\`) {
		return true
	}
	if !strings.Contains(value, "/") {
		return false
	}
	if strings.HasPrefix(value, "/") || strings.HasPrefix(value, "~") {
		return true
	}
	segments := strings.Split(value, "/")
	if len(segments) != 2 {
		return true
	}
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return true
		}
	}
	return false
}
