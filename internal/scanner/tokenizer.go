// Package scanner locates call sites of recognized loader functions in raw
// source text. It is a lexical scanner, not a parser: a small state machine
// tracks string and comment boundaries so that parentheses inside literals
// never unbalance a capture, and everything else in the file is ignored.
package scanner

import "fmt"

type lexState int

const (
	stateNormal lexState = iota
	stateSingleQuote
	stateDoubleQuote
	stateTripleSingle
	stateTripleDouble
	stateLineComment
)

// Tokenizer matches identifiers against a fixed set of recognized function
// names. A dotted qualifier chain before the name is allowed; matching is on
// the trailing identifier only.
type Tokenizer struct {
	names map[string]bool
}

// New creates a tokenizer recognizing the given trailing identifiers.
func New(functions []string) *Tokenizer {
	names := make(map[string]bool, len(functions))
	for _, fn := range functions {
		if fn != "" {
			names[fn] = true
		}
	}
	return &Tokenizer{names: names}
}

type capture struct {
	function string
	line     int
	argStart int // index just past the opening parenthesis
	depth    int
}

// Scan walks src and returns every balanced call candidate plus diagnostics
// for captures that never close. Rescanning the same text yields the same
// sequence.
func (t *Tokenizer) Scan(path string, src []byte) ([]Candidate, []Issue) {
	var candidates []Candidate
	var issues []Issue

	state := stateNormal
	var grab *capture
	line := 1
	i := 0
	n := len(src)

	for i < n {
		ch := src[i]

		switch state {
		case stateLineComment:
			if ch == '\n' {
				state = stateNormal
				line++
			}
			i++

		case stateSingleQuote, stateDoubleQuote:
			closer := byte('\'')
			if state == stateDoubleQuote {
				closer = '"'
			}
			switch {
			case ch == '\\' && i+1 < n:
				if src[i+1] == '\n' {
					line++
				}
				i += 2
			case ch == closer:
				state = stateNormal
				i++
			case ch == '\n':
				// Unterminated single-line string; resynchronize.
				state = stateNormal
				line++
				i++
			default:
				i++
			}

		case stateTripleSingle, stateTripleDouble:
			closer := byte('\'')
			if state == stateTripleDouble {
				closer = '"'
			}
			switch {
			case ch == '\\' && i+1 < n:
				if src[i+1] == '\n' {
					line++
				}
				i += 2
			case ch == closer && i+2 < n && src[i+1] == closer && src[i+2] == closer:
				state = stateNormal
				i += 3
			case ch == '\n':
				line++
				i++
			default:
				i++
			}

		case stateNormal:
			switch {
			case ch == '#':
				state = stateLineComment
				i++
			case ch == '\'':
				if i+2 < n && src[i+1] == '\'' && src[i+2] == '\'' {
					state = stateTripleSingle
					i += 3
				} else {
					state = stateSingleQuote
					i++
				}
			case ch == '"':
				if i+2 < n && src[i+1] == '"' && src[i+2] == '"' {
					state = stateTripleDouble
					i += 3
				} else {
					state = stateDoubleQuote
					i++
				}
			case ch == '\n':
				line++
				i++
			case grab != nil && ch == '(':
				grab.depth++
				i++
			case grab != nil && ch == ')':
				grab.depth--
				if grab.depth == 0 {
					candidates = append(candidates, Candidate{
						Function: grab.function,
						File:     path,
						Line:     grab.line,
						RawArgs:  string(src[grab.argStart:i]),
					})
					grab = nil
				}
				i++
			case grab == nil && isIdentStart(ch) && !precededByIdent(src, i):
				end := i + 1
				for end < n && isIdentChar(src[end]) {
					end++
				}
				name := string(src[i:end])
				if t.names[name] {
					if paren, ok := nextOpenParen(src, end); ok {
						grab = &capture{
							function: name,
							line:     line,
							argStart: paren + 1,
							depth:    1,
						}
						i = paren + 1
						continue
					}
				}
				i = end
			default:
				i++
			}
		}
	}

	if grab != nil {
		issues = append(issues, Issue{
			File:     path,
			Line:     grab.line,
			Severity: "warning",
			Message:  fmt.Sprintf("unterminated call to %s discarded", grab.function),
		})
	}

	return candidates, issues
}

// nextOpenParen skips horizontal whitespace after an identifier and reports
// the index of an immediately following opening parenthesis.
func nextOpenParen(src []byte, from int) (int, bool) {
	for from < len(src) && (src[from] == ' ' || src[from] == '\t') {
		from++
	}
	if from < len(src) && src[from] == '(' {
		return from, true
	}
	return 0, false
}

func precededByIdent(src []byte, i int) bool {
	return i > 0 && isIdentChar(src[i-1])
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
