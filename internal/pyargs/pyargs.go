// Package pyargs splits the raw argument text of a captured call into an
// ordered argument list. It never fails: anything it cannot read as a plain
// literal is reported as NonLiteral so that callers stay conservative.
package pyargs

import (
	"regexp"
	"strings"
)

// Kind describes how much of an argument's value is statically readable.
type Kind int

const (
	NonLiteral Kind = iota
	LiteralString
	LiteralBool
	LiteralNumber
)

func (k Kind) String() string {
	switch k {
	case LiteralString:
		return "string"
	case LiteralBool:
		return "bool"
	case LiteralNumber:
		return "number"
	default:
		return "non-literal"
	}
}

// Argument is one entry of a call's argument list. Name is empty for
// positional arguments. Value carries the unescaped content for
// LiteralString arguments and the bare lexeme for bool/number literals.
type Argument struct {
	Name  string
	Kind  Kind
	Value string
	Raw   string
}

var (
	identRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	numberRe = regexp.MustCompile(`^[+-]?(0[xXoObB][0-9a-fA-F_]+|\d[\d_]*(\.[\d_]*)?([eE][+-]?\d+)?|\.\d[\d_]*([eE][+-]?\d+)?)[jJ]?$`)
)

// Parse splits raw argument text into arguments in left-to-right order.
// Commas only separate at nesting depth zero and outside strings, so nested
// calls, lists, dicts and tuples stay intact inside a single argument.
func Parse(raw string) []Argument {
	parts := splitTopLevel(raw)
	args := make([]Argument, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		args = append(args, parseOne(trimmed))
	}
	return args
}

func parseOne(part string) Argument {
	if name, expr, ok := splitKeyword(part); ok {
		arg := classifyExpr(expr)
		arg.Name = name
		return arg
	}
	return classifyExpr(part)
}

// splitKeyword recognizes the `identifier = expr` form. The equals sign must
// not begin a comparison operator and must directly follow the identifier.
func splitKeyword(part string) (name, expr string, ok bool) {
	ident := identRe.FindString(part)
	if ident == "" {
		return "", "", false
	}
	rest := strings.TrimLeft(part[len(ident):], " \t\r\n")
	if len(rest) < 1 || rest[0] != '=' {
		return "", "", false
	}
	if len(rest) > 1 && rest[1] == '=' {
		return "", "", false
	}
	return ident, strings.TrimSpace(rest[1:]), true
}

func classifyExpr(expr string) Argument {
	arg := Argument{Raw: expr, Kind: NonLiteral}

	switch expr {
	case "True", "False":
		arg.Kind = LiteralBool
		arg.Value = expr
		return arg
	}

	if numberRe.MatchString(expr) {
		arg.Kind = LiteralNumber
		arg.Value = expr
		return arg
	}

	if value, ok := parseStringLiteral(expr); ok {
		arg.Kind = LiteralString
		arg.Value = value
		return arg
	}

	return arg
}

// parseStringLiteral accepts exactly one unprefixed string literal, single
// or triple quoted, with nothing but the literal in the expression. Prefixed
// strings (f"", r"", b"") and concatenations are not statically readable
// here and stay NonLiteral.
func parseStringLiteral(expr string) (string, bool) {
	if len(expr) < 2 {
		return "", false
	}
	quote := expr[0]
	if quote != '\'' && quote != '"' {
		return "", false
	}

	triple := len(expr) >= 6 && expr[1] == quote && expr[2] == quote
	open := 1
	closeLen := 1
	if triple {
		open = 3
		closeLen = 3
	}

	var b strings.Builder
	i := open
	for i < len(expr) {
		ch := expr[i]
		if ch == '\\' && i+1 < len(expr) {
			b.WriteString(unescape(expr[i+1]))
			i += 2
			continue
		}
		if ch == quote {
			if !triple {
				// Closing quote must end the expression.
				if i == len(expr)-closeLen {
					return b.String(), true
				}
				return "", false
			}
			if i+2 < len(expr) && expr[i+1] == quote && expr[i+2] == quote {
				if i == len(expr)-closeLen {
					return b.String(), true
				}
				return "", false
			}
		}
		b.WriteByte(ch)
		i++
	}
	return "", false
}

func unescape(ch byte) string {
	switch ch {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\', '\'', '"':
		return string(ch)
	default:
		return "\\" + string(ch)
	}
}

// splitTopLevel cuts raw on commas that sit at depth zero relative to the
// argument list and outside any string or comment. Parentheses, brackets
// and braces all contribute to depth. Comment bytes are dropped so a
// trailing comment on one line never bleeds into the next argument.
func splitTopLevel(raw string) []string {
	var parts []string
	var b strings.Builder
	var depth int
	var quote byte
	triple := false
	inString := false
	inComment := false

	i := 0
	for i < len(raw) {
		ch := raw[i]

		if inComment {
			if ch == '\n' {
				inComment = false
				b.WriteByte(ch)
			}
			i++
			continue
		}

		if inString {
			switch {
			case ch == '\\' && i+1 < len(raw):
				b.WriteString(raw[i : i+2])
				i += 2
			case ch == quote && triple:
				if i+2 < len(raw) && raw[i+1] == quote && raw[i+2] == quote {
					inString = false
					b.WriteString(raw[i : i+3])
					i += 3
				} else {
					b.WriteByte(ch)
					i++
				}
			case ch == quote:
				inString = false
				b.WriteByte(ch)
				i++
			case ch == '\n' && !triple:
				inString = false
				b.WriteByte(ch)
				i++
			default:
				b.WriteByte(ch)
				i++
			}
			continue
		}

		switch ch {
		case '#':
			inComment = true
			i++
		case '\'', '"':
			inString = true
			quote = ch
			triple = i+2 < len(raw) && raw[i+1] == ch && raw[i+2] == ch
			if triple {
				b.WriteString(raw[i : i+3])
				i += 3
			} else {
				b.WriteByte(ch)
				i++
			}
		case '(', '[', '{':
			depth++
			b.WriteByte(ch)
			i++
		case ')', ']', '}':
			depth--
			b.WriteByte(ch)
			i++
		case ',':
			if depth == 0 {
				parts = append(parts, b.String())
				b.Reset()
			} else {
				b.WriteByte(ch)
			}
			i++
		default:
			b.WriteByte(ch)
			i++
		}
	}

	parts = append(parts, b.String())
	return parts
}
