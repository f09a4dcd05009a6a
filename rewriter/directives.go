package rewriter

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// DirectivePrefix starts every comment that fnwrap reads from a function's doc comment.
	DirectivePrefix = "//fnwrap:"

	directivePre     = "pre"
	directivePost    = "post"
	directiveWrapper = "wrapper"
	directiveResult  = "result"
	directiveTrace   = "trace"
)

// Directives are the fnwrap instructions found above a function declaration.
type Directives struct {
	Pre     []string
	Post    []string
	Wrapper string
	Result  string
	Trace   bool
}

// Empty reports whether there is nothing to insert.
func (d Directives) Empty() bool {
	return len(d.Pre) == 0 && len(d.Post) == 0 && !d.Trace
}

// ParseDirectives reads the fnwrap directives from the comments of a declaration.
// The boolean is false when no directive is present.
func ParseDirectives(comments []string) (Directives, bool, error) {
	d := Directives{}
	found := false

	for _, comment := range comments {
		if !strings.HasPrefix(comment, DirectivePrefix) {
			continue
		}
		found = true

		body := strings.TrimPrefix(comment, DirectivePrefix)
		name, arg := body, ""
		if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
			name, arg = body[:i], strings.TrimSpace(body[i:])
		}

		switch name {
		case directivePre:
			if arg == "" {
				return d, found, fmt.Errorf("%s%s requires a statement", DirectivePrefix, name)
			}
			d.Pre = append(d.Pre, arg)
		case directivePost:
			if arg == "" {
				return d, found, fmt.Errorf("%s%s requires a statement", DirectivePrefix, name)
			}
			d.Post = append(d.Post, arg)
		case directiveWrapper:
			if arg == "" {
				return d, found, fmt.Errorf("%s%s requires an identifier", DirectivePrefix, name)
			}
			d.Wrapper = arg
		case directiveResult:
			if arg == "" {
				return d, found, fmt.Errorf("%s%s requires an identifier", DirectivePrefix, name)
			}
			d.Result = arg
		case directiveTrace:
			d.Trace = true
		default:
			return d, found, fmt.Errorf("unknown directive %s%s", DirectivePrefix, name)
		}
	}

	return d, found, nil
}
