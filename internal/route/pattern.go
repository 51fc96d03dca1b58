package route

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPattern  = errors.New("invalid navigation pattern")
	ErrInvalidCallback = errors.New("navigation callback is required")
)

// Pattern describes the conversation-detail path shape, e.g. "/c/:id".
// Only paths of exactly this shape count as conversation navigation;
// everything else (settings, search, the root) is irrelevant traffic.
type Pattern struct {
	raw      string
	segments []segment
}

type segment struct {
	literal string
	param   string
}

func CompilePattern(raw string) (*Pattern, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.HasPrefix(trimmed, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
	}
	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	var segments []segment
	hasParam := false
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
		}
		if strings.HasPrefix(part, ":") {
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: unnamed parameter in %q", ErrInvalidPattern, raw)
			}
			segments = append(segments, segment{param: name})
			hasParam = true
			continue
		}
		segments = append(segments, segment{literal: part})
	}
	if !hasParam {
		return nil, fmt.Errorf("%w: no parameter in %q", ErrInvalidPattern, raw)
	}
	return &Pattern{raw: trimmed, segments: segments}, nil
}

func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.raw
}

// Params lists the parameter names in pattern order.
func (p *Pattern) Params() []string {
	if p == nil {
		return nil
	}
	var out []string
	for _, seg := range p.segments {
		if seg.param != "" {
			out = append(out, seg.param)
		}
	}
	return out
}

// Expand builds a concrete path by substituting every parameter. Each
// parameter must be present and non-empty.
func (p *Pattern) Expand(params map[string]string) (string, error) {
	if p == nil {
		return "", ErrInvalidPattern
	}
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		if seg.param == "" {
			b.WriteString(seg.literal)
			continue
		}
		value := strings.TrimSpace(params[seg.param])
		if value == "" {
			return "", fmt.Errorf("%w: parameter %q is required", ErrInvalidPattern, seg.param)
		}
		b.WriteString(value)
	}
	return b.String(), nil
}

// Match tests path against the pattern and returns the captured
// parameters. A miss is not an error, just an irrelevant path.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	if p == nil {
		return nil, false
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != len(p.segments) {
		return nil, false
	}
	params := make(map[string]string, 1)
	for i, seg := range p.segments {
		if seg.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			params[seg.param] = parts[i]
			continue
		}
		if parts[i] != seg.literal {
			return nil, false
		}
	}
	return params, true
}
