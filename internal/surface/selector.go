package surface

import (
	"errors"
	"strings"
)

// The selector grammar is the small subset the host contract needs:
// tag, #id, .class, [attr] and [attr=value] conditions, compound steps
// (li.conversation), and the descendant combinator (whitespace).
type selector struct {
	steps []selectorStep
}

type selectorStep struct {
	tag     string
	id      string
	classes []string
	attrs   []attrCond
}

type attrCond struct {
	name     string
	value    string
	hasValue bool
}

func parseSelector(raw string) (selector, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return selector{}, errors.New("selector is empty")
	}
	var sel selector
	for _, token := range strings.Fields(raw) {
		step, err := parseStep(token)
		if err != nil {
			return selector{}, err
		}
		sel.steps = append(sel.steps, step)
	}
	return sel, nil
}

func parseStep(token string) (selectorStep, error) {
	var step selectorStep
	rest := token
	for rest != "" {
		switch rest[0] {
		case '#':
			name, tail := scanName(rest[1:])
			if name == "" {
				return selectorStep{}, errors.New("selector has empty id: " + token)
			}
			step.id = name
			rest = tail
		case '.':
			name, tail := scanName(rest[1:])
			if name == "" {
				return selectorStep{}, errors.New("selector has empty class: " + token)
			}
			step.classes = append(step.classes, name)
			rest = tail
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return selectorStep{}, errors.New("selector has unclosed attribute: " + token)
			}
			cond, err := parseAttrCond(rest[1:end])
			if err != nil {
				return selectorStep{}, err
			}
			step.attrs = append(step.attrs, cond)
			rest = rest[end+1:]
		default:
			name, tail := scanName(rest)
			if name == "" {
				return selectorStep{}, errors.New("selector has invalid step: " + token)
			}
			step.tag = name
			rest = tail
		}
	}
	return step, nil
}

func parseAttrCond(body string) (attrCond, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return attrCond{}, errors.New("selector has empty attribute condition")
	}
	eq := strings.IndexByte(body, '=')
	if eq < 0 {
		return attrCond{name: body}, nil
	}
	name := strings.TrimSpace(body[:eq])
	if name == "" {
		return attrCond{}, errors.New("selector has empty attribute name")
	}
	value := strings.TrimSpace(body[eq+1:])
	value = strings.Trim(value, `"'`)
	return attrCond{name: name, value: value, hasValue: true}, nil
}

func scanName(s string) (name, rest string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '#', '.', '[':
			return s[:i], s[i:]
		}
	}
	return s, ""
}

func (s selectorStep) matches(n *Node) bool {
	if n == nil {
		return false
	}
	if s.tag != "" && s.tag != n.Tag {
		return false
	}
	if s.id != "" && s.id != n.ID {
		return false
	}
	for _, class := range s.classes {
		if !n.hasClass(class) {
			return false
		}
	}
	for _, cond := range s.attrs {
		value, ok := n.Attr(cond.name)
		if !ok {
			return false
		}
		if cond.hasValue && value != cond.value {
			return false
		}
	}
	return true
}

// matches reports whether n satisfies the selector inside scope: n must
// match the last step and its proper ancestors, up to and excluding
// scope, must cover the remaining steps in order.
func (s selector) matches(n *Node, scope *Node) bool {
	if len(s.steps) == 0 {
		return false
	}
	last := s.steps[len(s.steps)-1]
	if !last.matches(n) {
		return false
	}
	remaining := s.steps[:len(s.steps)-1]
	ancestor := n.parent
	for len(remaining) > 0 {
		if ancestor == nil || ancestor == scope {
			return false
		}
		if remaining[len(remaining)-1].matches(ancestor) {
			remaining = remaining[:len(remaining)-1]
		}
		ancestor = ancestor.parent
	}
	return true
}
