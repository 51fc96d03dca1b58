package app

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"pinboard/internal/pinboard"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	rowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
)

// Styles maps the class names the pin layer stamps onto its nodes to
// terminal styles. It satisfies pinboard.StyleRegistry, so the board can
// describe its presentation without knowing anything about the renderer.
type Styles struct {
	mu      sync.Mutex
	classes map[string]lipgloss.Style
}

func NewStyles() *Styles {
	return &Styles{classes: map[string]lipgloss.Style{}}
}

func (s *Styles) Register(class string, spec pinboard.StyleSpec) {
	if s == nil {
		return
	}
	class = strings.TrimSpace(class)
	if class == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[class] = styleFromSpec(spec)
}

func (s *Styles) Class(class string) (lipgloss.Style, bool) {
	if s == nil {
		return lipgloss.NewStyle(), false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	style, ok := s.classes[class]
	return style, ok
}

// Render styles text with the registered style for class. Unregistered
// classes render the text unchanged.
func (s *Styles) Render(class, text string) string {
	style, ok := s.Class(class)
	if !ok {
		return text
	}
	return style.Render(text)
}

func styleFromSpec(spec pinboard.StyleSpec) lipgloss.Style {
	style := lipgloss.NewStyle()
	if spec.Foreground != "" {
		style = style.Foreground(lipgloss.Color(spec.Foreground))
	}
	if spec.Background != "" {
		style = style.Background(lipgloss.Color(spec.Background))
	}
	if spec.Bold {
		style = style.Bold(true)
	}
	if spec.Faint {
		style = style.Faint(true)
	}
	if spec.Underline {
		style = style.Underline(true)
	}
	return style
}
