package hosts

import "strings"

// Selectors name the nodes of a host's sidebar as rendered into the
// surface tree. Every known host exports the same normalized shape, so
// the entries only differ when a host grows a custom layout.
type Selectors struct {
	Sidebar  string
	History  string
	Row      string
	Link     string
	Location string
}

type Definition struct {
	Name        string
	Label       string
	BaseURL     string
	PathPattern string
	Selectors   Selectors
}

var defaultSelectors = Selectors{
	Sidebar:  "nav#sidebar",
	History:  "ol#history",
	Row:      "li.conversation",
	Link:     "a",
	Location: "#location",
}

var registry = []Definition{
	{
		Name:        "chatgpt",
		Label:       "ChatGPT",
		BaseURL:     "https://chatgpt.com",
		PathPattern: "/c/:id",
		Selectors:   defaultSelectors,
	},
	{
		Name:        "claude",
		Label:       "Claude",
		BaseURL:     "https://claude.ai",
		PathPattern: "/chat/:id",
		Selectors:   defaultSelectors,
	},
}

var registryByName = buildByName(registry)

func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func All() []Definition {
	out := make([]Definition, 0, len(registry))
	out = append(out, registry...)
	return out
}

func Lookup(name string) (Definition, bool) {
	def, ok := registryByName[Normalize(name)]
	if !ok {
		return Definition{}, false
	}
	return def, true
}

func SelectorsFor(name string) Selectors {
	def, ok := Lookup(name)
	if !ok {
		return defaultSelectors
	}
	return def.Selectors
}

// Custom builds a definition for a host the registry does not know.
// An empty pattern falls back to the chatgpt-style conversation path.
func Custom(name, baseURL, pathPattern string) Definition {
	key := Normalize(name)
	if key == "" {
		key = "custom"
	}
	pattern := strings.TrimSpace(pathPattern)
	if pattern == "" {
		pattern = "/c/:id"
	}
	return Definition{
		Name:        key,
		Label:       key,
		BaseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		PathPattern: pattern,
		Selectors:   defaultSelectors,
	}
}

// WithBaseURL returns a copy of the definition with the base URL
// replaced. Empty overrides keep the registry value.
func (d Definition) WithBaseURL(baseURL string) Definition {
	url := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if url == "" {
		return d
	}
	out := d
	out.BaseURL = url
	return out
}

// ConversationURL joins the host base URL with a conversation path for
// sharing. Paths are host-relative, so a missing base URL returns the
// path unchanged.
func (d Definition) ConversationURL(path string) string {
	if d.BaseURL == "" {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return d.BaseURL + path
}

func buildByName(defs []Definition) map[string]Definition {
	out := make(map[string]Definition, len(defs))
	for _, def := range defs {
		name := Normalize(def.Name)
		if name == "" {
			continue
		}
		out[name] = def
	}
	return out
}
