// Package registry holds the static per-language configuration: descriptors,
// bot names and the system prompts used to steer the model. The registry is
// loaded once at startup and never mutated afterwards.
package registry

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var languagesYAML []byte

// SyntaxCheck names how extracted candidates are validated for a language
type SyntaxCheck string

const (
	// SyntaxCheckParse parses the candidate with the language grammar
	SyntaxCheckParse SyntaxCheck = "parse"
	// SyntaxCheckNone accepts the candidate as-is
	SyntaxCheckNone SyntaxCheck = "none"
)

// Language describes one supported target language
type Language struct {
	ID           string      `yaml:"id" json:"id"`
	Name         string      `yaml:"name" json:"name"`
	Extension    string      `yaml:"extension" json:"extension"`
	Comment      string      `yaml:"comment" json:"comment"`
	BotName      string      `yaml:"bot_name" json:"bot_name"`
	SyntaxCheck  SyntaxCheck `yaml:"syntax_check" json:"syntax_check"`
	SystemPrompt string      `yaml:"system_prompt" json:"-"`
}

// Registry is an immutable set of language descriptors in declaration order
type Registry struct {
	order     []string
	languages map[string]Language
	defaultID string
}

type document struct {
	Default   string     `yaml:"default"`
	Languages []Language `yaml:"languages"`
}

// Load parses the embedded language registry
func Load() (*Registry, error) {
	return Parse(languagesYAML)
}

// MustLoad is Load for process startup; the embedded document is part of the
// binary, so a failure here is a build defect.
func MustLoad() *Registry {
	reg, err := Load()
	if err != nil {
		panic(err)
	}
	return reg
}

// Parse builds a registry from a YAML document
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode language registry: %w", err)
	}
	if len(doc.Languages) == 0 {
		return nil, fmt.Errorf("language registry is empty")
	}

	reg := &Registry{
		languages: make(map[string]Language, len(doc.Languages)),
		defaultID: doc.Default,
	}
	for _, lang := range doc.Languages {
		if lang.ID == "" {
			return nil, fmt.Errorf("language entry without id")
		}
		if _, dup := reg.languages[lang.ID]; dup {
			return nil, fmt.Errorf("duplicate language %q", lang.ID)
		}
		if lang.SyntaxCheck == "" {
			lang.SyntaxCheck = SyntaxCheckNone
		}
		if lang.SyntaxCheck != SyntaxCheckParse && lang.SyntaxCheck != SyntaxCheckNone {
			return nil, fmt.Errorf("language %q: unknown syntax check %q", lang.ID, lang.SyntaxCheck)
		}
		reg.order = append(reg.order, lang.ID)
		reg.languages[lang.ID] = lang
	}

	if reg.defaultID == "" {
		reg.defaultID = reg.order[0]
	}
	if _, ok := reg.languages[reg.defaultID]; !ok {
		return nil, fmt.Errorf("default language %q is not registered", reg.defaultID)
	}
	return reg, nil
}

// Lookup returns the descriptor for id
func (r *Registry) Lookup(id string) (Language, bool) {
	lang, ok := r.languages[id]
	return lang, ok
}

// Resolve normalizes id and returns its descriptor. Unknown ids resolve to the
// default language; the second return value reports whether that happened.
func (r *Registry) Resolve(id string) (Language, bool) {
	if lang, ok := r.languages[Normalize(id)]; ok {
		return lang, false
	}
	return r.languages[r.defaultID], true
}

// Default returns the language used when a caller passes an unknown id
func (r *Registry) Default() Language {
	return r.languages[r.defaultID]
}

// IDs returns the supported language ids in declaration order
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// BotNames maps each language id to its bot persona
func (r *Registry) BotNames() map[string]string {
	names := make(map[string]string, len(r.order))
	for _, id := range r.order {
		names[id] = r.languages[id].BotName
	}
	return names
}

// Describe renders a one-line summary of a language
func (r *Registry) Describe(id string) string {
	lang, ok := r.languages[Normalize(id)]
	if !ok {
		return "Unsupported language. Supported languages: " + strings.Join(r.order, ", ")
	}
	return fmt.Sprintf("Language: %s, Extension: %s, Comment: %s", lang.Name, lang.Extension, lang.Comment)
}

// Normalize lowercases and trims a language id
func Normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
