// Package mail holds the email template catalog and the mailers that
// deliver rendered templates.
package mail

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed templates/catalog.yaml
var catalogYAML []byte

type Template struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Subject  string   `yaml:"subject" json:"subject"`
	Body     string   `yaml:"body" json:"body"`
	Category string   `yaml:"category" json:"category"`
	Tags     []string `yaml:"tags" json:"tags"`
}

type Rendered struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Catalog struct {
	templates []Template
	byID      map[string]Template
}

// LoadCatalog parses the embedded template catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var templates []Template
	if err := yaml.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	byID := make(map[string]Template, len(templates))
	for _, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("email template %q has no id", t.Name)
		}
		if _, dup := byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate email template id %q", t.ID)
		}
		byID[t.ID] = t
	}
	return &Catalog{templates: templates, byID: byID}, nil
}

func (c *Catalog) List() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

func (c *Catalog) Get(id string) (Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}

var placeholder = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Render fills [PLACEHOLDER] tokens from fields. Tokens without a value are
// left as they are.
func (t Template) Render(fields map[string]string) Rendered {
	fill := func(text string) string {
		return placeholder.ReplaceAllStringFunc(text, func(token string) string {
			if value, ok := fields[token[1:len(token)-1]]; ok {
				return value
			}
			return token
		})
	}
	return Rendered{Subject: fill(t.Subject), Body: fill(t.Body)}
}
