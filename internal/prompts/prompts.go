// Package prompts renders the default system prompt and first message an
// agent is created with, keyed by use case.
package prompts

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type fileCatalog struct {
	Default  string                  `yaml:"default"`
	UseCases map[string]useCaseEntry `yaml:"use_cases"`
}

type useCaseEntry struct {
	SystemPrompt string `yaml:"system_prompt"`
	FirstMessage string `yaml:"first_message"`
}

type useCase struct {
	systemPrompt *template.Template
	firstMessage *template.Template
}

// Catalog holds parsed templates per use case.
type Catalog struct {
	fallback string
	useCases map[string]useCase
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded prompt catalog: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("prompt catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML. The default use case must exist.
func Parse(data []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(fc.UseCases) == 0 {
		return nil, errors.New("no use cases defined")
	}

	c := &Catalog{
		fallback: strings.ToLower(strings.TrimSpace(fc.Default)),
		useCases: make(map[string]useCase, len(fc.UseCases)),
	}
	for name, entry := range fc.UseCases {
		key := strings.ToLower(strings.TrimSpace(name))
		sys, err := template.New(key + ".system_prompt").Option("missingkey=error").Parse(entry.SystemPrompt)
		if err != nil {
			return nil, fmt.Errorf("use case %s: %w", name, err)
		}
		first, err := template.New(key + ".first_message").Option("missingkey=error").Parse(entry.FirstMessage)
		if err != nil {
			return nil, fmt.Errorf("use case %s: %w", name, err)
		}
		c.useCases[key] = useCase{systemPrompt: sys, firstMessage: first}
	}
	if _, ok := c.useCases[c.fallback]; !ok {
		return nil, fmt.Errorf("default use case %q not defined", fc.Default)
	}
	return c, nil
}

// UseCases lists the configured use case names.
func (c *Catalog) UseCases() []string {
	names := make([]string, 0, len(c.useCases))
	for name := range c.useCases {
		names = append(names, name)
	}
	return names
}

func (c *Catalog) lookup(name string) useCase {
	if uc, ok := c.useCases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return uc
	}
	return c.useCases[c.fallback]
}

type templateData struct {
	Name string
}

func render(t *template.Template, agentName string) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, templateData{Name: agentName}); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return sb.String(), nil
}

// SystemPrompt renders the system prompt for useCase. Unknown use cases fall
// back to the catalog default.
func (c *Catalog) SystemPrompt(useCase, agentName string) (string, error) {
	return render(c.lookup(useCase).systemPrompt, agentName)
}

// FirstMessage renders the greeting for useCase.
func (c *Catalog) FirstMessage(useCase, agentName string) (string, error) {
	return render(c.lookup(useCase).firstMessage, agentName)
}
