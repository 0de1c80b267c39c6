package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	first, err := c.FirstMessage("property_manager", "Ava")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "Hi! My name is Ava. How can I assist you today?" {
		t.Errorf("unexpected first message: %q", first)
	}

	sys, err := c.SystemPrompt("property_manager", "Ava")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sys, "You are Ava, OpsMind's AI HOA receptionist") {
		t.Errorf("system prompt missing agent name: %q", sys[:80])
	}
}

func TestUnknownUseCaseFallsBack(t *testing.T) {
	c := Default()

	tests := []string{"", "dentist", "PROPERTY_MANAGER"}
	for _, useCase := range tests {
		t.Run(useCase, func(t *testing.T) {
			got, err := c.FirstMessage(useCase, "Max")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != "Hi! My name is Max. How can I assist you today?" {
				t.Errorf("expected fallback greeting, got %q", got)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "valid",
			yaml: `
default: clinic
use_cases:
  clinic:
    first_message: "Clinic, {{.Name}} speaking."
    system_prompt: "You are {{.Name}}."
`,
		},
		{name: "no use cases", yaml: "default: x\n", wantErr: true},
		{
			name: "missing default",
			yaml: `
default: other
use_cases:
  clinic:
    first_message: "hi"
    system_prompt: "sys"
`,
			wantErr: true,
		},
		{
			name: "bad template",
			yaml: `
default: clinic
use_cases:
  clinic:
    first_message: "{{.Name"
    system_prompt: "sys"
`,
			wantErr: true,
		},
		{name: "not yaml", yaml: "use_cases: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	if err != nil || c == nil {
		t.Fatalf("expected embedded catalog, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := "default: clinic\nuse_cases:\n  clinic:\n    first_message: \"Clinic, {{.Name}} speaking.\"\n    system_prompt: \"You are {{.Name}}.\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err = Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := c.FirstMessage("property_manager", "Lee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Clinic, Lee speaking." {
		t.Errorf("file catalog should replace the embedded one, got %q", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
