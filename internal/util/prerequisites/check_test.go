package prerequisites

import (
	"strings"
	"testing"
)

func TestCheck(t *testing.T) {
	// Test with a tool that definitely exists - try multiple common tools
	// because different environments have different tools available
	possibleTools := []string{"go", "bash", "sh", "ls", "cat"}

	var foundTool string
	for _, tool := range possibleTools {
		results := Check([]Tool{{Name: tool, Required: false}})
		if len(results.Results) > 0 && results.Results[0].Found {
			foundTool = tool
			break
		}
	}

	if foundTool == "" {
		t.Skip("no common tools found in PATH, skipping test")
	}

	tools := []Tool{
		{
			Name:        foundTool,
			Required:    true,
			Description: "Test tool",
			InstallURL:  "https://example.com",
		},
	}

	results := Check(tools)

	if len(results.Results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results.Results))
	}

	if !results.Results[0].Found {
		t.Errorf("expected %s to be found", foundTool)
	}

	if results.Results[0].Path == "" {
		t.Errorf("expected path to be set")
	}

	if results.HasErrors() {
		t.Errorf("expected no errors")
	}
}

func TestCheckMissingTool(t *testing.T) {
	tools := []Tool{
		{
			Name:        "nonexistent-tool-xyz123",
			Required:    true,
			Description: "A tool that does not exist",
			InstallURL:  "https://example.com/install",
		},
	}

	results := Check(tools)

	if len(results.Missing) != 1 {
		t.Errorf("expected 1 missing tool, got %d", len(results.Missing))
	}

	if !results.HasErrors() {
		t.Errorf("expected HasErrors to be true")
	}

	err := results.Error()
	if err == nil {
		t.Fatalf("expected Error to return an error")
	}
	if !strings.Contains(err.Error(), "nonexistent-tool-xyz123") {
		t.Errorf("expected error to name the missing tool, got: %v", err)
	}
}

func TestCheckOptionalMissing(t *testing.T) {
	tools := []Tool{
		{
			Name:     "nonexistent-tool-xyz123",
			Required: false,
		},
	}

	results := Check(tools)

	if results.HasErrors() {
		t.Errorf("optional missing tool should not be an error")
	}
	if err := results.Error(); err != nil {
		t.Errorf("expected nil error for optional tool, got: %v", err)
	}
}

func TestDefaultToolsRequireMinikube(t *testing.T) {
	tools := DefaultTools()

	var found bool
	for _, tool := range tools {
		if tool.Name == "minikube" && tool.Required {
			found = true
		}
	}
	if !found {
		t.Errorf("expected minikube to be a required default tool")
	}
}
