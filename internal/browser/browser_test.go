package browser

import (
	"fmt"
	"strings"
	"testing"
)

// mockCommander records command executions for testing
type mockCommander struct {
	lastCommand string
	lastArgs    []string
	startError  error
}

func (m *mockCommander) Start(name string, args ...string) error {
	m.lastCommand = name
	m.lastArgs = args
	return m.startError
}

func TestOpenWithCommander_Linux(t *testing.T) {
	mock := &mockCommander{}
	url := "http://localhost:8080/"

	if err := OpenWithCommander(url, mock, "linux"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if mock.lastCommand != "xdg-open" {
		t.Errorf("expected command 'xdg-open', got '%s'", mock.lastCommand)
	}
	if len(mock.lastArgs) != 1 || mock.lastArgs[0] != url {
		t.Errorf("expected args [%s], got %v", url, mock.lastArgs)
	}
}

func TestOpenWithCommander_Darwin(t *testing.T) {
	mock := &mockCommander{}
	url := "http://localhost:8080/"

	if err := OpenWithCommander(url, mock, "darwin"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if mock.lastCommand != "open" {
		t.Errorf("expected command 'open', got '%s'", mock.lastCommand)
	}
}

func TestOpenWithCommander_Windows(t *testing.T) {
	mock := &mockCommander{}
	url := "http://localhost:8080/"

	if err := OpenWithCommander(url, mock, "windows"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if mock.lastCommand != "rundll32" {
		t.Errorf("expected command 'rundll32', got '%s'", mock.lastCommand)
	}
	expectedArgs := []string{"url.dll,FileProtocolHandler", url}
	if len(mock.lastArgs) != 2 || mock.lastArgs[0] != expectedArgs[0] || mock.lastArgs[1] != expectedArgs[1] {
		t.Errorf("expected args %v, got %v", expectedArgs, mock.lastArgs)
	}
}

func TestOpenWithCommander_UnsupportedPlatform(t *testing.T) {
	mock := &mockCommander{}

	err := OpenWithCommander("http://localhost:8080/", mock, "plan9")
	if err == nil {
		t.Fatal("expected error for unsupported platform, got nil")
	}
	if !strings.Contains(err.Error(), "unsupported platform") || !strings.Contains(err.Error(), "plan9") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOpenWithCommander_CommandError(t *testing.T) {
	mock := &mockCommander{startError: fmt.Errorf("command execution failed")}

	err := OpenWithCommander("http://localhost:8080/", mock, "linux")
	if err == nil {
		t.Fatal("expected error from commander, got nil")
	}
	if err.Error() != "command execution failed" {
		t.Errorf("expected 'command execution failed', got: %v", err)
	}
}

func TestOpen_CallsDefaultCommander(t *testing.T) {
	originalCommander := defaultCommander
	defer func() { defaultCommander = originalCommander }()

	mock := &mockCommander{}
	defaultCommander = mock

	url := "http://localhost:8080/"
	if err := Open(url); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if mock.lastCommand == "" {
		t.Error("expected commander to be called, but it wasn't")
	}
	if len(mock.lastArgs) == 0 || mock.lastArgs[len(mock.lastArgs)-1] != url {
		t.Errorf("expected URL '%s' in args, got %v", url, mock.lastArgs)
	}
}
