package browser

import (
	"errors"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"windows", "rundll32"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := command(tt.goos, "https://go.dev")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd.Args[0] != tt.want || cmd.Args[len(cmd.Args)-1] != "https://go.dev" {
				t.Errorf("unexpected command %v", cmd.Args)
			}
		})
	}

	if _, err := command("plan9", "https://go.dev"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestOpen_RejectsNonWebURLs(t *testing.T) {
	for _, url := range []string{"", "file:///etc/passwd", "javascript:alert(1)"} {
		if err := Open(url); !errors.Is(err, ErrNotWeb) {
			t.Errorf("Open(%q) = %v, want ErrNotWeb", url, err)
		}
	}
}
