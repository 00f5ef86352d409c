// Package clipboard copies slide text to the system clipboard.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Copy writes text to the system clipboard using whatever utility the
// platform provides.
func Copy(text string) error {
	switch runtime.GOOS {
	case "darwin":
		return pipe("pbcopy", nil, text)
	case "windows":
		return pipe("cmd", []string{"/c", "clip"}, text)
	case "linux":
		return copyLinux(text)
	default:
		return fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}
}

// copyLinux tries X11 utilities first, then Wayland.
func copyLinux(text string) error {
	candidates := []struct {
		name string
		args []string
	}{
		{"xclip", []string{"-selection", "clipboard"}},
		{"xsel", []string{"--clipboard", "--input"}},
		{"wl-copy", nil},
	}

	var lastErr error
	for _, c := range candidates {
		if !available(c.name) {
			continue
		}
		if err := pipe(c.name, c.args, text); err != nil {
			lastErr = fmt.Errorf("%s failed: %w", c.name, err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("no clipboard utility found (install xclip, xsel, or wl-clipboard)")
}

// Available reports whether a clipboard utility exists on this system.
func Available() bool {
	switch runtime.GOOS {
	case "darwin":
		return available("pbcopy")
	case "windows":
		return true
	case "linux":
		return available("xclip") || available("xsel") || available("wl-copy")
	default:
		return false
	}
}

func pipe(name string, args []string, text string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
