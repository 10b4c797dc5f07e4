package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var ErrToolNotFound = errors.New("clipboard tool not found")

// Tool is the platform copy command resolved at call time.
type Tool struct {
	Path string
	Args []string
}

var candidates = map[string][]Tool{
	"darwin": {{Path: "pbcopy"}},
	"linux": {
		{Path: "wl-copy"},
		{Path: "xclip", Args: []string{"-selection", "clipboard"}},
	},
	"windows": {{Path: "clip"}},
}

// Resolve picks the copy command for the platform. lookPath is injected
// for tests.
func Resolve(goos string, lookPath func(string) (string, error)) (Tool, error) {
	for _, c := range candidates[goos] {
		if path, err := lookPath(c.Path); err == nil {
			return Tool{Path: path, Args: c.Args}, nil
		}
	}
	return Tool{}, ErrToolNotFound
}

// Copy pipes text to the system clipboard.
func Copy(ctx context.Context, text string) error {
	tool, err := Resolve(runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, tool.Path, tool.Args...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard command failed: %w", err)
	}
	return nil
}
