package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gsmoon97/swe-agent-eval/internal/trajectory"
)

// Exporter writes trajectory downloads. Files land in the override
// directory when set, otherwise in the working directory.
type Exporter struct {
	overrideDir string
	cwd         string
}

func New(overrideDir string) (*Exporter, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve cwd: %w", err)
	}
	return &Exporter{overrideDir: strings.TrimSpace(overrideDir), cwd: cwd}, nil
}

// Export serializes the loaded trajectory back to indented JSON as
// "<taskID>_trajectory.json". Pure re-serialization of the original
// document; no transformation.
func (e *Exporter) Export(taskID string, traj trajectory.Trajectory) (string, error) {
	data, err := IndentedJSON(traj)
	if err != nil {
		return "", err
	}

	path := e.outputPath(taskID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// IndentedJSON re-indents the raw trajectory document so a download
// re-parses deep-equal to what was loaded.
func IndentedJSON(traj trajectory.Trajectory) ([]byte, error) {
	raw := traj.Raw
	if len(raw) == 0 {
		var err error
		raw, err = json.Marshal(map[string]any{"messages": traj.Messages})
		if err != nil {
			return nil, fmt.Errorf("marshal trajectory: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("indent trajectory: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) outputPath(taskID string) string {
	dir := e.overrideDir
	if dir == "" {
		dir = e.cwd
	} else if !filepath.IsAbs(dir) {
		dir = filepath.Join(e.cwd, dir)
	}
	return filepath.Join(dir, safeFileName(taskID)+"_trajectory.json")
}

func safeFileName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "trajectory"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return replacer.Replace(s)
}
