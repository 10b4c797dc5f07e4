package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gsmoon97/swe-agent-eval/internal/trajectory"
)

// ErrNotFound marks a missing results file, task directory, or trajectory.
var ErrNotFound = errors.New("not found")

// Store reads the results index and per-task trajectory files. Loads are
// read-through cached for the lifetime of the process; only a restart
// invalidates them. The mutex is there because bubbletea commands run on
// their own goroutines.
type Store struct {
	resultsPath string
	trajsDir    string

	mu      sync.Mutex
	results *trajectory.Results
	trajs   map[string]trajectory.Trajectory
}

func New(resultsPath, trajsDir string) *Store {
	return &Store{
		resultsPath: resultsPath,
		trajsDir:    trajsDir,
		trajs:       make(map[string]trajectory.Trajectory),
	}
}

// LoadResults reads and caches the results index. A missing file returns
// ErrNotFound; the caller shows the error and halts further rendering.
func (s *Store) LoadResults() (trajectory.Results, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.results != nil {
		return *s.results, nil
	}

	data, err := os.ReadFile(s.resultsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return trajectory.Results{}, fmt.Errorf("results file %s: %w", s.resultsPath, ErrNotFound)
		}
		return trajectory.Results{}, fmt.Errorf("read results file: %w", err)
	}

	var res trajectory.Results
	if err := json.Unmarshal(data, &res); err != nil {
		return trajectory.Results{}, fmt.Errorf("parse results file: %w", err)
	}
	s.results = &res
	return res, nil
}

// ListTaskDirs enumerates task-id subdirectories of the trajectory root,
// sorted by name.
func (s *Store) ListTaskDirs() ([]string, error) {
	entries, err := os.ReadDir(s.trajsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("trajectory root %s: %w", s.trajsDir, ErrNotFound)
		}
		return nil, fmt.Errorf("list trajectory root: %w", err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// LoadTrajectory reads and caches the trajectory for a task. When the task
// directory holds several JSON files the lexicographically first one wins.
func (s *Store) LoadTrajectory(taskID string) (trajectory.Trajectory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if traj, ok := s.trajs[taskID]; ok {
		return traj, nil
	}

	path, err := s.trajectoryFile(taskID)
	if err != nil {
		return trajectory.Trajectory{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return trajectory.Trajectory{}, fmt.Errorf("read trajectory %s: %w", path, err)
	}
	traj, err := trajectory.Decode(data)
	if err != nil {
		return trajectory.Trajectory{}, fmt.Errorf("parse trajectory %s: %w", path, err)
	}

	s.trajs[taskID] = traj
	return traj, nil
}

func (s *Store) trajectoryFile(taskID string) (string, error) {
	dir := filepath.Join(s.trajsDir, taskID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return "", fmt.Errorf("list task dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("task %s has no trajectory JSON: %w", taskID, ErrNotFound)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}
