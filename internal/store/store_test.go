package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadResults_Missing(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "results.json"), dir)
	if _, err := s.LoadResults(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadResults_CachedAfterFirstRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")
	writeFile(t, path, `{"total_instances": 10, "resolved_instances": 7, "unresolved_instances": 3, "unresolved_ids": ["a__b-1"]}`)

	s := New(path, dir)
	res, err := s.LoadResults()
	if err != nil {
		t.Fatalf("load results: %v", err)
	}
	if res.TotalInstances != 10 || len(res.UnresolvedIDs) != 1 {
		t.Fatalf("unexpected results: %+v", res)
	}

	// Cache must survive the file disappearing.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.LoadResults(); err != nil {
		t.Fatalf("cached load failed: %v", err)
	}
}

func TestListTaskDirs_Sorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b__y-2", "a__x-1"} {
		if err := os.MkdirAll(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	writeFile(t, filepath.Join(dir, "stray.json"), "{}")

	s := New(filepath.Join(dir, "results.json"), dir)
	tasks, err := s.ListTaskDirs()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0] != "a__x-1" || tasks[1] != "b__y-2" {
		t.Fatalf("unexpected task list: %#v", tasks)
	}
}

func TestLoadTrajectory_PicksLexicographicFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a__x-1", "zz.json"), `{"messages": [{"role": "user", "content": "second"}]}`)
	writeFile(t, filepath.Join(dir, "a__x-1", "aa.json"), `{"messages": [{"role": "user", "content": "first"}]}`)

	s := New(filepath.Join(dir, "results.json"), dir)
	traj, err := s.LoadTrajectory("a__x-1")
	if err != nil {
		t.Fatalf("load trajectory: %v", err)
	}
	if len(traj.Messages) != 1 || traj.Messages[0].Content != "first" {
		t.Fatalf("expected aa.json to win, got %#v", traj.Messages)
	}
}

func TestLoadTrajectory_MissingTask(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "results.json"), dir)
	if _, err := s.LoadTrajectory("nope__missing-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadTrajectory_CachedAfterFirstRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a__x-1", "traj.json")
	writeFile(t, path, `{"messages": [{"role": "user", "content": "hi"}]}`)

	s := New(filepath.Join(dir, "results.json"), dir)
	if _, err := s.LoadTrajectory("a__x-1"); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	traj, err := s.LoadTrajectory("a__x-1")
	if err != nil {
		t.Fatalf("cached load failed: %v", err)
	}
	if len(traj.Messages) != 1 {
		t.Fatalf("unexpected cached trajectory: %#v", traj.Messages)
	}
}
