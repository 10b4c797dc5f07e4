package ui

import "github.com/gsmoon97/swe-agent-eval/internal/index"

// NavState is the session-scoped navigation tuple: position in the
// filtered task list, the active filter, and the optionally focused step.
// SelectedStep is 1-based; 0 means the all-steps view. All transitions
// are pure; the bubbletea model stores the result.
type NavState struct {
	TaskIndex    int
	Filter       index.Filter
	SelectedStep int
}

// Focused reports whether a single step is focused. Focused-step and
// all-steps views are mutually exclusive render modes.
func (n NavState) Focused() bool { return n.SelectedStep != 0 }

// ApplyFilter records a new filter; a changed filter resets the task
// position to the top of the new list.
func (n NavState) ApplyFilter(f index.Filter) NavState {
	if f == n.Filter {
		return n
	}
	n.Filter = f
	n.TaskIndex = 0
	n.SelectedStep = 0
	return n
}

// PrevTask steps back one task; a no-op at the top of the list.
func (n NavState) PrevTask() NavState {
	if n.TaskIndex <= 0 {
		return n
	}
	n.TaskIndex--
	n.SelectedStep = 0
	return n
}

// NextTask advances one task; a no-op at the end of the list.
func (n NavState) NextTask(listLen int) NavState {
	if n.TaskIndex >= listLen-1 {
		return n
	}
	n.TaskIndex++
	n.SelectedStep = 0
	return n
}

// JumpToTask selects an explicit position in the filtered list.
func (n NavState) JumpToTask(pos, listLen int) NavState {
	if pos < 0 || pos >= listLen || pos == n.TaskIndex {
		return n
	}
	n.TaskIndex = pos
	n.SelectedStep = 0
	return n
}

// ClampTask forces the task index back into [0, listLen-1] after the
// filtered list may have changed length. An empty list pins it to 0;
// callers render an empty state instead of a task.
func (n NavState) ClampTask(listLen int) NavState {
	if listLen <= 0 {
		n.TaskIndex = 0
		return n
	}
	if n.TaskIndex < 0 {
		n.TaskIndex = 0
	}
	if n.TaskIndex > listLen-1 {
		n.TaskIndex = listLen - 1
	}
	return n
}

// SelectStep focuses a step, clamped into [1, totalSteps]. No steps means
// nothing to focus.
func (n NavState) SelectStep(step, totalSteps int) NavState {
	if totalSteps <= 0 {
		n.SelectedStep = 0
		return n
	}
	if step < 1 {
		step = 1
	}
	if step > totalSteps {
		step = totalSteps
	}
	n.SelectedStep = step
	return n
}

// StepBy moves the focused step by delta; a no-op when nothing is
// focused or at the bounds.
func (n NavState) StepBy(delta, totalSteps int) NavState {
	if !n.Focused() {
		return n
	}
	next := n.SelectedStep + delta
	if next < 1 || next > totalSteps {
		return n
	}
	n.SelectedStep = next
	return n
}

// ClearStep returns to the all-steps view.
func (n NavState) ClearStep() NavState {
	n.SelectedStep = 0
	return n
}
