package trajectory

import "strings"

// TaskRef is the GitHub coordinates parsed out of a task id of the form
// "<org>__<repo>-<issue>". Repo names may themselves contain dashes; the
// issue number is the segment after the last dash.
type TaskRef struct {
	Org   string
	Repo  string
	Issue string
}

// ParseTaskID splits a task id into its GitHub coordinates. ok is false
// when the id does not split into exactly two parts on "__".
func ParseTaskID(id string) (TaskRef, bool) {
	parts := strings.Split(id, "__")
	if len(parts) != 2 {
		return TaskRef{}, false
	}
	segs := strings.Split(parts[1], "-")
	return TaskRef{
		Org:   parts[0],
		Repo:  strings.Join(segs[:len(segs)-1], "-"),
		Issue: segs[len(segs)-1],
	}, true
}

func (r TaskRef) GitHubURL() string {
	return "https://github.com/" + r.Org + "/" + r.Repo + "/pull/" + r.Issue
}
