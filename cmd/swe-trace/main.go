package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gsmoon97/swe-agent-eval/internal/config"
	"github.com/gsmoon97/swe-agent-eval/internal/export"
	"github.com/gsmoon97/swe-agent-eval/internal/index"
	"github.com/gsmoon97/swe-agent-eval/internal/store"
	"github.com/gsmoon97/swe-agent-eval/internal/trajectory"
	"github.com/gsmoon97/swe-agent-eval/internal/ui"
)

func main() {
	cfg := config.Parse()

	st := store.New(cfg.ResultsPath, cfg.TrajsDir)

	idx, err := index.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer idx.Close()

	exp, err := export.New(cfg.ExportDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// -list flag: print the task table as plain text (for scripting)
	if cfg.List {
		if err := listTasks(st, idx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(ui.NewModel(cfg, st, idx, exp), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listTasks(st *store.Store, idx *index.Indexer) error {
	results, err := st.LoadResults()
	if err != nil {
		return err
	}
	dirs, err := st.ListTaskDirs()
	if err != nil {
		return err
	}
	if err := idx.Build(context.Background(), results, dirs); err != nil {
		return err
	}
	tasks, err := idx.ListTasks(index.Filter{TaskType: index.AllTasks})
	if err != nil {
		return err
	}
	projects, err := idx.Projects(index.AllTasks)
	if err != nil {
		return err
	}

	fmt.Printf("resolved %d / %d instances (%d unresolved)\n",
		results.ResolvedInstances, results.TotalInstances, len(results.UnresolvedIDs))
	fmt.Printf("projects: %s\n\n", strings.Join(projects, ", "))
	for _, t := range tasks {
		state := "unresolved"
		if t.Resolved {
			state = "resolved"
		}
		link := ""
		if ref, ok := trajectory.ParseTaskID(t.ID); ok {
			link = ref.GitHubURL()
		}
		fmt.Printf("%-10s │ %-50s │ %s\n", state, t.ID, link)
	}
	return nil
}
