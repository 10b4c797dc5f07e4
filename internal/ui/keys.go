package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Tab      key.Binding
	PrevTask key.Binding
	NextTask key.Binding
	TaskType key.Binding
	Project  key.Binding
	Search   key.Binding
	TOC      key.Binding
	Select   key.Binding
	Back     key.Binding
	PrevStep key.Binding
	NextStep key.Binding
	Download key.Binding
	Copy     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		PrevTask: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev task"),
		),
		NextTask: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next task"),
		),
		TaskType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "unresolved/all"),
		),
		Project: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "project filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		TOC: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "contents"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "all steps"),
		),
		PrevStep: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prev step"),
		),
		NextStep: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next step"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy link"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.NextTask, k.TaskType, k.Search, k.Select, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.PrevTask, k.NextTask, k.Select},
		{k.TaskType, k.Project, k.Search, k.TOC, k.Back},
		{k.PrevStep, k.NextStep, k.Download, k.Copy, k.Quit},
	}
}
