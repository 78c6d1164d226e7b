package list

import (
	"fmt"

	"github.com/bnema/taskline-cli/internal/application"
	"github.com/bnema/taskline-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Owner  string
	Filter domain.Filter
	Counts application.Counts
}

func renderView(todos []domain.Todo, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Tasks for %s", opts.Owner)),
		s.header.Render(fmt.Sprintf("filter: %s", filterLabel(opts.Filter))),
	}

	if len(todos) == 0 {
		lines = append(lines, s.empty.Render(emptyMessage(opts.Filter)))
	}

	for _, todo := range todos {
		lines = append(lines, renderTodo(todo, s))
	}

	lines = append(lines, s.footer.Render(fmt.Sprintf("%d open · %d done", opts.Counts.Active, opts.Counts.Completed)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTodo(todo domain.Todo, s styles) string {
	mark := s.activeMark.Render("[ ]")
	title := s.activeTitle.Render(todo.Title)
	if todo.Completed {
		mark = s.doneMark.Render("[x]")
		title = s.doneTitle.Render(todo.Title)
	}

	line := fmt.Sprintf("%s %s %s", mark, title, s.id.Render(string(todo.ID)))
	if todo.Description != "" {
		line = lipgloss.JoinVertical(lipgloss.Left, line, "    "+s.description.Render(todo.Description))
	}

	return line
}

func filterLabel(filter domain.Filter) string {
	if filter == "" {
		return string(domain.FilterAll)
	}

	return string(filter)
}

func emptyMessage(filter domain.Filter) string {
	switch filter {
	case domain.FilterActive:
		return "Nothing open. Enjoy the quiet."
	case domain.FilterCompleted:
		return "Nothing done yet."
	default:
		return "No tasks yet. Add one with `tl add`."
	}
}
