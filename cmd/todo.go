package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	listrender "github.com/bnema/taskline-cli/internal/adapters/render/list"
	"github.com/bnema/taskline-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newAddCmd(app *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			todos, _, err := app.todoList(cmd.Context())
			if err != nil {
				return err
			}
			if err := todos.Load(cmd.Context()); err != nil {
				return err
			}

			created, err := todos.Add(cmd.Context(), strings.Join(args, " "), description)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", created.Title, created.ID)
			return err
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Optional task description")

	return cmd
}

func newListCmd(app *app) *cobra.Command {
	var filterName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := domain.ParseFilter(filterName)
			if err != nil {
				return fmt.Errorf("%w: %q (use all, active or completed)", err, filterName)
			}

			todos, user, err := app.todoList(cmd.Context())
			if err != nil {
				return err
			}

			load := todos.Load
			if asJSON {
				if err := load(cmd.Context()); err != nil {
					return err
				}
			} else {
				if err := runLoadSpinner(cmd.Context(), cmd.ErrOrStderr(), load); err != nil {
					return err
				}
			}

			view := todos.Filtered(filter)

			if asJSON {
				encoded, err := json.MarshalIndent(view, "", "  ")
				if err != nil {
					return fmt.Errorf("encode todos: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return err
			}

			output, err := listrender.Render(view, listrender.RenderOptions{
				Owner:  user.Email,
				Filter: filter,
				Counts: todos.Counts(),
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().StringVar(&filterName, "filter", string(domain.FilterAll), "Filter tasks (all|active|completed)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newDoneCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			todos, _, err := app.todoList(cmd.Context())
			if err != nil {
				return err
			}
			if err := todos.Load(cmd.Context()); err != nil {
				return err
			}

			toggled, err := todos.Toggle(cmd.Context(), domain.TodoID(args[0]))
			if err != nil {
				return err
			}

			state := "open"
			if toggled.Completed {
				state = "done"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as %s\n", toggled.Title, state)
			return err
		},
	}
}

func newEditCmd(app *app) *cobra.Command {
	var title string
	var description string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task's title and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			todos, _, err := app.todoList(cmd.Context())
			if err != nil {
				return err
			}
			if err := todos.Load(cmd.Context()); err != nil {
				return err
			}

			edited, err := todos.Edit(cmd.Context(), domain.TodoID(args[0]), title, description)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %q (%s)\n", edited.Title, edited.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			todos, _, err := app.todoList(cmd.Context())
			if err != nil {
				return err
			}
			if err := todos.Load(cmd.Context()); err != nil {
				return err
			}

			if err := todos.Remove(cmd.Context(), domain.TodoID(args[0])); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return err
		},
	}
}

func newClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			todos, _, err := app.todoList(cmd.Context())
			if err != nil {
				return err
			}
			if err := todos.Load(cmd.Context()); err != nil {
				return err
			}

			removed, err := todos.ClearCompleted(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s)\n", removed)
			return err
		},
	}
}
