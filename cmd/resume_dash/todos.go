package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jmartin/resume-dash/internal/api"
	"github.com/jmartin/resume-dash/internal/types"
)

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "Manage the dashboard task list",
}

var todosFilter string

var todosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List todos in display order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		todos, err := cli.client.ListTodos(cmd.Context())
		if err != nil {
			return err
		}
		shown := 0
		for _, td := range todos {
			switch todosFilter {
			case "active":
				if td.IsDone {
					continue
				}
			case "completed":
				if !td.IsDone {
					continue
				}
			}
			mark := " "
			if td.IsDone {
				mark = "x"
			}
			fmt.Printf("[%s] %s  %s\n", mark, td.ID, td.Text)
			shown++
		}
		if shown == 0 {
			fmt.Println("No todos.")
		}
		return nil
	},
}

var todosAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a todo at the end of the list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		created, err := cli.client.CreateTodo(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Added %s\n", created.ID)
		return nil
	},
}

var todosDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle whether a todo is done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid todo id %q", args[0])
		}
		todos, err := cli.client.ListTodos(cmd.Context())
		if err != nil {
			return err
		}
		idx := slices.IndexFunc(todos, func(td types.Todo) bool { return td.ID == id })
		if idx < 0 {
			return fmt.Errorf("todo not found: %s", id)
		}
		done := !todos[idx].IsDone
		updated, err := cli.client.UpdateTodo(cmd.Context(), id, api.UpdateTodoRequest{IsDone: &done})
		if err != nil {
			return err
		}
		state := "active"
		if updated.IsDone {
			state = "done"
		}
		fmt.Printf("%q is now %s\n", updated.Text, state)
		return nil
	},
}

var todosEditCmd = &cobra.Command{
	Use:   "edit <id> <text>",
	Short: "Rewrite a todo's text",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid todo id %q", args[0])
		}
		text := strings.Join(args[1:], " ")
		updated, err := cli.client.UpdateTodo(cmd.Context(), id, api.UpdateTodoRequest{Text: &text})
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s\n", updated.ID)
		return nil
	},
}

var todosDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid todo id %q", args[0])
		}
		if err := cli.client.DeleteTodo(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var todosMoveCmd = &cobra.Command{
	Use:   "move <id> <position>",
	Short: "Move a todo to a 1-based position in the list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid todo id %q", args[0])
		}
		pos, err := strconv.Atoi(args[1])
		if err != nil || pos < 1 {
			return fmt.Errorf("invalid position %q", args[1])
		}
		todos, err := cli.client.ListTodos(cmd.Context())
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(todos))
		for _, td := range todos {
			if td.ID != id {
				ids = append(ids, td.ID)
			}
		}
		if len(ids) == len(todos) {
			return fmt.Errorf("todo not found: %s", id)
		}
		if pos > len(todos) {
			pos = len(todos)
		}
		ids = slices.Insert(ids, pos-1, id)
		if _, err := cli.client.ReorderTodos(cmd.Context(), ids); err != nil {
			return err
		}
		fmt.Printf("Moved to position %d\n", pos)
		return nil
	},
}

var todosClearCmd = &cobra.Command{
	Use:   "clear-completed",
	Short: "Delete every done todo",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		deleted, err := cli.client.ClearCompletedTodos(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Cleared %d completed todos\n", deleted)
		return nil
	},
}

func init() {
	todosListCmd.Flags().StringVar(&todosFilter, "filter", "all", "Show all, active, or completed todos")

	todosCmd.AddCommand(todosListCmd, todosAddCmd, todosDoneCmd, todosEditCmd, todosDeleteCmd, todosMoveCmd, todosClearCmd)
	rootCmd.AddCommand(todosCmd)
}
