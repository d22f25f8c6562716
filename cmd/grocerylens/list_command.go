package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"grocerylens/internal/grocery"
	"grocerylens/internal/services"
)

const shortIDLength = 8

func newListCommand(ctx *commandContext) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Manage the shopping list",
	}

	listCmd.AddCommand(newListAddCommand(ctx))
	listCmd.AddCommand(newListShowCommand(ctx))
	listCmd.AddCommand(newListDoneCommand(ctx, true))
	listCmd.AddCommand(newListDoneCommand(ctx, false))
	listCmd.AddCommand(newListEditCommand(ctx))
	listCmd.AddCommand(newListRemoveCommand(ctx))
	listCmd.AddCommand(newListArchiveCommand(ctx))

	return listCmd
}

func newListAddCommand(ctx *commandContext) *cobra.Command {
	var item grocery.Item

	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Add an item to the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item.Name = strings.Join(args, " ")
			return ctx.withStore(func(store *grocery.Store) error {
				created, err := store.Create(cmd.Context(), item)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s x%d (%s)\n", created.Name, created.Quantity, shortID(created.ID))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&item.Quantity, "quantity", "q", 1, "Quantity")
	cmd.Flags().StringVarP(&item.Unit, "unit", "u", "", "Unit such as kg or pack")
	cmd.Flags().StringVar(&item.Category, "category", "", "Category")
	cmd.Flags().StringVar(&item.Notes, "notes", "", "Free-form notes")
	return cmd
}

func newListShowCommand(ctx *commandContext) *cobra.Command {
	var status string
	var category string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"show"},
		Short:   "Show list items",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := grocery.ListFilter{Status: grocery.Status(strings.ToLower(strings.TrimSpace(status))), Category: category}
			switch filter.Status {
			case grocery.StatusAll, grocery.StatusOpen, grocery.StatusCompleted:
			default:
				return fmt.Errorf("invalid --status %q (want all, open or completed)", status)
			}
			return ctx.withStore(func(store *grocery.Store) error {
				items, err := store.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				progress, err := store.Progress(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					if items == nil {
						items = []*grocery.Item{}
					}
					return writeJSON(cmd, struct {
						Items    []*grocery.Item  `json:"items"`
						Progress grocery.Progress `json:"progress"`
					}{items, progress})
				}

				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "List is empty")
					return nil
				}
				fmt.Fprint(out, tableView{
					Headers: []string{"ID", "Done", "Item", "Qty", "Category", "Notes"},
					Rows:    buildItemRows(items),
					Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
					Footer:  []string{"", "", "Progress", progressLabel(progress)},
				}.render())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", string(grocery.StatusAll), "Filter by status: all, open, completed")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newListDoneCommand(ctx *commandContext, completed bool) *cobra.Command {
	use, short, verb := "done ID...", "Mark items as bought", "Completed"
	if !completed {
		use, short, verb = "undo ID...", "Mark items as not bought", "Reopened"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *grocery.Store) error {
				for _, ref := range args {
					id, err := resolveItemID(cmd.Context(), store, ref)
					if err != nil {
						return err
					}
					item, err := store.SetCompleted(cmd.Context(), id, completed)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, item.Name)
				}
				return nil
			})
		},
	}
}

func newListEditCommand(ctx *commandContext) *cobra.Command {
	var name, unit, category, notes string
	var quantity int

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch grocery.Patch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("quantity") {
				patch.Quantity = &quantity
			}
			if flags.Changed("unit") {
				patch.Unit = &unit
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if flags.Changed("notes") {
				patch.Notes = &notes
			}
			if patch.IsEmpty() {
				return errors.New("nothing to change; pass at least one of --name, --quantity, --unit, --category, --notes")
			}
			return ctx.withStore(func(store *grocery.Store) error {
				id, err := resolveItemID(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				item, err := store.Update(cmd.Context(), id, patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s x%d\n", item.Name, item.Quantity)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "New quantity")
	cmd.Flags().StringVarP(&unit, "unit", "u", "", "New unit")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes")
	return cmd
}

func newListRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"remove"},
		Short:   "Remove items without archiving them",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *grocery.Store) error {
				for _, ref := range args {
					id, err := resolveItemID(cmd.Context(), store, ref)
					if err != nil {
						return err
					}
					if err := store.Delete(cmd.Context(), id); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", shortID(id))
				}
				return nil
			})
		},
	}
}

func newListArchiveCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "archive [ID...]",
		Short: "Move items to history (completed items by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *grocery.Store) error {
				var ids []string
				switch {
				case len(args) > 0:
					for _, ref := range args {
						id, err := resolveItemID(cmd.Context(), store, ref)
						if err != nil {
							return err
						}
						ids = append(ids, id)
					}
				case !all:
					completed, err := store.List(cmd.Context(), grocery.ListFilter{Status: grocery.StatusCompleted})
					if err != nil {
						return err
					}
					if len(completed) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No completed items to archive")
						return nil
					}
					for _, item := range completed {
						ids = append(ids, item.ID)
					}
				}
				moved, err := store.MoveToHistory(cmd.Context(), ids...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved %d item(s) to history\n", moved)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Archive every item on the list, finished or not")
	return cmd
}

// resolveItemID accepts a full item id or a unique prefix of one.
func resolveItemID(ctx context.Context, store *grocery.Store, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", services.Wrap(services.ErrValidation, "cli", "resolve item", "item id is empty", nil)
	}
	item, err := store.Get(ctx, ref)
	if err != nil {
		return "", err
	}
	if item != nil {
		return item.ID, nil
	}

	items, err := store.List(ctx, grocery.ListFilter{Status: grocery.StatusAll})
	if err != nil {
		return "", err
	}
	var matches []string
	for _, candidate := range items {
		if strings.HasPrefix(candidate.ID, ref) {
			matches = append(matches, candidate.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", services.Wrap(services.ErrNotFound, "cli", "resolve item", "no item matches "+ref, nil)
	case 1:
		return matches[0], nil
	default:
		return "", services.Wrap(services.ErrValidation, "cli", "resolve item",
			fmt.Sprintf("%q matches %d items; use a longer id", ref, len(matches)), nil)
	}
}

func buildItemRows(items []*grocery.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		qty := strconv.Itoa(item.Quantity)
		if item.Unit != "" {
			qty += " " + item.Unit
		}
		rows = append(rows, []string{
			shortID(item.ID),
			checkbox(item.Completed),
			item.Name,
			qty,
			item.Category,
			item.Notes,
		})
	}
	return rows
}

func progressLabel(p grocery.Progress) string {
	return fmt.Sprintf("%d/%d (%.0f%%)", p.Completed, p.Total, p.Percent())
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}
