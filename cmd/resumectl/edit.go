package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"resume-editor/resume/autosave"
	"resume-editor/resume/model"
	"resume-editor/resume/ordering"
	"resume-editor/resume/session"
)

func newFetchCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <resume-id>",
		Short: "Print a stored resume as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()
			doc, err := client.Fetch(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func newListCmd(g *globalFlags) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored resumes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()
			items, err := client.List(ctx, limit, offset)
			if err != nil {
				return err
			}
			for _, s := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", s.ID, s.UpdatedAt.Format("2006-01-02 15:04"), s.Title)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of resumes")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of resumes to skip")
	return cmd
}

func newDeleteCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resume-id>",
		Short: "Delete a stored resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()
			if err := client.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newRenameCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <resume-id> <title>",
		Short: "Rename a resume",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[1]
			return g.edit(cmd, args[0], func(s *session.Store) error {
				return s.UpdateTitle(title)
			})
		},
	}
}

func newMoveSectionCmd(g *globalFlags) *cobra.Command {
	var placement string
	cmd := &cobra.Command{
		Use:   "move-section <resume-id> <section> <target-section>",
		Short: "Move a section before or after another section",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := model.ParseSectionKey(args[1])
			if err != nil {
				return err
			}
			target, err := model.ParseSectionKey(args[2])
			if err != nil {
				return err
			}
			where, err := ordering.ParsePlacement(placement)
			if err != nil {
				return err
			}
			return g.edit(cmd, args[0], func(s *session.Store) error {
				return s.MoveSection(key, target, where)
			})
		},
	}
	cmd.Flags().StringVar(&placement, "placement", string(ordering.Before), "before or after")
	return cmd
}

func newToggleCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <resume-id> <section> [item-id]",
		Short: "Hide or show a section, or one item of a section",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := model.ParseSectionKey(args[1])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				return g.edit(cmd, args[0], func(s *session.Store) error {
					return s.ToggleSectionVisibility(key)
				})
			}
			kind, ok := key.Kind()
			if !ok {
				return fmt.Errorf("section %q has no items", key)
			}
			id, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[2])
			}
			return g.edit(cmd, args[0], func(s *session.Store) error {
				return s.ToggleItemVisibility(kind, id)
			})
		},
	}
}

// edit fetches a resume into a local session, applies op and saves it back
// through the autosave scheduler.
func (g *globalFlags) edit(cmd *cobra.Command, id string, op func(*session.Store) error) error {
	client, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
	defer cancel()

	doc, err := client.Fetch(ctx, id)
	if err != nil {
		return err
	}
	return g.applyAndSave(cmd, client, doc, op)
}

func (g *globalFlags) applyAndSave(cmd *cobra.Command, persister autosave.Persister, doc model.Document, op func(*session.Store) error) error {
	store := session.New(doc)
	sched := autosave.New(store, persister,
		autosave.WithTimeout(g.timeout),
		autosave.WithLogger(g.logger()),
		autosave.WithOnSaved(store.ApplySaved),
	)
	store.Subscribe(func(session.Change) { sched.MarkDirty() })

	before := store.Version()
	if err := op(store); err != nil {
		sched.Close()
		return err
	}
	if store.Version() == before {
		sched.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "no changes")
		return nil
	}

	st := sched.SaveNow()
	sched.Close()
	if st.State == autosave.StateError {
		return fmt.Errorf("save failed: %s", st.Error)
	}
	saved, _ := store.Snapshot()
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s) at %s\n", saved.ID, saved.Title, saved.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
