package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mduarte/ata/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and correct item history",
	}

	cmd.AddCommand(
		newHistoryShowCmd(app),
		newHistoryRemoveCmd(app),
		newHistoryRetimeCmd(app),
	)

	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show DOC ITEM",
		Short: "Show the full history log of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			doc, _, err := loadDocumentTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			it, err := resolveItem(doc, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatItemHistory(it))
			return nil
		},
	}
}

func newHistoryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm DOC ITEM ENTRY",
		Short: "Remove a history entry",
		Long: "Remove one history entry from an item. The last remaining entry can\n" +
			"never be removed; the item always keeps its current snapshot.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			doc, t, err := loadDocumentTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			it, err := resolveItem(doc, args[1])
			if err != nil {
				return err
			}
			entry, err := resolveEntry(it, args[2])
			if err != nil {
				return err
			}

			if !it.RemoveEntry(entry.ID) {
				return fmt.Errorf("entry cannot be removed: the item keeps at least one entry")
			}
			if err := saveDocumentTree(ctx, app, doc, t); err != nil {
				return err
			}

			fmt.Printf("Removed entry %s from item %s\n", formatter.TruncID(entry.ID), it.Number)
			return nil
		},
	}
}

func newHistoryRetimeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "retime DOC ITEM ENTRY DATE",
		Short: "Correct the recorded date of a history entry",
		Long: "Correct when a history entry was recorded without moving it in the\n" +
			"log. DATE is YYYY-MM-DD or an RFC 3339 timestamp.",
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			doc, t, err := loadDocumentTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			it, err := resolveItem(doc, args[1])
			if err != nil {
				return err
			}
			entry, err := resolveEntry(it, args[2])
			if err != nil {
				return err
			}

			recordedAt, err := parseWhen(args[3])
			if err != nil {
				return err
			}

			if !it.RetimeEntry(entry.ID, recordedAt) {
				return fmt.Errorf("history entry not found: %q", args[2])
			}
			if err := saveDocumentTree(ctx, app, doc, t); err != nil {
				return err
			}

			fmt.Printf("Retimed entry %s to %s\n", formatter.TruncID(entry.ID), recordedAt.Format("2006-01-02"))
			return nil
		},
	}
}

func parseWhen(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD or RFC 3339", s)
}
