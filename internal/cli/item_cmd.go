package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mduarte/ata/internal/cli/formatter"
	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/sanitize"
	"github.com/mduarte/ata/internal/tree"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage items of a meeting record",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemSubCmd(app),
		newItemRemoveCmd(app),
		newItemRenumberCmd(app),
		newItemRecordCmd(app),
	)

	return cmd
}

// loadDocumentTree fetches the document and wraps its items in a Tree.
// Mutations through the tree act on the document's item slice, so a
// subsequent Update persists them.
func loadDocumentTree(ctx context.Context, app *App, input string) (*domain.Document, *tree.Tree, error) {
	id, err := resolveDocumentID(ctx, app, input)
	if err != nil {
		return nil, nil, err
	}
	doc, err := app.Documents.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return doc, tree.New(doc.Items), nil
}

func saveDocumentTree(ctx context.Context, app *App, doc *domain.Document, t *tree.Tree) error {
	doc.Items = t.Items()
	_, err := app.Documents.Update(ctx, doc.ID, doc)
	return err
}

func newItemAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add DOC",
		Short: "Add a top-level item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			doc, t, err := loadDocumentTree(ctx, app, args[0])
			if err != nil {
				return err
			}

			id := t.AddRoot(time.Now().UTC())
			if err := saveDocumentTree(ctx, app, doc, t); err != nil {
				return err
			}

			it, _ := t.Find(id)
			fmt.Printf("Added item %s %s\n", it.Number, formatter.TruncID(id))
			return nil
		},
	}
}

func newItemSubCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sub DOC PARENT",
		Short: "Add a sub-item under an existing item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			doc, t, err := loadDocumentTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			parent, err := resolveItem(doc, args[1])
			if err != nil {
				return err
			}

			id, ok := t.AddChild(parent.ID, time.Now().UTC())
			if !ok {
				return fmt.Errorf("item %s not found in document", args[1])
			}
			if err := saveDocumentTree(ctx, app, doc, t); err != nil {
				return err
			}

			it, _ := t.Find(id)
			fmt.Printf("Added item %s under %s\n", it.Number, parent.Number)
			return nil
		},
	}
}

func newItemRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove DOC ITEM",
		Short: "Remove an item and its whole subtree",
		Long: "Remove an item together with all sub-items. Items that already carry\n" +
			"recorded history are only removed with --force.",
		Args: cobra.ExactArgs(2),
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

			if !force && (!it.Deletable() || it.IsParent()) {
				return fmt.Errorf("item %s has history or sub-items, use --force", it.Number)
			}

			t.Remove(it.ID)
			if err := saveDocumentTree(ctx, app, doc, t); err != nil {
				return err
			}

			fmt.Printf("Removed item %s\n", it.Number)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove even with history or sub-items")

	return cmd
}

func newItemRenumberCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "renumber DOC ITEM NUMBER",
		Short: "Manually override an item's number",
		Args:  cobra.ExactArgs(3),
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

			old := it.Number
			if !t.SetNumber(it.ID, args[2]) {
				return fmt.Errorf("item %s not found in document", args[1])
			}
			if err := saveDocumentTree(ctx, app, doc, t); err != nil {
				return err
			}

			fmt.Printf("Renumbered item %s to %s\n", old, args[2])
			return nil
		},
	}
}

func newItemRecordCmd(app *App) *cobra.Command {
	var desc, ownerName, ownerEmail, due, status string

	cmd := &cobra.Command{
		Use:   "record DOC ITEM",
		Short: "Record a new history entry on an item",
		Args:  cobra.ExactArgs(2),
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

			st := domain.ItemStatus(status)
			if !st.Valid() {
				return fmt.Errorf("invalid status %q", status)
			}

			var duePtr *time.Time
			if due != "" {
				d, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				duePtr = &d
			}

			owner := domain.Owner{Name: ownerName, Email: ownerEmail}
			if owner.Name == "" && owner.Email == "" {
				owner.Name = app.Config.Editor.DefaultOwner
			}

			entry := it.RecordUpdate(sanitize.RichText(desc), owner, duePtr, st, time.Now().UTC())
			if err := saveDocumentTree(ctx, app, doc, t); err != nil {
				return err
			}

			fmt.Printf("Recorded entry %s on item %s\n", formatter.TruncID(entry.ID), it.Number)
			return nil
		},
	}

	cmd.Flags().StringVar(&desc, "desc", "", "Entry description")
	cmd.Flags().StringVar(&ownerName, "owner", "", "Owner name")
	cmd.Flags().StringVar(&ownerEmail, "email", "", "Owner e-mail")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", string(domain.StatusPending), "Status (Pending|InProgress|Done|Cancelled|Info)")
	_ = cmd.MarkFlagRequired("desc")

	return cmd
}
