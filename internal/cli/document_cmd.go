package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mduarte/ata/internal/cli/formatter"
	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/tree"
	"github.com/spf13/cobra"
)

func newNewCmd(app *App) *cobra.Command {
	var number, date, docType, title, owner, project string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new meeting record",
		Long: "Create a new meeting record. Without flags an interactive wizard walks\n" +
			"through header, participants, and items, autosaving a draft as it goes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if !cmd.Flags().Changed("title") && app.interactive() {
				return runNewWizard(ctx, app)
			}

			if title == "" {
				return fmt.Errorf("--title is required outside the interactive wizard")
			}
			if date == "" {
				date = domain.TodayDate(time.Now())
			}
			if docType == "" {
				docType = app.Config.Editor.DefaultType
			}
			if owner == "" {
				owner = app.Config.Editor.DefaultOwner
			}

			items := tree.New(nil)
			items.AddRoot(time.Now().UTC())

			doc := &domain.Document{
				Header: domain.Header{
					Number:  number,
					Date:    date,
					Type:    docType,
					Title:   title,
					Owner:   owner,
					Project: project,
				},
				Items: items.Items(),
			}
			if err := app.Documents.Create(ctx, doc); err != nil {
				return err
			}

			fmt.Printf("Created %s %s\n", doc.Header.Title, formatter.TruncID(doc.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "Header number (e.g. ATA-001)")
	cmd.Flags().StringVar(&date, "date", "", "Meeting date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&docType, "type", "", "Meeting type")
	cmd.Flags().StringVar(&title, "title", "", "Meeting title")
	cmd.Flags().StringVar(&owner, "owner", "", "Meeting owner")
	cmd.Flags().StringVar(&project, "project", "", "Project name")

	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List meeting records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := app.Documents.List(context.Background())
			if err != nil {
				return err
			}
			if !all {
				active := docs[:0]
				for _, d := range docs {
					if !d.Archived {
						active = append(active, d)
					}
				}
				docs = active
			}
			if len(docs) == 0 {
				fmt.Println("No meeting records found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatDocumentList(docs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived records")

	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a meeting record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveDocumentID(ctx, app, args[0])
			if err != nil {
				return err
			}
			doc, err := app.Documents.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatDocumentShow(doc))
			return nil
		},
	}
}

func newCopyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "copy ID",
		Short: "Copy a record into a fresh one and archive the source",
		Long: "Copy a record: every item starts a new history from its latest entry,\n" +
			"the header number is cleared, the date is set to today, and the source\n" +
			"record is archived.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveDocumentID(ctx, app, args[0])
			if err != nil {
				return err
			}
			copied, err := app.Documents.Copy(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Copied into %s; source archived\n", formatter.TruncID(copied.ID))
			return nil
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a meeting record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveDocumentID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !force {
				doc, err := app.Documents.Get(ctx, id)
				if err != nil {
					return err
				}
				return fmt.Errorf("refusing to delete %q without --force", doc.Header.Title)
			}
			if err := app.Documents.Remove(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete without confirmation")

	return cmd
}
