package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mduarte/ata/internal/cli/formatter"
	"github.com/mduarte/ata/internal/export"
	"github.com/mduarte/ata/internal/reconcile"
	"github.com/mduarte/ata/internal/share"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a meeting record from a JSON file",
		Long: "Import a meeting record from a JSON file. The payload is validated and\n" +
			"re-keyed: the imported record gets fresh ids throughout, an empty header\n" +
			"number, and today's date, while item history is preserved.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.Import.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %s %s — %d items\n",
				doc.Header.Title, formatter.TruncID(doc.ID), len(doc.Items))
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var out string
	var noLink bool

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export a meeting record as a standalone HTML file",
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

			opts := export.Options{}
			if !noLink {
				opts.AppBaseURL = app.Config.Share.BaseURL
			}

			if out == "" {
				out = exportFileName(doc.Header.Title) + ".html"
			}
			if err := export.WriteFile(doc, opts, out); err != nil {
				return err
			}

			fmt.Printf("Exported %s to %s\n", doc.Header.Title, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output path (defaults to <title>.html)")
	cmd.Flags().BoolVar(&noLink, "no-link", false, "Omit the share link from the file")

	return cmd
}

// exportFileName makes a title safe to use as a file name.
func exportFileName(title string) string {
	s := strings.TrimSpace(title)
	if s == "" {
		return "ata"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r == '/' || r == '\\' || r == ':':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func newShareCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share meeting records through self-contained links",
	}

	cmd.AddCommand(
		newShareLinkCmd(app),
		newShareImportCmd(app),
	)

	return cmd
}

func newShareLinkCmd(app *App) *cobra.Command {
	var minimal bool

	cmd := &cobra.Command{
		Use:   "link ID",
		Short: "Print a shareable link for a record",
		Long: "Print a link carrying the whole record. With --minimal only each\n" +
			"item's latest entry travels; the receiver starts a fresh history.",
		Args: cobra.ExactArgs(1),
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

			payload := reconcile.FromDocument(doc)
			var fragment string
			if minimal {
				fragment, err = share.EncodeMinimal(payload)
			} else {
				fragment, err = share.Encode(payload)
			}
			if err != nil {
				return err
			}

			fmt.Println(share.Link(app.Config.Share.BaseURL, fragment))
			return nil
		},
	}

	cmd.Flags().BoolVar(&minimal, "minimal", false, "Encode only the latest entry per item")

	return cmd
}

func newShareImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import LINK",
		Short: "Import a record from a share link or fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fragment := args[0]
			if i := strings.Index(fragment, "#"); i >= 0 {
				fragment = fragment[i+1:]
			}

			payload, err := share.Decode(fragment)
			if err != nil {
				return err
			}
			data, err := json.Marshal(payload)
			if err != nil {
				return err
			}

			doc, err := app.Import.ImportPayload(context.Background(), data)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Imported %s %s — %d items\n",
				doc.Header.Title, formatter.TruncID(doc.ID), len(doc.Items))
			return nil
		},
	}
}
