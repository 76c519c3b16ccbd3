package cli

import (
	"github.com/mduarte/ata/internal/config"
	"github.com/mduarte/ata/internal/service"
	"github.com/mduarte/ata/internal/storage"
	"github.com/spf13/cobra"
)

// App holds references to the services and shared state used by CLI
// commands.
type App struct {
	Documents service.DocumentService
	Import    service.ImportService
	Store     storage.Store
	Config    config.Config

	// IsInteractive reports whether stdin is an interactive terminal.
	// Wizard-based commands fall back to flag-only mode when it is not.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "ata" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ata",
		Short:         "Meeting minutes editor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newNewCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newCopyCmd(app),
		newDeleteCmd(app),
		newItemCmd(app),
		newHistoryCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newShareCmd(app),
		newBrowseCmd(app),
	)

	return root
}
