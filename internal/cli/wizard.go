package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mduarte/ata/internal/cli/formatter"
	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/reconcile"
	"github.com/mduarte/ata/internal/sanitize"
	"github.com/mduarte/ata/internal/service"
	"github.com/mduarte/ata/internal/tree"
)

// Wizard steps, persisted in the draft so a resumed session restarts at
// the right place.
const (
	stepHeader = iota
	stepParticipants
	stepItems
)

// ataHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func ataHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// wizardState is the in-progress document plus the step cursor. The mutex
// guards against the autosaver snapshotting mid-mutation.
type wizardState struct {
	mu   sync.Mutex
	doc  *domain.Document
	tree *tree.Tree
	step int

	// existingID is set when the wizard resumed a draft of a record that
	// was already persisted once.
	existingID string
}

func (w *wizardState) snapshot() *service.Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.doc.Items = w.tree.Items()
	return &service.Draft{
		Payload:       reconcile.FromDocument(w.doc),
		Step:          w.step,
		ExistingDocID: w.existingID,
	}
}

func (w *wizardState) update(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
	w.doc.Items = w.tree.Items()
}

// runNewWizard walks through header, participants, and items, autosaving
// a draft in the background. An interrupted session can be resumed on the
// next run.
func runNewWizard(ctx context.Context, app *App) error {
	state, err := wizardStart(ctx, app)
	if err != nil {
		return err
	}

	autosaveCtx, stopAutosave := context.WithCancel(ctx)
	defer stopAutosave()
	interval := time.Duration(app.Config.Editor.AutosaveSeconds) * time.Second
	if interval > 0 {
		saver := service.NewAutosaver(app.Store, interval, state.snapshot, nil)
		go saver.Run(autosaveCtx)
	}

	if state.step <= stepHeader {
		if err := wizardHeader(app, state); err != nil {
			return wizardAbort(ctx, app, state, err)
		}
	}
	if state.step <= stepParticipants {
		if err := wizardParticipants(state); err != nil {
			return wizardAbort(ctx, app, state, err)
		}
	}
	if err := wizardItems(app, state); err != nil {
		return wizardAbort(ctx, app, state, err)
	}

	stopAutosave()

	state.doc.Items = state.tree.Items()
	if state.existingID != "" {
		if _, err := app.Documents.Update(ctx, state.existingID, state.doc); err != nil {
			return err
		}
		state.doc.ID = state.existingID
	} else {
		if err := app.Documents.Create(ctx, state.doc); err != nil {
			return err
		}
	}
	if err := service.ClearDraft(ctx, app.Store); err != nil {
		return err
	}

	fmt.Printf("Saved %s %s\n", state.doc.Header.Title, formatter.TruncID(state.doc.ID))
	return nil
}

// wizardStart offers to resume a saved draft, otherwise begins fresh.
func wizardStart(ctx context.Context, app *App) (*wizardState, error) {
	if draft := service.LoadDraft(ctx, app.Store); draft != nil {
		resume := true
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Resume draft %q?", draft.Payload.Header.Title)).
				Affirmative("Resume").
				Negative("Discard").
				Value(&resume),
		)).WithTheme(ataHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return nil, err
		}
		if resume {
			doc := draft.Payload.Document(draft.ExistingDocID)
			return &wizardState{
				doc:        doc,
				tree:       tree.New(doc.Items),
				step:       draft.Step,
				existingID: draft.ExistingDocID,
			}, nil
		}
		if err := service.ClearDraft(ctx, app.Store); err != nil {
			return nil, err
		}
	}

	doc := &domain.Document{
		Header: domain.Header{
			Date:  domain.TodayDate(time.Now()),
			Type:  app.Config.Editor.DefaultType,
			Owner: app.Config.Editor.DefaultOwner,
		},
	}
	return &wizardState{doc: doc, tree: tree.New(nil)}, nil
}

// wizardAbort persists the draft before surfacing the error, so an
// interrupted session survives.
func wizardAbort(ctx context.Context, app *App, state *wizardState, cause error) error {
	d := state.snapshot()
	d.SavedAt = time.Now().UTC().Format(time.RFC3339)
	if err := service.SaveDraft(ctx, app.Store, d); err == nil {
		fmt.Println(formatter.Dim("Draft saved; run `ata new` to resume."))
	}
	return cause
}

func wizardHeader(app *App, state *wizardState) error {
	h := state.doc.Header

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Title").Value(&h.Title).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("title is required")
				}
				return nil
			}),
		huh.NewInput().Title("Number").Placeholder("ATA-001").Value(&h.Number),
		huh.NewInput().Title("Date").Value(&h.Date).Validate(validateDate),
		huh.NewInput().Title("Type").Value(&h.Type),
		huh.NewInput().Title("Owner").Value(&h.Owner),
		huh.NewInput().Title("Project").Value(&h.Project),
	)).WithTheme(ataHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return err
	}

	state.update(func() {
		state.doc.Header = h
		state.step = stepParticipants
	})
	return nil
}

func wizardParticipants(state *wizardState) error {
	for {
		more := len(state.doc.Participants) == 0
		prompt := "Add a participant?"
		if len(state.doc.Participants) > 0 {
			prompt = "Add another participant?"
		}
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().Title(prompt).Value(&more),
		)).WithTheme(ataHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return err
		}
		if !more {
			break
		}

		var p domain.Participant
		present := true
		form = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Name").Value(&p.Name).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().Title("E-mail").Value(&p.Email),
			huh.NewInput().Title("Company").Value(&p.Company),
			huh.NewInput().Title("Phone").Value(&p.Phone),
			huh.NewConfirm().Title("Present?").Affirmative("Present").Negative("Absent").Value(&present),
		)).WithTheme(ataHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return err
		}

		p.Attendance = domain.AttendanceAbsent
		if present {
			p.Attendance = domain.AttendancePresent
		}
		state.update(func() {
			state.doc.Participants = append(state.doc.Participants, p)
		})
	}

	state.update(func() { state.step = stepItems })
	return nil
}

func wizardItems(app *App, state *wizardState) error {
	var lastID string
	for {
		more := state.tree.Len() == 0
		prompt := "Add an item?"
		if state.tree.Len() > 0 {
			prompt = "Add another item?"
		}
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().Title(prompt).Value(&more),
		)).WithTheme(ataHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return err
		}
		if !more {
			break
		}

		asChild := false
		if lastID != "" {
			form = huh.NewForm(huh.NewGroup(
				huh.NewConfirm().Title("Sub-item of the previous item?").Value(&asChild),
			)).WithTheme(ataHuhTheme()).WithShowHelp(false)
			if err := form.Run(); err != nil {
				return err
			}
		}

		var desc, ownerName, due string
		status := string(domain.StatusPending)
		form = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Description").Value(&desc).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("description is required")
					}
					return nil
				}),
			huh.NewInput().Title("Owner").Placeholder(app.Config.Editor.DefaultOwner).Value(&ownerName),
			huh.NewInput().Title("Due date").Placeholder("YYYY-MM-DD").Value(&due).Validate(validateDate),
			huh.NewSelect[string]().Title("Status").
				Options(
					huh.NewOption("Pending", string(domain.StatusPending)),
					huh.NewOption("In Progress", string(domain.StatusInProgress)),
					huh.NewOption("Done", string(domain.StatusDone)),
					huh.NewOption("Cancelled", string(domain.StatusCancelled)),
					huh.NewOption("Info", string(domain.StatusInfo)),
				).
				Value(&status),
		)).WithTheme(ataHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return err
		}

		var duePtr *time.Time
		if due != "" {
			d, err := time.Parse("2006-01-02", due)
			if err == nil {
				duePtr = &d
			}
		}
		if ownerName == "" {
			ownerName = app.Config.Editor.DefaultOwner
		}

		state.update(func() {
			now := time.Now().UTC()
			var id string
			if asChild {
				id, _ = state.tree.AddChild(lastID, now)
			}
			if id == "" {
				id = state.tree.AddRoot(now)
			}
			it, _ := state.tree.Find(id)
			it.RecordUpdate(sanitize.RichText(desc), domain.Owner{Name: ownerName}, duePtr, domain.ItemStatus(status), now)
			lastID = id
		})
	}
	return nil
}

// validateDate accepts empty or a YYYY-MM-DD date string.
func validateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
