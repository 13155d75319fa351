// Package tui is the interactive account manager: a keyed card list
// kept in sync with the published state, vim-style navigation, and
// modal surfaces for editing, tagging, and destructive confirmation.
package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tokswap/tokswap/internal/model"
	"github.com/tokswap/tokswap/internal/scrape"
	"github.com/tokswap/tokswap/internal/session"
	"github.com/tokswap/tokswap/internal/storage"
	"github.com/tokswap/tokswap/internal/store"
)

// filterDebounce is how long typing in the filter input must pause
// before the filter is applied to the list.
const filterDebounce = 300 * time.Millisecond

// filterDebounceMsg fires when a filter keystroke's debounce window
// elapses. Only the latest sequence number applies.
type filterDebounceMsg struct {
	seq int
}

// statusKind is the severity of the status line.
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// App is the root bubbletea model.
type App struct {
	store *store.Store
	ctrl  *controller
	list  *listRenderer

	// reorderErr collects the persistence result of a completed
	// reorder gesture; the commit runs inside the reconciler callback.
	reorderErr *error

	keys   KeyMap
	styles Styles

	mode   Mode
	cursor int

	form    accountForm
	picker  tagPicker
	confirm confirmState
	tagForm tagForm

	tagCursor int // tag manager selection

	filterInput textinput.Model
	filterSeq   int

	pendingG   bool
	status     string
	statusKind statusKind
	theme      string

	width  int
	height int
}

// New wires the application model over its collaborators.
func New(ctx context.Context, st *store.Store, sg storage.Storage, ss session.Session, sc scrape.Scraper, theme string) App {
	ctrl := newController(ctx, st, sg, ss, sc)

	var reorderErr error
	list := newListRenderer(st, func(tokens []string) {
		reorderErr = ctrl.CommitReorder(tokens)
	})

	filter := textinput.New()
	filter.Placeholder = "filter by email"
	filter.CharLimit = 128

	if theme == "" {
		theme = "dark"
	}

	return App{
		store:       st,
		ctrl:        ctrl,
		list:        list,
		reorderErr:  &reorderErr,
		keys:        DefaultKeyMap(),
		styles:      StylesFor(theme),
		filterInput: filter,
		theme:       theme,
		width:       80,
		height:      24,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return textinput.Blink
}

// Cursor returns the selected row index.
func (a App) Cursor() int {
	return a.cursor
}

// CurrentMode returns the active interaction mode.
func (a App) CurrentMode() Mode {
	return a.mode
}

// Status returns the current status line.
func (a App) Status() string {
	return a.status
}

// VisibleTokens returns the rendered token order.
func (a App) VisibleTokens() []string {
	return a.list.mount.Tokens()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case filterDebounceMsg:
		if msg.seq == a.filterSeq {
			a.ctrl.SetFilterText(a.filterInput.Value())
			a.clampCursor()
		}
		return a, nil

	case tea.KeyMsg:
		a.status = ""
		switch a.mode {
		case ModeFilter:
			return a.updateFilter(msg)
		case ModeAccountModal:
			return a.updateAccountModal(msg)
		case ModeEditTags:
			return a.updateEditTags(msg)
		case ModeConfirm:
			return a.updateConfirm(msg)
		case ModeTagManager:
			return a.updateTagManager(msg)
		case ModeTagEdit:
			return a.updateTagEdit(msg)
		case ModeReorder:
			return a.updateReorder(msg)
		case ModeHelp:
			a.mode = ModeNormal
			return a, nil
		default:
			return a.updateNormal(msg)
		}
	}
	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.pendingG {
		a.pendingG = false
		if msg.String() == "g" {
			a.cursor = 0
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < a.list.mount.Len()-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Top):
		a.pendingG = true

	case key.Matches(msg, a.keys.Bottom):
		if n := a.list.mount.Len(); n > 0 {
			a.cursor = n - 1
		}

	case key.Matches(msg, a.keys.NextScope):
		a.cycleScope(1)

	case key.Matches(msg, a.keys.PrevScope):
		a.cycleScope(-1)

	case key.Matches(msg, a.keys.Switch):
		if acc := a.selectedAccount(); acc != nil {
			a.report(a.ctrl.SwitchAccount(acc.Token), "switched to "+acc.Email)
		}

	case key.Matches(msg, a.keys.YankToken):
		if acc := a.selectedAccount(); acc != nil {
			a.report(clipboard.WriteAll(acc.Token), "token copied")
		}

	case key.Matches(msg, a.keys.Add):
		a.form = newAccountForm()
		a.mode = ModeAccountModal

	case key.Matches(msg, a.keys.Edit):
		if acc := a.selectedAccount(); acc != nil {
			a.form = editAccountForm(*acc)
			a.mode = ModeAccountModal
		}

	case key.Matches(msg, a.keys.EditTags):
		if acc := a.selectedAccount(); acc != nil {
			if len(a.store.GetState().Tags) == 0 {
				a.inform("no tags yet; press T to create one")
				break
			}
			a.picker = newTagPicker(*acc)
			a.mode = ModeEditTags
		}

	case key.Matches(msg, a.keys.Delete):
		if acc := a.selectedAccount(); acc != nil {
			a.confirm = confirmState{
				kind:   confirmDeleteAccount,
				target: acc.Token,
				prompt: "Delete account " + acc.Email + "?",
			}
			a.mode = ModeConfirm
		}

	case key.Matches(msg, a.keys.Reorder):
		if a.list.sorter.Begin(a.cursor) {
			a.mode = ModeReorder
		}

	case key.Matches(msg, a.keys.Filter):
		a.filterInput.SetValue(a.store.GetState().Filter)
		a.filterInput.Focus()
		a.mode = ModeFilter
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Sync):
		status, err := a.ctrl.SyncActive()
		a.report(err, status)

	case key.Matches(msg, a.keys.Logout):
		a.report(a.ctrl.Logout(), "logged out")

	case key.Matches(msg, a.keys.TagManager):
		a.tagCursor = 0
		a.mode = ModeTagManager

	case key.Matches(msg, a.keys.ClearAll):
		a.confirm = confirmState{
			kind:   confirmClearAll,
			prompt: "Delete ALL accounts and tags?",
		}
		a.mode = ModeConfirm

	case key.Matches(msg, a.keys.Theme):
		if a.theme == "dark" {
			a.theme = "light"
		} else {
			a.theme = "dark"
		}
		a.styles = StylesFor(a.theme)
		a.report(a.ctrl.SaveTheme(a.theme), a.theme+" theme")

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

func (a App) updateReorder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		a.list.sorter.Shift(1)
		if a.cursor < a.list.mount.Len()-1 {
			a.cursor++
		}
	case "k", "up":
		a.list.sorter.Shift(-1)
		if a.cursor > 0 {
			a.cursor--
		}
	case "m", "enter", "esc":
		*a.reorderErr = nil
		if end := a.list.sorter.End(); end >= 0 {
			a.cursor = end
		}
		a.report(*a.reorderErr, "")
		a.mode = ModeNormal
	}
	return a, nil
}

func (a App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.filterInput.SetValue("")
		a.filterInput.Blur()
		a.filterSeq++
		a.ctrl.SetFilterText("")
		a.clampCursor()
		a.mode = ModeNormal
		return a, nil
	case "enter":
		a.filterInput.Blur()
		a.filterSeq++
		a.ctrl.SetFilterText(a.filterInput.Value())
		a.clampCursor()
		a.mode = ModeNormal
		return a, nil
	}

	var cmd tea.Cmd
	a.filterInput, cmd = a.filterInput.Update(msg)
	a.filterSeq++
	seq := a.filterSeq
	debounce := tea.Tick(filterDebounce, func(time.Time) tea.Msg {
		return filterDebounceMsg{seq: seq}
	})
	return a, tea.Batch(cmd, debounce)
}

func (a App) updateAccountModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = ModeNormal
		return a, nil
	case "tab", "shift+tab":
		a.form.next()
		return a, nil
	case "ctrl+g":
		// Grab the live session: prefill the token from the cookie
		// and the display fields from a scrape, when one lands.
		if a.form.editing {
			return a, nil
		}
		token, err := a.ctrl.ActiveFromSession()
		if err != nil || token == "" {
			a.inform("no active session to grab")
			return a, nil
		}
		a.form.inputs[fieldToken].SetValue(token)
		if res, err := a.ctrl.scraper.Scrape(a.ctrl.ctx); err == nil && res != nil {
			if res.Name != "" {
				a.form.inputs[fieldEmail].SetValue(res.Name)
			}
			if res.Plan != "" {
				a.form.inputs[fieldPlan].SetValue(res.Plan)
			}
		}
		return a, nil
	case "enter":
		token, email, plan := a.form.values()
		var err error
		if a.form.editing {
			err = a.ctrl.UpdateAccount(a.form.original, email, plan)
		} else {
			err = a.ctrl.SaveNewAccount(token, email, plan)
		}
		if err != nil {
			a.report(err, "")
			return a, nil
		}
		a.mode = ModeNormal
		a.clampCursor()
		return a, nil
	}

	var cmd tea.Cmd
	a.form.inputs[a.form.focus], cmd = a.form.inputs[a.form.focus].Update(msg)
	return a, cmd
}

func (a App) updateEditTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tags := a.store.GetState().Tags
	switch msg.String() {
	case "esc":
		a.mode = ModeNormal
	case "j", "down":
		if a.picker.cursor < len(tags)-1 {
			a.picker.cursor++
		}
	case "k", "up":
		if a.picker.cursor > 0 {
			a.picker.cursor--
		}
	case " ":
		if a.picker.cursor < len(tags) {
			id := tags[a.picker.cursor].ID
			a.picker.selected[id] = !a.picker.selected[id]
		}
	case "enter":
		err := a.ctrl.SetAccountTags(a.picker.token, a.picker.tagIDs(tags))
		a.report(err, "tags updated")
		a.mode = ModeNormal
		a.clampCursor()
	}
	return a, nil
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		switch a.confirm.kind {
		case confirmDeleteAccount:
			a.report(a.ctrl.DeleteAccount(a.confirm.target), "account deleted")
			a.mode = ModeNormal
		case confirmDeleteTag:
			a.report(a.ctrl.DeleteTag(a.confirm.target), "tag deleted")
			a.mode = ModeTagManager
			a.clampTagCursor()
		case confirmClearAll:
			a.report(a.ctrl.ClearAll(), "all data cleared")
			a.mode = ModeNormal
		}
		a.confirm = confirmState{}
		a.clampCursor()
	case "n", "esc", "q":
		if a.confirm.kind == confirmDeleteTag {
			a.mode = ModeTagManager
		} else {
			a.mode = ModeNormal
		}
		a.confirm = confirmState{}
	}
	return a, nil
}

func (a App) updateTagManager(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tags := a.store.GetState().Tags
	switch msg.String() {
	case "esc", "q", "T":
		a.mode = ModeNormal
	case "j", "down":
		if a.tagCursor < len(tags)-1 {
			a.tagCursor++
		}
	case "k", "up":
		if a.tagCursor > 0 {
			a.tagCursor--
		}
	case "a":
		a.tagForm = newTagForm()
		a.mode = ModeTagEdit
		return a, textinput.Blink
	case "e", "enter":
		if a.tagCursor < len(tags) {
			a.tagForm = editTagForm(tags[a.tagCursor])
			a.mode = ModeTagEdit
			return a, textinput.Blink
		}
	case "d":
		if a.tagCursor < len(tags) {
			t := tags[a.tagCursor]
			a.confirm = confirmState{
				kind:   confirmDeleteTag,
				target: t.ID,
				prompt: "Delete tag #" + t.Name + "? Accounts keep their other tags.",
			}
			a.mode = ModeConfirm
		}
	}
	return a, nil
}

func (a App) updateTagEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = ModeTagManager
		return a, nil
	case "tab":
		a.tagForm.colorIdx = (a.tagForm.colorIdx + 1) % len(TagPalette)
		return a, nil
	case "enter":
		name := a.tagForm.input.Value()
		color := TagPalette[a.tagForm.colorIdx]
		var err error
		if a.tagForm.editing != "" {
			err = a.ctrl.RenameTag(a.tagForm.editing, name, color)
		} else {
			err = a.ctrl.AddTag(name, color)
		}
		if err != nil {
			a.report(err, "")
			return a, nil
		}
		a.mode = ModeTagManager
		return a, nil
	}

	var cmd tea.Cmd
	a.tagForm.input, cmd = a.tagForm.input.Update(msg)
	return a, cmd
}

// scopeCycle returns the selectable filter scopes: all, untagged when
// an untagged account exists, then one per tag.
func scopeCycle(s store.State) []string {
	scopes := []string{store.FilterAll}
	for _, acc := range s.Accounts {
		if acc.Untagged() {
			scopes = append(scopes, store.FilterUntagged)
			break
		}
	}
	for _, t := range s.Tags {
		scopes = append(scopes, t.ID)
	}
	return scopes
}

// cycleScope steps the tag filter through the selectable scopes.
func (a *App) cycleScope(delta int) {
	s := a.store.GetState()
	scopes := scopeCycle(s)

	cur := 0
	for i, sc := range scopes {
		if sc == s.FilterTagID {
			cur = i
			break
		}
	}
	next := (cur + delta + len(scopes)) % len(scopes)
	a.report(a.ctrl.SetFilterTag(scopes[next]), "")
	a.clampCursor()
}

func (a *App) selectedAccount() *model.Account {
	if a.cursor < 0 || a.cursor >= a.list.mount.Len() {
		return nil
	}
	acc := a.list.mount.cards[a.cursor].acc
	return &acc
}

func (a *App) clampCursor() {
	if n := a.list.mount.Len(); a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) clampTagCursor() {
	if n := len(a.store.GetState().Tags); a.tagCursor >= n {
		a.tagCursor = n - 1
	}
	if a.tagCursor < 0 {
		a.tagCursor = 0
	}
}

// report sets the status line from an action result.
func (a *App) report(err error, ok string) {
	if err != nil {
		a.status = err.Error()
		a.statusKind = statusError
		return
	}
	if ok != "" {
		a.status = ok
		a.statusKind = statusSuccess
	}
}

func (a *App) inform(msg string) {
	a.status = msg
	a.statusKind = statusInfo
}
