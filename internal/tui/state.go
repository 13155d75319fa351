package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/tokswap/tokswap/internal/model"
)

// Mode identifies the active interaction surface.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeAccountModal
	ModeEditTags
	ModeConfirm
	ModeTagManager
	ModeTagEdit
	ModeReorder
	ModeHelp
)

// formField indexes the account modal inputs.
type formField int

const (
	fieldToken formField = iota
	fieldEmail
	fieldPlan
	fieldCount
)

// accountForm is the add/edit account modal state. When editing,
// original holds the token identifying the account being changed and
// the token field is read-only.
type accountForm struct {
	inputs   [fieldCount]textinput.Model
	focus    formField
	editing  bool
	original string
}

func newAccountForm() accountForm {
	var f accountForm
	for i := range f.inputs {
		f.inputs[i] = textinput.New()
		f.inputs[i].CharLimit = 256
	}
	f.inputs[fieldToken].Placeholder = "session token"
	f.inputs[fieldEmail].Placeholder = "email"
	f.inputs[fieldPlan].Placeholder = "plan (optional)"
	f.inputs[fieldToken].Focus()
	return f
}

func editAccountForm(acc model.Account) accountForm {
	f := newAccountForm()
	f.editing = true
	f.original = acc.Token
	f.inputs[fieldToken].SetValue(acc.Token)
	f.inputs[fieldEmail].SetValue(acc.Email)
	f.inputs[fieldPlan].SetValue(acc.Plan)
	f.inputs[fieldToken].Blur()
	f.inputs[fieldEmail].Focus()
	f.focus = fieldEmail
	return f
}

func (f *accountForm) next() {
	f.inputs[f.focus].Blur()
	for {
		f.focus = (f.focus + 1) % fieldCount
		if f.editing && f.focus == fieldToken {
			continue
		}
		break
	}
	f.inputs[f.focus].Focus()
}

func (f *accountForm) values() (token, email, plan string) {
	return f.inputs[fieldToken].Value(),
		f.inputs[fieldEmail].Value(),
		f.inputs[fieldPlan].Value()
}

// tagPicker is the edit-tags overlay: toggle membership of the target
// account in each tag.
type tagPicker struct {
	token    string
	cursor   int
	selected map[string]bool
}

func newTagPicker(acc model.Account) tagPicker {
	sel := make(map[string]bool, len(acc.TagIDs))
	for _, id := range acc.TagIDs {
		sel[id] = true
	}
	return tagPicker{token: acc.Token, selected: sel}
}

// tagIDs resolves the selection back to an ordered ID list, following
// the tag collection's order.
func (p tagPicker) tagIDs(tags []model.Tag) []string {
	var ids []string
	for _, t := range tags {
		if p.selected[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// confirmKind is what a pending confirmation will do.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDeleteAccount
	confirmDeleteTag
	confirmClearAll
)

// confirmState is a pending destructive action awaiting y/n.
type confirmState struct {
	kind   confirmKind
	target string // account token or tag ID
	prompt string
}

// tagForm is the tag create/rename modal state.
type tagForm struct {
	input    textinput.Model
	colorIdx int
	editing  string // tag ID being renamed, "" when creating
}

func newTagForm() tagForm {
	in := textinput.New()
	in.Placeholder = "tag name"
	in.CharLimit = 64
	in.Focus()
	return tagForm{input: in}
}

func editTagForm(t model.Tag) tagForm {
	f := newTagForm()
	f.editing = t.ID
	f.input.SetValue(t.Name)
	for i, c := range TagPalette {
		if c == t.Color {
			f.colorIdx = i
			break
		}
	}
	return f
}
