package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tokswap/tokswap/internal/store"
)

// View implements tea.Model.
func (a App) View() string {
	s := a.store.GetState()

	var b strings.Builder
	b.WriteString(a.renderHeader(s))
	b.WriteString("\n")
	b.WriteString(a.renderFilterBar(s))
	b.WriteString("\n\n")

	switch a.mode {
	case ModeHelp:
		b.WriteString(a.renderHelp())
	case ModeAccountModal:
		b.WriteString(a.renderAccountModal())
	case ModeEditTags:
		b.WriteString(a.renderEditTags(s))
	case ModeConfirm:
		b.WriteString(a.renderConfirm())
	case ModeTagManager:
		b.WriteString(a.renderTagManager(s))
	case ModeTagEdit:
		b.WriteString(a.renderTagEdit())
	default:
		grabbed := -1
		if a.mode == ModeReorder {
			grabbed = a.list.sorter.cur
		}
		b.WriteString(a.list.render(a.styles, s, a.cursor, grabbed))
		if a.mode == ModeFilter {
			b.WriteString("\n\n")
			b.WriteString("/" + a.filterInput.View())
		}
	}

	b.WriteString("\n")
	if a.status != "" {
		b.WriteString("\n")
		switch a.statusKind {
		case statusError:
			b.WriteString(a.styles.StatusError.Render("✗ " + a.status))
		case statusSuccess:
			b.WriteString(a.styles.StatusOK.Render("✓ " + a.status))
		default:
			b.WriteString(a.styles.Empty.Render(a.status))
		}
	}
	b.WriteString("\n")
	b.WriteString(a.renderHints(a.mode))

	return a.styles.App.Render(b.String())
}

func (a App) renderHeader(s store.State) string {
	title := a.styles.Title.Render("tokswap")
	active := "no active session"
	if acc, ok := s.AccountByToken[s.ActiveToken]; ok {
		active = "active: " + acc.Email
	} else if s.ActiveToken != "" {
		active = "active: unknown session"
	}
	return title + "  " + a.styles.Token.Render(active)
}

// renderFilterBar draws the scope selector: All, Untagged, then one
// entry per tag.
func (a App) renderFilterBar(s store.State) string {
	current := s.FilterTagID
	if current == "" {
		current = store.FilterAll
	}

	var parts []string
	for _, id := range scopeCycle(s) {
		label := id
		switch id {
		case store.FilterAll:
			label = "All"
		case store.FilterUntagged:
			label = "Untagged"
		default:
			if t, ok := s.TagByID[id]; ok {
				label = "#" + t.Name
			}
		}
		if id == current {
			parts = append(parts, a.styles.FilterActive.Render(label))
		} else {
			parts = append(parts, a.styles.FilterItem.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) renderAccountModal() string {
	title := "Add account"
	if a.form.editing {
		title = "Edit account"
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render(title))
	b.WriteString("\n\n")
	labels := [fieldCount]string{"Token", "Email", "Plan"}
	for i := formField(0); i < fieldCount; i++ {
		b.WriteString(fmt.Sprintf("%-6s %s\n", labels[i], a.form.inputs[i].View()))
	}
	return a.styles.PaneActive.Render(b.String())
}

func (a App) renderEditTags(s store.State) string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Tags"))
	b.WriteString("\n\n")
	for i, t := range s.Tags {
		check := "[ ]"
		if a.picker.selected[t.ID] {
			check = "[x]"
		}
		line := fmt.Sprintf("%s #%s", check, t.Name)
		if i == a.picker.cursor {
			b.WriteString(a.styles.ItemSelected.Render(line))
		} else {
			b.WriteString(a.styles.Item.Render(line))
		}
		b.WriteString("\n")
	}
	return a.styles.PaneActive.Render(b.String())
}

func (a App) renderConfirm() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Confirm"))
	b.WriteString("\n\n")
	b.WriteString(a.confirm.prompt)
	b.WriteString("\n")
	return a.styles.PaneActive.Render(b.String())
}

func (a App) renderTagManager(s store.State) string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Tag manager"))
	b.WriteString("\n\n")
	if len(s.Tags) == 0 {
		b.WriteString(a.styles.Empty.Render("No tags. Press 'a' to create one."))
		b.WriteString("\n")
		return a.styles.PaneActive.Render(b.String())
	}
	for i, t := range s.Tags {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render("●")
		count := len(s.Orders[t.ID])
		line := fmt.Sprintf("%s #%s (%d)", swatch, t.Name, count)
		if i == a.tagCursor {
			b.WriteString(a.styles.ItemSelected.Render(line))
		} else {
			b.WriteString(a.styles.Item.Render(line))
		}
		b.WriteString("\n")
	}
	return a.styles.PaneActive.Render(b.String())
}

func (a App) renderTagEdit() string {
	title := "New tag"
	if a.tagForm.editing != "" {
		title = "Edit tag"
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString("Name  " + a.tagForm.input.View())
	b.WriteString("\n\nColor ")
	for i, c := range TagPalette {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
		if i == a.tagForm.colorIdx {
			b.WriteString("[" + dot + "]")
		} else {
			b.WriteString(" " + dot + " ")
		}
	}
	b.WriteString("\n")
	return a.styles.PaneActive.Render(b.String())
}

func (a App) renderHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n\n")
	for _, h := range helpText {
		b.WriteString(fmt.Sprintf("  %-8s %s\n", h[0], h[1]))
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Empty.Render("press any key to close"))
	return b.String()
}
