package tui

import "strings"

// Hint is one key/action pair shown in the footer.
type Hint struct {
	Key  string
	Desc string
}

// hintsFor returns the footer hints for a mode. Normal mode shows the
// short set; the full reference lives behind '?'.
func hintsFor(mode Mode) []Hint {
	switch mode {
	case ModeFilter:
		return []Hint{
			{"enter", "apply"},
			{"esc", "clear"},
		}
	case ModeAccountModal:
		return []Hint{
			{"tab", "next field"},
			{"ctrl+g", "grab session"},
			{"enter", "save"},
			{"esc", "cancel"},
		}
	case ModeEditTags:
		return []Hint{
			{"j/k", "move"},
			{"space", "toggle"},
			{"enter", "save"},
			{"esc", "cancel"},
		}
	case ModeConfirm:
		return []Hint{
			{"y", "confirm"},
			{"n", "cancel"},
		}
	case ModeTagManager:
		return []Hint{
			{"j/k", "move"},
			{"a", "add"},
			{"e", "edit"},
			{"d", "delete"},
			{"esc", "back"},
		}
	case ModeTagEdit:
		return []Hint{
			{"tab", "cycle color"},
			{"enter", "save"},
			{"esc", "cancel"},
		}
	case ModeReorder:
		return []Hint{
			{"j/k", "move card"},
			{"m/enter", "done"},
		}
	default:
		return []Hint{
			{"j/k", "move"},
			{"enter", "switch"},
			{"a", "add"},
			{"m", "reorder"},
			{"/", "filter"},
			{"?", "help"},
			{"q", "quit"},
		}
	}
}

func (a App) renderHints(mode Mode) string {
	hints := hintsFor(mode)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return a.styles.Help.Render(strings.Join(parts, "  ·  "))
}

// helpText is the full key reference behind '?'.
var helpText = [][2]string{
	{"j/k", "move selection"},
	{"gg/G", "top / bottom"},
	{"h/l", "cycle tag filter"},
	{"enter", "switch to account"},
	{"y", "copy token to clipboard"},
	{"a", "add account"},
	{"e", "edit account"},
	{"t", "edit account tags"},
	{"d", "delete account"},
	{"m", "reorder mode"},
	{"/", "filter by email"},
	{"s", "sync active account from page"},
	{"L", "logout"},
	{"T", "tag manager"},
	{"C", "clear all data"},
	{"B", "toggle theme"},
	{"q", "quit"},
}
