package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tokswap/tokswap/internal/model"
	"github.com/tokswap/tokswap/internal/order"
	"github.com/tokswap/tokswap/internal/reconcile"
	"github.com/tokswap/tokswap/internal/store"
	"github.com/tokswap/tokswap/internal/view"
)

// card is one rendered account row. It keeps its identity across
// re-renders so reorder state survives refreshes of the same account.
type card struct {
	acc model.Account
}

// Update implements reconcile.Component.
func (c *card) Update(acc model.Account) {
	c.acc = acc
}

func (c *card) render(st Styles, tagByID map[string]model.Tag, selected, active, grabbed bool) string {
	var b strings.Builder

	marker := " "
	if active {
		marker = "●"
	}
	if grabbed {
		marker = "≡"
	}

	line := fmt.Sprintf("%s %s", marker, c.acc.Email)
	switch {
	case selected:
		b.WriteString(st.ItemSelected.Render(line))
	case active:
		b.WriteString(st.ItemActive.Render(line))
	default:
		b.WriteString(st.Item.Render(line))
	}
	if c.acc.Plan != "" {
		b.WriteString(" " + st.Badge.Render(c.acc.Plan))
	}

	b.WriteString("\n")
	b.WriteString(st.Token.Render("   " + c.acc.ShortToken()))
	for _, tagID := range c.acc.TagIDs {
		tag, ok := tagByID[tagID]
		if !ok {
			continue
		}
		chip := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render("#" + tag.Name)
		b.WriteString(" " + chip)
	}

	return b.String()
}

// listMount is the rendered account list the reconciler mutates.
type listMount struct {
	cards []*card
}

func (m *listMount) InsertAt(index int, c reconcile.Component) {
	cd := c.(*card)
	m.cards = append(m.cards, nil)
	copy(m.cards[index+1:], m.cards[index:])
	m.cards[index] = cd
}

func (m *listMount) RemoveAt(index int) {
	m.cards = append(m.cards[:index], m.cards[index+1:]...)
}

func (m *listMount) Move(from, to int) {
	cd := m.cards[from]
	m.cards = append(m.cards[:from], m.cards[from+1:]...)
	m.cards = append(m.cards, nil)
	copy(m.cards[to+1:], m.cards[to:])
	m.cards[to] = cd
}

func (m *listMount) Clear() {
	m.cards = nil
}

func (m *listMount) Len() int {
	return len(m.cards)
}

// Tokens returns the current rendered token order.
func (m *listMount) Tokens() []string {
	tokens := make([]string, len(m.cards))
	for i, c := range m.cards {
		tokens[i] = c.acc.Token
	}
	return tokens
}

// keyboardSorter is the terminal stand-in for a drag handle: a grab
// gesture picks up the selected card, j/k carries it, and ending the
// gesture commits the captured order. It is attached only while the
// list is non-empty.
type keyboardSorter struct {
	mount  *listMount
	commit func(oldIndex, newIndex int, tokens []string)

	active bool
	start  int
	cur    int
}

func (s *keyboardSorter) Attach(commit func(oldIndex, newIndex int, tokens []string)) {
	s.commit = commit
}

func (s *keyboardSorter) Detach() {
	s.commit = nil
	s.active = false
}

// Attached reports whether the reorder behavior is available.
func (s *keyboardSorter) Attached() bool {
	return s.commit != nil
}

// Begin grabs the card at index. No-op when nothing is attached.
func (s *keyboardSorter) Begin(index int) bool {
	if s.commit == nil || index < 0 || index >= s.mount.Len() {
		return false
	}
	s.active = true
	s.start = index
	s.cur = index
	return true
}

// Shift carries the grabbed card by delta positions, clamped to the
// list bounds.
func (s *keyboardSorter) Shift(delta int) {
	if !s.active {
		return
	}
	to := s.cur + delta
	if to < 0 || to >= s.mount.Len() {
		return
	}
	s.mount.Move(s.cur, to)
	s.cur = to
}

// End finishes the gesture and reports its endpoints with the final
// order. A gesture that ends where it started is discarded by the
// receiver.
func (s *keyboardSorter) End() int {
	if !s.active {
		return -1
	}
	s.active = false
	if s.commit != nil {
		s.commit(s.start, s.cur, s.mount.Tokens())
	}
	return s.cur
}

// listRenderer owns the rendered list and keeps it reconciled against
// the published state. It subscribes once and re-applies on every
// store notification.
type listRenderer struct {
	mount  *listMount
	sorter *keyboardSorter
	rec    *reconcile.Reconciler

	lastOps reconcile.Ops
}

func newListRenderer(st *store.Store, onReorder func(tokens []string)) *listRenderer {
	mount := &listMount{}
	sorter := &keyboardSorter{mount: mount}
	r := &listRenderer{mount: mount, sorter: sorter}
	r.rec = reconcile.New(mount, func(acc model.Account) reconcile.Component {
		return &card{acc: acc}
	}, sorter, onReorder)

	st.Subscribe(func(s store.State) {
		r.lastOps = r.rec.Apply(view.Visible(s.Accounts, s.FilterTagID, s.Filter, s.Orders))
	})

	// Render the initial state before the first notification.
	init := st.GetState()
	r.lastOps = r.rec.Apply(view.Visible(init.Accounts, init.FilterTagID, init.Filter, init.Orders))

	return r
}

// render draws the card list. cursor is the selected row; grabbed
// marks the row carried by an in-flight reorder gesture (-1 for none).
func (r *listRenderer) render(st Styles, s store.State, cursor, grabbed int) string {
	if r.mount.Len() == 0 {
		if s.Filter != "" {
			return st.Empty.Render("No accounts match the filter.")
		}
		if order.Key(s.FilterTagID) != order.ScopeAll {
			return st.Empty.Render("No accounts in this scope.")
		}
		return st.Empty.Render("No accounts yet. Press 'a' to add one.")
	}

	rows := make([]string, 0, r.mount.Len())
	for i, c := range r.mount.cards {
		rows = append(rows, c.render(st, s.TagByID,
			i == cursor,
			c.acc.Token == s.ActiveToken && s.ActiveToken != "",
			i == grabbed,
		))
	}
	return strings.Join(rows, "\n")
}
