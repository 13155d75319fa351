package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tokswap/tokswap/internal/model"
	"github.com/tokswap/tokswap/internal/order"
	"github.com/tokswap/tokswap/internal/scrape"
	"github.com/tokswap/tokswap/internal/session"
	"github.com/tokswap/tokswap/internal/storage"
	"github.com/tokswap/tokswap/internal/store"
	"github.com/tokswap/tokswap/internal/view"
)

var (
	errTokenTooShort = fmt.Errorf("token must be at least %d characters", model.MinTokenLen)
	errDuplicate     = errors.New("an account with this token already exists")
	errTagName       = errors.New("tag name must not be empty")
	errTagExists     = errors.New("a tag with this name already exists")
)

// controller executes state mutations. Every mutation persists through
// storage first and publishes to the store only after the write
// succeeds, so the UI never shows state that isn't on disk. Text fields
// are stored exactly as typed; escaping happens where markup is
// generated, in the exporter.
type controller struct {
	store   *store.Store
	storage storage.Storage
	session session.Session
	scraper scrape.Scraper
	ctx     context.Context
}

func newController(ctx context.Context, st *store.Store, sg storage.Storage, ss session.Session, sc scrape.Scraper) *controller {
	return &controller{store: st, storage: sg, session: ss, scraper: sc, ctx: ctx}
}

// SwitchAccount rewrites the session cookie to the given token.
func (c *controller) SwitchAccount(token string) error {
	if err := c.session.SetActive(c.ctx, token); err != nil {
		return err
	}
	c.store.SetState(store.Patch{ActiveToken: store.Ptr(token)})
	return nil
}

// Logout clears the session cookie.
func (c *controller) Logout() error {
	if err := c.session.Clear(c.ctx); err != nil {
		return err
	}
	c.store.SetState(store.Patch{ActiveToken: store.Ptr("")})
	return nil
}

// ActiveFromSession reads the cookie, for prefilling the add modal.
func (c *controller) ActiveFromSession() (string, error) {
	return c.session.Active(c.ctx)
}

// SaveNewAccount validates and appends an account, recording it in the
// ordering index.
func (c *controller) SaveNewAccount(token, email, plan string) error {
	token = strings.TrimSpace(token)
	email = strings.TrimSpace(email)
	plan = strings.TrimSpace(plan)
	if len(token) < model.MinTokenLen {
		return errTokenTooShort
	}
	if email == "" {
		email = "unnamed"
	}

	s := c.store.GetState()
	if _, ok := s.AccountByToken[token]; ok {
		return errDuplicate
	}

	acc := model.Account{
		Token: token,
		Email: email,
		Plan:  plan,
	}
	accounts := append(append([]model.Account(nil), s.Accounts...), acc)
	orders := order.Add(s.Orders, acc)

	if err := storage.SaveValues(c.ctx, c.storage, map[string]any{
		storage.KeyAccounts: accounts,
		storage.KeyOrders:   orders,
	}); err != nil {
		return err
	}
	c.store.SetState(store.Patch{
		Accounts: store.Ptr(accounts),
		Orders:   store.Ptr(orders),
	})
	return nil
}

// UpdateAccount changes the display fields of an existing account. The
// token is the identity and never changes here.
func (c *controller) UpdateAccount(token, email, plan string) error {
	email = strings.TrimSpace(email)
	plan = strings.TrimSpace(plan)
	if email == "" {
		email = "unnamed"
	}

	s := c.store.GetState()
	accounts := append([]model.Account(nil), s.Accounts...)
	found := false
	for i := range accounts {
		if accounts[i].Token == token {
			accounts[i].Email = email
			accounts[i].Plan = plan
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no account for token %q", token)
	}

	if err := storage.SaveValues(c.ctx, c.storage, map[string]any{
		storage.KeyAccounts: accounts,
	}); err != nil {
		return err
	}
	c.store.SetState(store.Patch{Accounts: store.Ptr(accounts)})
	return nil
}

// SetAccountTags replaces an account's tag set and adjusts scope
// membership for the changed tags.
func (c *controller) SetAccountTags(token string, tagIDs []string) error {
	s := c.store.GetState()
	accounts := append([]model.Account(nil), s.Accounts...)
	var oldTags []string
	found := false
	for i := range accounts {
		if accounts[i].Token == token {
			oldTags = accounts[i].TagIDs
			accounts[i].TagIDs = tagIDs
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no account for token %q", token)
	}

	orders := order.Retag(s.Orders, token, oldTags, tagIDs)

	if err := storage.SaveValues(c.ctx, c.storage, map[string]any{
		storage.KeyAccounts: accounts,
		storage.KeyOrders:   orders,
	}); err != nil {
		return err
	}
	c.store.SetState(store.Patch{
		Accounts: store.Ptr(accounts),
		Orders:   store.Ptr(orders),
	})
	return c.maybeResetFilter()
}

// DeleteAccount removes an account and strikes it from every scope.
// The session cookie is untouched even when the deleted account is the
// active one; the service-side session stays valid until logout.
func (c *controller) DeleteAccount(token string) error {
	s := c.store.GetState()
	accounts := make([]model.Account, 0, len(s.Accounts))
	for _, acc := range s.Accounts {
		if acc.Token != token {
			accounts = append(accounts, acc)
		}
	}
	orders := order.RemoveAccount(s.Orders, token)

	if err := storage.SaveValues(c.ctx, c.storage, map[string]any{
		storage.KeyAccounts: accounts,
		storage.KeyOrders:   orders,
	}); err != nil {
		return err
	}
	c.store.SetState(store.Patch{
		Accounts: store.Ptr(accounts),
		Orders:   store.Ptr(orders),
	})
	return c.maybeResetFilter()
}

// AddTag creates a tag. Names are unique on creation.
func (c *controller) AddTag(name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errTagName
	}
	s := c.store.GetState()
	for _, t := range s.Tags {
		if strings.EqualFold(t.Name, name) {
			return errTagExists
		}
	}

	tag := model.NewTag(name, color)
	tags := append(append([]model.Tag(nil), s.Tags...), tag)
	orders := s.Orders.Clone()
	orders[tag.ID] = []string{}

	if err := storage.SaveValues(c.ctx, c.storage, map[string]any{
		storage.KeyTags:   tags,
		storage.KeyOrders: orders,
	}); err != nil {
		return err
	}
	c.store.SetState(store.Patch{
		Tags:   store.Ptr(tags),
		Orders: store.Ptr(orders),
	})
	return nil
}

// RenameTag updates a tag's name and color. Uniqueness is not
// re-checked on rename; two tags may end up sharing a name.
func (c *controller) RenameTag(id, name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errTagName
	}
	s := c.store.GetState()
	tags := append([]model.Tag(nil), s.Tags...)
	found := false
	for i := range tags {
		if tags[i].ID == id {
			tags[i].Name = name
			tags[i].Color = color
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no tag %q", id)
	}

	if err := storage.SaveValues(c.ctx, c.storage, map[string]any{
		storage.KeyTags: tags,
	}); err != nil {
		return err
	}
	c.store.SetState(store.Patch{Tags: store.Ptr(tags)})
	return nil
}

// DeleteTag removes a tag, strips it from every account, drops its
// scope, and moves newly untagged accounts into the untagged scope.
// A filter pointing at the deleted tag falls back to "all".
func (c *controller) DeleteTag(id string) error {
	s := c.store.GetState()

	tags := make([]model.Tag, 0, len(s.Tags))
	for _, t := range s.Tags {
		if t.ID != id {
			tags = append(tags, t)
		}
	}

	accounts := append([]model.Account(nil), s.Accounts...)
	orders := s.Orders
	for i := range accounts {
		if !accounts[i].HasTag(id) {
			continue
		}
		oldTags := accounts[i].TagIDs
		newTags := make([]string, 0, len(oldTags)-1)
		for _, tid := range oldTags {
			if tid != id {
				newTags = append(newTags, tid)
			}
		}
		accounts[i].TagIDs = newTags
		orders = order.Retag(orders, accounts[i].Token, oldTags, newTags)
	}
	orders = order.RemoveScope(orders, id)

	filter := s.FilterTagID
	if filter == id {
		filter = store.FilterAll
	}

	if err := storage.SaveValues(c.ctx, c.storage, map[string]any{
		storage.KeyAccounts: accounts,
		storage.KeyTags:     tags,
		storage.KeyOrders:   orders,
		storage.KeyFilter:   filter,
	}); err != nil {
		return err
	}
	c.store.SetState(store.Patch{
		Accounts:    store.Ptr(accounts),
		Tags:        store.Ptr(tags),
		Orders:      store.Ptr(orders),
		FilterTagID: store.Ptr(filter),
	})
	return nil
}

// SetFilterTag selects a tag scope and persists the selection.
func (c *controller) SetFilterTag(id string) error {
	if err := storage.SaveValues(c.ctx, c.storage, map[string]any{
		storage.KeyFilter: id,
	}); err != nil {
		return err
	}
	c.store.SetState(store.Patch{FilterTagID: store.Ptr(id)})
	return nil
}

// SetFilterText applies the free-text filter. It is view state and is
// never persisted.
func (c *controller) SetFilterText(text string) {
	c.store.SetState(store.Patch{Filter: store.Ptr(text)})
}

// ClearAll wipes accounts, tags, and the ordering index. The session
// cookie survives.
func (c *controller) ClearAll() error {
	accounts := []model.Account{}
	tags := []model.Tag{}
	orders := order.Orders{
		order.ScopeAll:      {},
		order.ScopeUntagged: {},
	}
	filter := store.FilterAll

	if err := storage.SaveValues(c.ctx, c.storage, map[string]any{
		storage.KeyAccounts: accounts,
		storage.KeyTags:     tags,
		storage.KeyOrders:   orders,
		storage.KeyFilter:   filter,
	}); err != nil {
		return err
	}
	c.store.SetState(store.Patch{
		Accounts:    store.Ptr(accounts),
		Tags:        store.Ptr(tags),
		Orders:      store.Ptr(orders),
		FilterTagID: store.Ptr(filter),
		Filter:      store.Ptr(""),
	})
	return nil
}

// CommitReorder persists the captured order for the scope currently in
// view, wholesale.
func (c *controller) CommitReorder(tokens []string) error {
	s := c.store.GetState()
	orders := order.Replace(s.Orders, order.Key(s.FilterTagID), tokens)

	if err := storage.SaveValues(c.ctx, c.storage, map[string]any{
		storage.KeyOrders: orders,
	}); err != nil {
		return err
	}
	c.store.SetState(store.Patch{Orders: store.Ptr(orders)})
	return nil
}

// SyncActive scrapes the service page for the logged-in account and
// refreshes its display fields. Best effort: a scrape miss is reported
// but changes nothing.
func (c *controller) SyncActive() (string, error) {
	token, err := c.session.Active(c.ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("not logged in")
	}
	s := c.store.GetState()
	acc, ok := s.AccountByToken[token]
	if !ok {
		return "", errors.New("active session is not a saved account")
	}

	res, err := c.scraper.Scrape(c.ctx)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "could not detect account details", nil
	}

	email := acc.Email
	if res.Name != "" {
		email = res.Name
	}
	plan := acc.Plan
	if res.Plan != "" {
		plan = res.Plan
	}
	if err := c.UpdateAccount(token, email, plan); err != nil {
		return "", err
	}
	if res.Limit != "" {
		return fmt.Sprintf("synced %s; usage limit: %s", email, res.Limit), nil
	}
	return fmt.Sprintf("synced %s", email), nil
}

// SaveTheme persists the theme selection.
func (c *controller) SaveTheme(theme string) error {
	return storage.SaveValues(c.ctx, c.storage, map[string]any{
		storage.KeyTheme: theme,
	})
}

// maybeResetFilter falls back to "all" when a mutation empties the tag
// scope currently in view, so the user is never stranded on an empty
// filter.
func (c *controller) maybeResetFilter() error {
	s := c.store.GetState()
	switch s.FilterTagID {
	case "", store.FilterAll:
		return nil
	}
	if !view.ScopeEmpty(s.Accounts, s.FilterTagID) {
		return nil
	}
	return c.SetFilterTag(store.FilterAll)
}
