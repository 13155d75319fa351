package storage

import (
	"context"
	"encoding/json"

	"github.com/tokswap/tokswap/internal/model"
	"github.com/tokswap/tokswap/internal/order"
)

// Snapshot is the typed view of the persisted state slices.
type Snapshot struct {
	Accounts    []model.Account
	Tags        []model.Tag
	Orders      order.Orders
	FilterTagID string
	Theme       string
}

// LoadSnapshot reads and decodes all state slices. Missing keys come
// back zero-valued; a corrupt value is a load error.
func LoadSnapshot(ctx context.Context, s Storage) (*Snapshot, error) {
	raw, err := s.Load(ctx, []string{KeyAccounts, KeyTags, KeyOrders, KeyFilter, KeyTheme})
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Accounts: []model.Account{},
		Tags:     []model.Tag{},
		Orders:   order.Orders{},
	}
	if v, ok := raw[KeyAccounts]; ok {
		if err := json.Unmarshal(v, &snap.Accounts); err != nil {
			return nil, &Error{Op: "load", Key: KeyAccounts, Err: err}
		}
	}
	if v, ok := raw[KeyTags]; ok {
		if err := json.Unmarshal(v, &snap.Tags); err != nil {
			return nil, &Error{Op: "load", Key: KeyTags, Err: err}
		}
	}
	if v, ok := raw[KeyOrders]; ok {
		if err := json.Unmarshal(v, &snap.Orders); err != nil {
			return nil, &Error{Op: "load", Key: KeyOrders, Err: err}
		}
	}
	if v, ok := raw[KeyFilter]; ok {
		if err := json.Unmarshal(v, &snap.FilterTagID); err != nil {
			return nil, &Error{Op: "load", Key: KeyFilter, Err: err}
		}
	}
	if v, ok := raw[KeyTheme]; ok {
		if err := json.Unmarshal(v, &snap.Theme); err != nil {
			return nil, &Error{Op: "load", Key: KeyTheme, Err: err}
		}
	}
	if snap.Accounts == nil {
		snap.Accounts = []model.Account{}
	}
	if snap.Tags == nil {
		snap.Tags = []model.Tag{}
	}
	if snap.Orders == nil {
		snap.Orders = order.Orders{}
	}

	return snap, nil
}

// SaveValues encodes and saves the given typed values under their
// keys in one write.
func SaveValues(ctx context.Context, s Storage, values map[string]any) error {
	raw := make(map[string]json.RawMessage, len(values))
	for key, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return &Error{Op: "save", Key: key, Err: err}
		}
		raw[key] = data
	}
	return s.Save(ctx, raw)
}
