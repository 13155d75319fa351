// Package importer merges externally supplied account records into
// the collection. Records that fail validation are dropped silently;
// only the aggregate added count is reported.
package importer

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/tokswap/tokswap/internal/model"
)

// ErrFormat is returned when the input is not valid JSON in either
// accepted shape.
var ErrFormat = errors.New("import: unrecognized format")

// Merge parses r and appends every valid, non-duplicate record to
// existing. Accepted shapes: a record sequence
// [{email, token, plan?, tagIds?}] and the legacy object map
// {email: token}. Returns the merged collection and how many records
// were added.
func Merge(existing []model.Account, r io.Reader) ([]model.Account, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}

	records, err := decode(data)
	if err != nil {
		return nil, 0, err
	}

	merged := append([]model.Account(nil), existing...)
	seen := make(map[string]bool, len(merged))
	for _, acc := range merged {
		seen[acc.Token] = true
	}

	added := 0
	for _, rec := range records {
		normalized := normalize(rec)
		if !model.ValidateRecord(normalized) {
			continue
		}
		acc := toAccount(normalized)
		if seen[acc.Token] {
			continue
		}
		merged = append(merged, acc)
		seen[acc.Token] = true
		added++
	}

	return merged, added, nil
}

// decode accepts the record-sequence shape or the legacy map shape,
// normalizing the latter into records.
func decode(data []byte) ([]map[string]any, error) {
	var arr []map[string]any
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr, nil
	}

	var legacy map[string]any
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, ErrFormat
	}
	records := make([]map[string]any, 0, len(legacy))
	for email, token := range legacy {
		records = append(records, map[string]any{
			"email": email,
			"token": token,
		})
	}
	return records, nil
}

// normalize maps field aliases onto the canonical record shape.
func normalize(rec map[string]any) map[string]any {
	out := map[string]any{}

	email, _ := rec["email"].(string)
	if email == "" {
		email, _ = rec["name"].(string)
	}
	if email == "" {
		email = "unnamed"
	}
	out["email"] = email

	if token, ok := rec["token"].(string); ok {
		out["token"] = token
	} else if key, ok := rec["key"].(string); ok {
		out["token"] = key
	}

	if plan, ok := rec["plan"].(string); ok {
		out["plan"] = plan
	}
	if tagIDs, present := rec["tagIds"]; present {
		out["tagIds"] = tagIDs
	}

	return out
}

func toAccount(rec map[string]any) model.Account {
	acc := model.Account{
		Token: rec["token"].(string),
		Email: rec["email"].(string),
	}
	if plan, ok := rec["plan"].(string); ok {
		acc.Plan = plan
	}
	if raw, ok := rec["tagIds"].([]any); ok {
		for _, v := range raw {
			if id, ok := v.(string); ok {
				acc.TagIDs = append(acc.TagIDs, id)
			}
		}
	}
	return acc
}
