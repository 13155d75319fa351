package model

// BuildAccountMap returns an O(1) token → account lookup map.
// Rebuilt whenever the account collection changes.
func BuildAccountMap(accounts []Account) map[string]Account {
	m := make(map[string]Account, len(accounts))
	for _, acc := range accounts {
		m[acc.Token] = acc
	}
	return m
}

// BuildTagMap returns an O(1) id → tag lookup map.
func BuildTagMap(tags []Tag) map[string]Tag {
	m := make(map[string]Tag, len(tags))
	for _, tag := range tags {
		m[tag.ID] = tag
	}
	return m
}
