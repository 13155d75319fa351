package model

// Account represents a stored session token with display metadata.
// The token is the identity key and is never reassigned.
type Account struct {
	Token  string   `json:"token"`
	Email  string   `json:"email"`
	Plan   string   `json:"plan,omitempty"`
	TagIDs []string `json:"tagIds,omitempty"`
}

// Untagged reports whether the account carries no tags.
func (a Account) Untagged() bool {
	return len(a.TagIDs) == 0
}

// HasTag reports whether tagID is in the account's tag set.
func (a Account) HasTag(tagID string) bool {
	for _, id := range a.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// ShortToken returns the truncated display form of the token
// (first 10 and last 6 characters). Short tokens come back as-is.
func (a Account) ShortToken() string {
	if len(a.Token) <= 16 {
		return a.Token
	}
	return a.Token[:10] + "…" + a.Token[len(a.Token)-6:]
}
