package model

// MinTokenLen is the minimum token length accepted on import.
const MinTokenLen = 10

// ValidateRecord checks a decoded JSON value against the account
// shape: string token of at least MinTokenLen, string email, and
// tagIds either absent or an array. It is the sole gate for
// externally supplied records.
func ValidateRecord(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	token, ok := obj["token"].(string)
	if !ok || len(token) < MinTokenLen {
		return false
	}
	if _, ok := obj["email"].(string); !ok {
		return false
	}
	if raw, present := obj["tagIds"]; present && raw != nil {
		if _, ok := raw.([]any); !ok {
			return false
		}
	}
	return true
}

// ValidateAccount applies the same rules to an already-typed account.
func ValidateAccount(a Account) bool {
	return len(a.Token) >= MinTokenLen
}
