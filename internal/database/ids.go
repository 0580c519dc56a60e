package database

import "github.com/google/uuid"

// CanonicalID returns id in the lowercase hyphenated form rows are stored
// with. Any other uuid spelling (upper case, braces, urn:uuid:) is rewritten;
// ok is false when id is not a uuid at all.
func CanonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
