package domain

// Cache is the in-process lookup table the URL service consults before the
// repository. Implementations must be safe for concurrent use and must not
// let callers mutate stored records.
type Cache interface {
	// Get returns the record cached under shortCode, if still fresh.
	Get(shortCode string) (*URL, bool)

	// Set stores url under its short code, replacing any previous entry.
	Set(url *URL)

	// Delete removes a record from the cache
	Delete(shortCode string)

	// Clear drops every entry
	Clear()

	// Len reports the current number of entries
	Len() int
}
