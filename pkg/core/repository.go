package core

// Store defines the contract of a keyed repository persisted to a single
// index file.
//
// Implementations are NOT safe for concurrent use. Callers that share a
// store between goroutines must serialize access themselves (see package
// locked for a ready-made decorator).
type Store[T Item] interface {
	// Reload replaces the in-memory entries with the content of the index
	// file. A missing file yields an empty store.
	Reload() error

	// Flush writes every entry to the index file in a single write.
	Flush() error

	// Destroy removes the index file and clears the entries.
	Destroy() error

	ItemCount() int

	// AllItems returns a snapshot of the current items.
	AllItems() []T

	HasItemWithKey(key string) bool

	// ItemForKey returns the item stored under key, if any.
	ItemForKey(key string) (T, bool)

	// AddItem inserts or replaces an item.
	AddItem(item T) error

	// RemoveItemWithKey removes the item stored under key. Missing keys are ignored.
	RemoveItemWithKey(key string)
}

// Compactor is implemented by stores that can evict expired items.
type Compactor interface {
	// Compact evicts every expired item and returns how many were removed.
	Compact() int
}
