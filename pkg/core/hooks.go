package core

// Hooks are the mutation extension points of a repository.
//
// Will* hooks on add and replace may veto the mutation by returning false.
// Removal cannot be vetoed: WillRemoveItem is observation only.
// Hooks run synchronously on the caller's goroutine.
type Hooks[T Item] interface {
	// ReloadComplete runs after a successful reload, with a snapshot of the
	// loaded items. It is the place to rebuild secondary indexes.
	ReloadComplete(items []T)

	WillAddNewItem(item T) bool
	DidAddNewItem(item T)

	WillReplaceItem(old, replacement T) bool
	DidReplaceItem(old, replacement T)

	WillRemoveItem(item T)
	DidRemoveItem(item T)
}

// NopHooks implements Hooks with no side effects and never vetoes.
// Embed it to override only the hooks you need.
type NopHooks[T Item] struct{}

func (NopHooks[T]) ReloadComplete([]T) {}
func (NopHooks[T]) WillAddNewItem(T) bool { return true }
func (NopHooks[T]) DidAddNewItem(T) {}
func (NopHooks[T]) WillReplaceItem(_, _ T) bool { return true }
func (NopHooks[T]) DidReplaceItem(_, _ T) {}
func (NopHooks[T]) WillRemoveItem(T) {}
func (NopHooks[T]) DidRemoveItem(T) {}

var _ Hooks[Item] = NopHooks[Item]{}
