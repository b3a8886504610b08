/*
Package suggest turns dictionary lookups into ranked suggestions for a typed
word.

Completions list the most frequent words starting with the input. Corrections
list words a few edits away from it, closest tier first: every word at one
edit, then at two, up to the configured maximum distance. Suggest combines
both, completions first.

Lookups are case-insensitive. The input is lowercased before it reaches the
dictionary and its capital letters are applied back to the results at the
same positions, so "Hel" completes to "Hello". The input itself is never
suggested back, nor is the same word twice.

Results are cached per operation, input and limit in a fixed size LRU cache.
*/
package suggest

// ICompleter is what the IPC server and the REPL need from a completer.
type ICompleter interface {
	// Complete returns the most frequent words starting with prefix.
	Complete(prefix string, limit int) ([]Suggestion, error)

	// Correct returns words close to word, closest first.
	Correct(word string, limit int) ([]Suggestion, error)

	// Suggest returns completions then corrections.
	Suggest(input string, limit int) ([]Suggestion, error)

	// Lookup reports whether word is in the dictionary.
	Lookup(word string) (Suggestion, bool, error)

	// Stats returns counters about the completer and its cache.
	Stats() map[string]int
}
