/*
Package server implements msgpack IPC for word suggestions.

Requests are read from stdin and responses written to stdout, one msgpack
value each, in order. Every request names an operation and carries an id
that the response repeats, with the time taken in microseconds:

	{"id": "r1", "op": "complete", "q": "ame", "l": 8}
	{"id": "r1", "s": [{"w": "america", "f": 14, "i": 1022}, ...], "c": 8, "t": 41}

# Operations

complete, correct and suggest return ranked suggestions for q, up to l of
them (default 10, at most max_limit). Corrections are returned closest tier
first, with their distance in "d".

find, word, freq, suffixes and distance expose the dictionary itself: find
reports whether q is a word and its index, word and freq take an index in
"i", suffixes lists the words starting with q and distance the words exactly
"d" edits away from q. These accept "dict" to query another dictionary of the
loaded file.

info describes the loaded file, reload reads it again from disk and health
answers "ok".

Failed operations answer with {"id", "e": message, "c": code}, codes follow
HTTP conventions: 400 for bad requests, 404 for unknown dictionaries or
indexes, 500 for corrupt data.
*/
package server

import "github.com/ltomes/overboard/pkg/dictionary"

// Request is any operation request, fields are used depending on Op.
type Request struct {
	ID    string `msgpack:"id"`
	Op    string `msgpack:"op"`
	Query string `msgpack:"q,omitempty"`
	Limit int    `msgpack:"l,omitempty"`
	Dist  int    `msgpack:"d,omitempty"`
	Index int    `msgpack:"i,omitempty"`
	Dict  string `msgpack:"dict,omitempty"`
}

// WireSuggestion - minimal suggestion
type WireSuggestion struct {
	Word     string `msgpack:"w"`
	Freq     int    `msgpack:"f"`
	Index    int    `msgpack:"i"`
	Distance int    `msgpack:"d,omitempty"`
}

// SuggestionResponse answers complete, correct and suggest.
type SuggestionResponse struct {
	ID          string           `msgpack:"id"`
	Suggestions []WireSuggestion `msgpack:"s"`
	Count       int              `msgpack:"c"`
	TimeTaken   int64            `msgpack:"t"`
}

// FindResponse answers find. Prefix is true when some word starts with the
// query.
type FindResponse struct {
	ID        string `msgpack:"id"`
	Found     bool   `msgpack:"found"`
	Index     int    `msgpack:"i"`
	Prefix    bool   `msgpack:"prefix"`
	TimeTaken int64  `msgpack:"t"`
}

// WordResponse answers word and freq.
type WordResponse struct {
	ID        string `msgpack:"id"`
	Word      string `msgpack:"w,omitempty"`
	Freq      int    `msgpack:"f"`
	Index     int    `msgpack:"i"`
	TimeTaken int64  `msgpack:"t"`
}

// IndexesResponse answers suffixes and distance with word indexes and the
// words they name.
type IndexesResponse struct {
	ID        string   `msgpack:"id"`
	Indexes   []int    `msgpack:"ix"`
	Words     []string `msgpack:"ws"`
	Count     int      `msgpack:"c"`
	TimeTaken int64    `msgpack:"t"`
}

// InfoResponse answers info.
type InfoResponse struct {
	ID           string                      `msgpack:"id"`
	Version      int                         `msgpack:"version"`
	Size         int                         `msgpack:"size"`
	Compression  string                      `msgpack:"compression"`
	Active       string                      `msgpack:"active"`
	Dictionaries []dictionary.DictionaryInfo `msgpack:"dictionaries"`
	Stats        map[string]int              `msgpack:"stats"`
}

// StatusResponse answers health and reload.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
