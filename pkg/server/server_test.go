package server

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ltomes/overboard/pkg/builder"
	"github.com/ltomes/overboard/pkg/config"
	"github.com/ltomes/overboard/pkg/dictionary"
	"github.com/ltomes/overboard/pkg/suggest"
)

var testWords = []builder.Entry{
	{Word: "car", Freq: 12},
	{Word: "care", Freq: 5},
	{Word: "careful", Freq: 9},
	{Word: "cat", Freq: 10},
	{Word: "cart", Freq: 3},
	{Word: "dog", Freq: 8},
}

func writeDict(t *testing.T, path string, entries []builder.Entry) {
	t.Helper()
	b := builder.New()
	d, err := b.Dict("main")
	require.NoError(t, err)
	require.NoError(t, d.AddEntries(entries))
	_, err = b.WriteFile(path, dictionary.CompressionZstd)
	require.NoError(t, err)
}

// run serves reqs and returns a decoder positioned after the ready message.
func run(t *testing.T, path string, reqs ...Request) *msgpack.Decoder {
	t.Helper()
	loader, err := dictionary.NewRuntimeLoader(path)
	require.NoError(t, err)
	d, err := loader.Dictionary("main")
	require.NoError(t, err)
	completer := suggest.NewCompleter(d, suggest.DefaultOptions())

	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}
	srv := NewServerWithIO(loader, completer, config.DefaultConfig(), &in, &out)
	require.NoError(t, srv.Start())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, "ready", ready.Status)
	return dec
}

func decode[T any](t *testing.T, dec *msgpack.Decoder) T {
	t.Helper()
	var v T
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestServerOperations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.dic.zst")
	writeDict(t, path, testWords)

	dec := run(t, path,
		Request{ID: "1", Op: "complete", Query: "ca"},
		Request{ID: "2", Op: "find", Query: "care"},
		Request{ID: "3", Op: "word", Index: 2},
		Request{ID: "4", Op: "distance", Query: "cat", Dist: 1},
		Request{ID: "5", Op: "suffixes", Query: "car", Limit: 2},
		Request{ID: "6", Op: "freq", Index: 0},
		Request{ID: "7", Op: "correct", Query: "cat", Limit: 3},
		Request{ID: "8", Op: "health"},
		Request{ID: "9", Op: "info"},
	)

	complete := decode[SuggestionResponse](t, dec)
	require.Equal(t, "1", complete.ID)
	require.Equal(t, 5, complete.Count)
	require.Equal(t, "car", complete.Suggestions[0].Word)
	require.Equal(t, 12, complete.Suggestions[0].Freq)

	find := decode[FindResponse](t, dec)
	require.Equal(t, FindResponse{ID: "2", Found: true, Index: 1, Prefix: true, TimeTaken: find.TimeTaken}, find)

	word := decode[WordResponse](t, dec)
	require.Equal(t, "careful", word.Word)
	require.Equal(t, 9, word.Freq)

	dist := decode[IndexesResponse](t, dec)
	require.Equal(t, []string{"car", "cart"}, dist.Words)
	require.Equal(t, []int{0, 3}, dist.Indexes)

	suffixes := decode[IndexesResponse](t, dec)
	require.Equal(t, []string{"car", "careful"}, suffixes.Words)

	freq := decode[WordResponse](t, dec)
	require.Equal(t, "6", freq.ID)
	require.Empty(t, freq.Word)
	require.Equal(t, 12, freq.Freq)

	correct := decode[SuggestionResponse](t, dec)
	require.Equal(t, 3, correct.Count)
	require.Equal(t, "car", correct.Suggestions[0].Word)
	require.Equal(t, 1, correct.Suggestions[0].Distance)
	require.Equal(t, 2, correct.Suggestions[2].Distance)

	health := decode[StatusResponse](t, dec)
	require.Equal(t, StatusResponse{ID: "8", Status: "ok"}, health)

	info := decode[InfoResponse](t, dec)
	require.Equal(t, "main", info.Active)
	require.Equal(t, "zstd", info.Compression)
	require.Equal(t, []dictionary.DictionaryInfo{{Name: "main", Words: len(testWords)}}, info.Dictionaries)
}

func TestServerErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.dic.zst")
	writeDict(t, path, testWords)

	dec := run(t, path,
		Request{ID: "1", Op: "fly"},
		Request{ID: "2", Op: "word", Index: 100},
		Request{ID: "3", Op: "find", Query: "car", Dict: "fr"},
		Request{ID: "4", Op: "distance", Query: "car", Dist: 7},
		Request{ID: "5", Op: "complete"},
	)
	for _, want := range []struct {
		id   string
		code int
	}{{"1", 400}, {"2", 404}, {"3", 404}, {"4", 400}, {"5", 400}} {
		resp := decode[ErrorResponse](t, dec)
		require.Equal(t, want.id, resp.ID)
		require.Equal(t, want.code, resp.Code, resp.Error)
		require.NotEmpty(t, resp.Error)
	}
}

func TestServerFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.dic.zst")
	writeDict(t, path, testWords)

	dec := run(t, path, Request{ID: "1", Op: "suggest", Query: "1234"})
	resp := decode[SuggestionResponse](t, dec)
	require.Equal(t, "1", resp.ID)
	require.Zero(t, resp.Count)
}

func TestServerReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.dic.zst")
	writeDict(t, path, testWords)

	loader, err := dictionary.NewRuntimeLoader(path)
	require.NoError(t, err)
	d, err := loader.Dictionary("main")
	require.NoError(t, err)
	completer := suggest.NewCompleter(d, suggest.DefaultOptions())

	writeDict(t, path, append(testWords, builder.Entry{Word: "cab", Freq: 15}))

	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	require.NoError(t, enc.Encode(Request{ID: "1", Op: "reload"}))
	require.NoError(t, enc.Encode(Request{ID: "2", Op: "complete", Query: "ca", Limit: 1}))
	srv := NewServerWithIO(loader, completer, nil, &in, &out)
	require.NoError(t, srv.Start())

	dec := msgpack.NewDecoder(&out)
	decode[StatusResponse](t, dec)
	reload := decode[StatusResponse](t, dec)
	require.Equal(t, "reloaded", reload.Status)
	complete := decode[SuggestionResponse](t, dec)
	require.Equal(t, "cab", complete.Suggestions[0].Word)
}

func TestServerReloadWithoutActiveDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.dic.zst")
	writeDict(t, path, testWords)

	loader, err := dictionary.NewRuntimeLoader(path)
	require.NoError(t, err)
	d, err := loader.Dictionary("main")
	require.NoError(t, err)
	completer := suggest.NewCompleter(d, suggest.DefaultOptions())

	b := builder.New()
	other, err := b.Dict("other")
	require.NoError(t, err)
	require.NoError(t, other.AddEntries([]builder.Entry{{Word: "zebra", Freq: 4}}))
	_, err = b.WriteFile(path, dictionary.CompressionNone)
	require.NoError(t, err)

	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	require.NoError(t, enc.Encode(Request{ID: "1", Op: "reload"}))
	require.NoError(t, enc.Encode(Request{ID: "2", Op: "info"}))
	require.NoError(t, enc.Encode(Request{ID: "3", Op: "find", Query: "careful"}))
	srv := NewServerWithIO(loader, completer, nil, &in, &out)
	require.NoError(t, srv.Start())

	dec := msgpack.NewDecoder(&out)
	decode[StatusResponse](t, dec)
	failed := decode[ErrorResponse](t, dec)
	require.Equal(t, 404, failed.Code)

	// The loader and the completer still agree on the old file.
	info := decode[InfoResponse](t, dec)
	require.Equal(t, "zstd", info.Compression)
	require.Equal(t, []dictionary.DictionaryInfo{{Name: "main", Words: len(testWords)}}, info.Dictionaries)
	find := decode[FindResponse](t, dec)
	require.True(t, find.Found)
}
