package dictionary_test

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ltomes/overboard/pkg/builder"
	"github.com/ltomes/overboard/pkg/dictionary"
)

func build(t testing.TB, entries []builder.Entry) *dictionary.Dictionary {
	t.Helper()
	data, err := builder.Build("main", entries)
	require.NoError(t, err)
	h, err := dictionary.Open(data)
	require.NoError(t, err)
	d, err := h.Dictionary(0)
	require.NoError(t, err)
	return d
}

func words(t testing.TB, d *dictionary.Dictionary, indexes []int) []string {
	t.Helper()
	out := make([]string, len(indexes))
	for i, idx := range indexes {
		w, err := d.WordString(idx)
		require.NoError(t, err)
		out[i] = w
	}
	return out
}

// sample is a word list with shared prefixes, single letters, a long run
// split over several prefix nodes and non-ASCII bytes.
func sample() []builder.Entry {
	list := []string{
		"a", "ab", "abc", "abd", "abide", "able", "about", "above",
		"b", "ba", "back", "backs", "bad", "bag", "be", "bed", "bee", "been",
		"car", "care", "cared", "careful", "cart", "cat", "cats", "catalog",
		"dog", "dogs", "door", "dot", "x", "xylophone", "zebra",
		"caf\xc3\xa9", "na\xc3\xafve", "\xff\x00end",
		strings.Repeat("long", 80),
		strings.Repeat("long", 80) + "er",
	}
	entries := make([]builder.Entry, len(list))
	for i, w := range list {
		entries[i] = builder.Entry{Word: w, Freq: (i*7 + 3) % 16}
	}
	return entries
}

func sortedWords(entries []builder.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Word
	}
	sort.Strings(out)
	return out
}

func TestOpen(t *testing.T) {
	data, err := builder.Build("main", sample())
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		h, err := dictionary.Open(data)
		require.NoError(t, err)
		require.Equal(t, 1, h.Count())
		require.Equal(t, len(data), h.Size())
	})
	t.Run("short", func(t *testing.T) {
		_, err := dictionary.Open(data[:4])
		require.ErrorIs(t, err, dictionary.ErrNotADictionary)
	})
	t.Run("magic", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[0] = 'd'
		_, err := dictionary.Open(bad)
		require.ErrorIs(t, err, dictionary.ErrNotADictionary)
	})
	t.Run("version", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[3] = byte(dictionary.Version() + 1)
		_, err := dictionary.Open(bad)
		require.ErrorIs(t, err, dictionary.ErrUnsupportedFormat)
	})
	t.Run("index", func(t *testing.T) {
		h, err := dictionary.Open(data)
		require.NoError(t, err)
		_, err = h.Dictionary(1)
		require.ErrorIs(t, err, dictionary.ErrDictionaryIndex)
		_, err = h.Dictionary(-1)
		require.ErrorIs(t, err, dictionary.ErrDictionaryIndex)
	})
	t.Run("truncated", func(t *testing.T) {
		h, err := dictionary.Open(data[:dictionary.PrologueSize+4])
		require.NoError(t, err)
		_, err = h.Dictionary(0)
		require.ErrorIs(t, err, dictionary.ErrCorrupt)
	})
}

func TestMultipleDictionaries(t *testing.T) {
	b := builder.New()
	en, err := b.Dict("en")
	require.NoError(t, err)
	require.NoError(t, en.AddEntries([]builder.Entry{{Word: "hello", Freq: 9}, {Word: "help", Freq: 4}}))
	fr, err := b.Dict("fr")
	require.NoError(t, err)
	require.NoError(t, fr.AddEntries([]builder.Entry{{Word: "bonjour", Freq: 12}}))
	data, err := b.Build()
	require.NoError(t, err)

	h, err := dictionary.Open(data)
	require.NoError(t, err)
	require.Equal(t, 2, h.Count())

	dicts, err := h.Dictionaries()
	require.NoError(t, err)
	require.Equal(t, "en", dicts[0].Name())
	require.Equal(t, "fr", dicts[1].Name())

	d, err := h.Lookup("fr")
	require.NoError(t, err)
	r, err := d.FindString("bonjour")
	require.NoError(t, err)
	require.True(t, r.Found)
	require.Equal(t, 0, r.Index)
	f, err := d.Freq(r.Index)
	require.NoError(t, err)
	require.Equal(t, 12, f)

	r, err = d.FindString("hello")
	require.NoError(t, err)
	require.False(t, r.Found)

	_, err = h.Lookup("de")
	require.ErrorIs(t, err, dictionary.ErrNotFound)
}

func TestFindAndWord(t *testing.T) {
	entries := sample()
	d := build(t, entries)
	freqs := make(map[string]int)
	for _, e := range entries {
		freqs[e.Word] = e.Freq
	}

	for i, w := range sortedWords(entries) {
		r, err := d.FindString(w)
		require.NoError(t, err)
		require.True(t, r.Found, w)
		require.Equal(t, i, r.Index, w)
		require.True(t, r.Prefix.Valid(), w)

		got, err := d.AppendWord(nil, i, 1024)
		require.NoError(t, err)
		require.Equal(t, w, string(got))

		f, err := d.Freq(i)
		require.NoError(t, err)
		require.Equal(t, freqs[w], f, w)
	}

	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, len(entries), n)
}

func TestFindMisses(t *testing.T) {
	d := build(t, sample())
	tests := []struct {
		query  string
		prefix bool
	}{
		{"", true},
		{"ca", true},
		{"caree", false},
		{"abi", true},
		{"lon", true},
		{strings.Repeat("long", 40), true},
		{strings.Repeat("long", 40) + "x", false},
		{"q", false},
		{"dogsz", false},
		{"xylo", true},
		{"xyla", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r, err := d.FindString(tt.query)
			require.NoError(t, err)
			require.False(t, r.Found)
			require.Equal(t, tt.prefix, r.Prefix.Valid())
		})
	}
}

func TestWordTruncation(t *testing.T) {
	d := build(t, sample())
	long := strings.Repeat("long", 80) + "er"
	r, err := d.FindString(long)
	require.NoError(t, err)
	require.True(t, r.Found)

	w, err := d.Word(r.Index)
	require.NoError(t, err)
	require.Len(t, w, dictionary.DefaultMaxWordLength)
	require.Equal(t, long[:dictionary.DefaultMaxWordLength], string(w))

	w, err = d.AppendWord([]byte("> "), r.Index, 3)
	require.NoError(t, err)
	require.Equal(t, "> lon", string(w))
}

func TestWordOutOfRange(t *testing.T) {
	entries := sample()
	d := build(t, entries)
	_, err := d.Word(len(entries))
	require.ErrorIs(t, err, dictionary.ErrRankOutOfRange)
	_, err = d.Word(-1)
	require.ErrorIs(t, err, dictionary.ErrRankOutOfRange)
	_, err = d.Freq(-1)
	require.ErrorIs(t, err, dictionary.ErrRankOutOfRange)
}

func TestSuffixesCoverEveryWord(t *testing.T) {
	entries := sample()
	d := build(t, entries)

	r, err := d.FindString("")
	require.NoError(t, err)
	all, err := d.Suffixes(r, len(entries)+10)
	require.NoError(t, err)
	require.Len(t, all, len(entries))
	slices.Sort(all)
	for i, idx := range all {
		require.Equal(t, i, idx)
	}
}

func TestSuffixesContainEveryExtension(t *testing.T) {
	entries := sample()
	d := build(t, entries)
	sorted := sortedWords(entries)

	for i, w := range sorted {
		for n := 0; n <= len(w); n++ {
			r, err := d.FindString(w[:n])
			require.NoError(t, err)
			found, err := d.Suffixes(r, len(entries))
			require.NoError(t, err)
			require.Contains(t, found, i, "%q is missing from the suffixes of %q", w, w[:n])
			for _, idx := range found {
				require.True(t, strings.HasPrefix(sorted[idx], w[:n]))
			}
		}
	}
}

func TestSuffixesOrder(t *testing.T) {
	d := build(t, []builder.Entry{
		{Word: "cat", Freq: 10}, {Word: "car", Freq: 12}, {Word: "care", Freq: 5}, {Word: "dog", Freq: 8}, {Word: "cab", Freq: 10},
	})
	r, err := d.FindString("ca")
	require.NoError(t, err)
	require.False(t, r.Found)

	got, err := d.Suffixes(r, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"car", "cab", "cat", "care"}, words(t, d, got))

	got, err = d.Suffixes(r, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"car", "cab"}, words(t, d, got))

	got, err = d.Suffixes(r, 0)
	require.NoError(t, err)
	require.Empty(t, got)

	r, err = d.FindString("cx")
	require.NoError(t, err)
	got, err = d.Suffixes(r, 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestScenario(t *testing.T) {
	d := build(t, []builder.Entry{{Word: "cat", Freq: 10}, {Word: "car", Freq: 12}, {Word: "care", Freq: 5}, {Word: "dog", Freq: 8}})

	r, err := d.FindString("ca")
	require.NoError(t, err)
	got, err := d.Suffixes(r, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"car", "cat", "care"}, words(t, d, got))

	tests := []struct {
		query string
		dist  int
		want  []string
	}{
		{"cat", 0, []string{"cat"}},
		{"cat", 1, []string{"car"}},
		{"cat", 2, []string{"care"}},
		{"cat", 3, []string{"dog"}},
		{"car", 1, []string{"cat", "care"}},
		{"ca", 1, []string{"car", "cat", "care"}},
		{"cars", 1, []string{"car", "care"}},
		{"dgo", 1, nil},
		{"dgo", 2, []string{"dog"}},
		{"og", 1, []string{"dog"}},
		{"", 1, []string{"car", "cat", "dog", "care"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.query, tt.dist), func(t *testing.T) {
			got, err := d.DistanceString(tt.query, tt.dist, 10)
			require.NoError(t, err)
			require.Equal(t, tt.want, nilIfEmpty(words(t, d, got)))
		})
	}
}

// "care" is two edits from "cat": "car" by substitution, then the suffix.
func TestScenarioFrequencies(t *testing.T) {
	d := build(t, []builder.Entry{{Word: "cat", Freq: 9}, {Word: "car", Freq: 5}, {Word: "care", Freq: 2}, {Word: "dog", Freq: 9}})

	r, err := d.FindString("ca")
	require.NoError(t, err)
	require.False(t, r.Found)
	require.True(t, r.Prefix.Valid())
	got, err := d.Suffixes(r, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"cat", "car", "care"}, words(t, d, got))

	for dist, want := range [][]string{{"cat"}, {"car"}, {"care"}, {"dog"}} {
		got, err := d.DistanceString("cat", dist, 5)
		require.NoError(t, err)
		require.Equal(t, want, words(t, d, got), "distance %d", dist)
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// designed is the distance counted by Distance: Levenshtein, where adding
// a suffix to the query costs one edit.
func designed(q, w string) int {
	prev := make([]int, len(q)+1)
	cur := make([]int, len(q)+1)
	for j := range prev {
		prev[j] = j
	}
	best := len(q) + 1
	for i := 0; i < len(w); i++ {
		best = min(best, prev[len(q)]+1)
		cur[0] = i + 1
		for j := 1; j <= len(q); j++ {
			cost := 1
			if w[i] == q[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return min(best, prev[len(q)])
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func TestDistanceIsExact(t *testing.T) {
	entries := sample()
	d := build(t, entries)
	sorted := sortedWords(entries)

	queries := []string{"cat", "ab", "bee", "dgo", "cared", "abode", "x", "zebr", "cafe", "lonk"}
	for _, q := range queries {
		seen := make(map[int]int)
		for dist := 0; dist <= 3; dist++ {
			got, err := d.DistanceString(q, dist, len(entries))
			require.NoError(t, err)
			for _, idx := range got {
				require.Equal(t, dist, designed(q, sorted[idx]), "%q at distance %d from %q", sorted[idx], dist, q)
				prev, dup := seen[idx]
				require.False(t, dup, "%q listed at %d and %d", sorted[idx], prev, dist)
				seen[idx] = dist
			}
		}
	}
}

// singleEdits lists the words one deletion, insertion or substitution away
// from w.
func singleEdits(w string) []string {
	var out []string
	for i := 0; i <= len(w); i++ {
		if i < len(w) {
			out = append(out, w[:i]+w[i+1:])
			out = append(out, w[:i]+"q"+w[i+1:])
		}
		for _, c := range []string{"a", "e", "z"} {
			out = append(out, w[:i]+c+w[i:])
		}
	}
	return out
}

func TestDistanceTiersAreComplete(t *testing.T) {
	entries := sample()
	d := build(t, entries)
	sorted := sortedWords(entries)

	for _, e := range entries {
		if len(e.Word) > 12 {
			continue
		}
		for _, q := range slices.Compact(slices.Sorted(slices.Values(singleEdits(e.Word)))) {
			for dist := 1; dist <= 2; dist++ {
				var want []string
				for _, w := range sorted {
					if designed(q, w) == dist {
						want = append(want, w)
					}
				}
				got, err := d.DistanceString(q, dist, len(entries))
				require.NoError(t, err)
				require.ElementsMatch(t, want, words(t, d, got), "%q at distance %d", q, dist)
			}
		}
	}
}

func TestDistanceInsideRuns(t *testing.T) {
	d := build(t, []builder.Entry{{Word: "x", Freq: 3}, {Word: "xylophone", Freq: 7}, {Word: "zebra", Freq: 5}})

	tests := []struct {
		query string
		want  string
	}{
		{"xylopone", "xylophone"},
		{"xylophne", "xylophone"},
		{"xyllophone", "xylophone"},
		{"xylophome", "xylophone"},
		{"xylophonee", "xylophone"},
		{"zbra", "zebra"},
		{"zebbra", "zebra"},
		{"zebr", "zebra"},
		{"ebra", "zebra"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := d.DistanceString(tt.query, 1, 10)
			require.NoError(t, err)
			require.Equal(t, []string{tt.want}, words(t, d, got))
		})
	}
}

func TestDistanceBounds(t *testing.T) {
	d := build(t, sample())
	got, err := d.DistanceString("ba", 1, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	got, err = d.DistanceString("ba", -1, 3)
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = d.DistanceString("ba", 1, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestEmptyDictionary(t *testing.T) {
	d := build(t, nil)
	r, err := d.FindString("a")
	require.NoError(t, err)
	require.False(t, r.Found)

	n, err := d.Len()
	require.NoError(t, err)
	require.Zero(t, n)

	got, err := d.DistanceString("a", 1, 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

// corrupt returns a blob with one dictionary whose root is a prefix node "ab"
// pointing to next.
func corrupt(next int) []byte {
	data := []byte("Dic\x00\x01")
	rec := make([]byte, dictionary.RecordSize)
	dictionary.PutInt32(rec[0:], 17)
	dictionary.PutInt32(rec[4:], 20)
	dictionary.PutInt32(rec[8:], 26)
	data = append(data, rec...)
	data = append(data, 'a', 0, 0)
	node := make([]byte, dictionary.PrefixHeaderSize)
	node[0] = dictionary.PrefixHeader(2)
	dictionary.PutInt24(node[1:], next)
	data = append(data, node...)
	data = append(data, "ab"...)
	return append(data, 0)
}

func TestCorrupt(t *testing.T) {
	t.Run("out of bounds", func(t *testing.T) {
		h, err := dictionary.Open(corrupt(0x7FFFF0))
		require.NoError(t, err)
		d, err := h.Dictionary(0)
		require.NoError(t, err)

		_, err = d.FindString("abc")
		require.ErrorIs(t, err, dictionary.ErrCorrupt)

		r, err := d.FindString("a")
		require.NoError(t, err)
		_, err = d.Suffixes(r, 5)
		require.ErrorIs(t, err, dictionary.ErrCorrupt)

		_, err = d.DistanceString("abc", 1, 5)
		require.ErrorIs(t, err, dictionary.ErrCorrupt)

		_, err = d.Word(0)
		require.ErrorIs(t, err, dictionary.ErrCorrupt)
	})
	t.Run("cycle", func(t *testing.T) {
		h, err := dictionary.Open(corrupt(0))
		require.NoError(t, err)
		d, err := h.Dictionary(0)
		require.NoError(t, err)

		_, err = d.Len()
		require.ErrorIs(t, err, dictionary.ErrCorrupt)
	})
}

func BenchmarkFind(b *testing.B) {
	entries := sample()
	d := build(b, entries)
	list := sortedWords(entries)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.FindString(list[i%len(list)])
	}
}

func BenchmarkDistance(b *testing.B) {
	d := build(b, sample())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.DistanceString("cared", 2, 8)
	}
}
