package suggest

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ltomes/overboard/internal/utils"
	"github.com/ltomes/overboard/pkg/dictionary"
)

// Suggestion is a suggested word.
type Suggestion struct {
	Word      string
	Frequency int
	// Index is the position of the word in the dictionary.
	Index int
	// Distance is the number of edits from the input, 0 for completions.
	Distance     int  `json:",omitempty"`
	WasCorrected bool `json:",omitempty"`
}

// Options tune a Completer.
type Options struct {
	// MaxDistance is the last tier of corrections.
	MaxDistance int
	// MaxWordLength truncates the suggested words.
	MaxWordLength int
	// CacheSize is the number of cached results, 0 disables the cache.
	CacheSize int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxDistance:   2,
		MaxWordLength: dictionary.DefaultMaxWordLength,
		CacheSize:     1024,
	}
}

// Completer suggests words from one dictionary. It is safe for concurrent use.
type Completer struct {
	dict  *dictionary.Dictionary
	opts  Options
	cache *ResultCache
	mu    sync.RWMutex
}

// NewCompleter returns a Completer over d.
func NewCompleter(d *dictionary.Dictionary, opts Options) *Completer {
	if opts.MaxWordLength <= 0 {
		opts.MaxWordLength = dictionary.DefaultMaxWordLength
	}
	if opts.MaxDistance < 0 {
		opts.MaxDistance = 0
	}
	return &Completer{
		dict:  d,
		opts:  opts,
		cache: NewResultCache(opts.CacheSize),
	}
}

// SetDictionary replaces the dictionary, after a reload.
func (c *Completer) SetDictionary(d *dictionary.Dictionary) {
	c.mu.Lock()
	c.dict = d
	c.mu.Unlock()
	c.cache.Purge()
}

// Dictionary returns the dictionary in use.
func (c *Completer) Dictionary() *dictionary.Dictionary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dict
}

// Complete returns up to limit words starting with prefix, most frequent
// first. The prefix itself is not listed.
func (c *Completer) Complete(prefix string, limit int) ([]Suggestion, error) {
	return c.cached(opComplete, prefix, limit, func(col *collector) error {
		return col.completions()
	})
}

// Correct returns up to limit words a few edits away from word: every word
// at distance 1 before those at distance 2, and so on up to MaxDistance.
func (c *Completer) Correct(word string, limit int) ([]Suggestion, error) {
	return c.cached(opCorrect, word, limit, func(col *collector) error {
		return col.corrections(c.opts.MaxDistance)
	})
}

// Suggest returns completions of input, then corrections when there are not
// enough completions to reach limit.
func (c *Completer) Suggest(input string, limit int) ([]Suggestion, error) {
	return c.cached(opSuggest, input, limit, func(col *collector) error {
		if err := col.completions(); err != nil {
			return err
		}
		return col.corrections(c.opts.MaxDistance)
	})
}

// Lookup finds word in the dictionary.
func (c *Completer) Lookup(word string) (Suggestion, bool, error) {
	d := c.Dictionary()
	lower := strings.ToLower(word)
	r, err := d.FindString(lower)
	if err != nil || !r.Found {
		return Suggestion{}, false, err
	}
	f, err := d.Freq(r.Index)
	if err != nil {
		return Suggestion{}, false, err
	}
	return Suggestion{
		Word:      ApplyCapitalization(lower, CapitalPositions(word)),
		Frequency: f,
		Index:     r.Index,
	}, true, nil
}

// Stats returns the cache counters and the options in use.
func (c *Completer) Stats() map[string]int {
	stats := c.cache.Stats()
	stats["maxDistance"] = c.opts.MaxDistance
	stats["maxWordLength"] = c.opts.MaxWordLength
	return stats
}

func (c *Completer) cached(o op, input string, limit int, run func(*collector) error) ([]Suggestion, error) {
	if input == "" || limit <= 0 {
		return []Suggestion{}, nil
	}
	key := cacheKey{op: o, input: input, limit: limit}
	if s, ok := c.cache.get(key); ok {
		return s, nil
	}

	lower := strings.ToLower(input)
	col := &collector{
		dict:   c.Dictionary(),
		query:  lower,
		caps:   CapitalPositions(input),
		seen:   utils.NewWordSet(lower),
		limit:  limit,
		maxLen: c.opts.MaxWordLength,
		out:    make([]Suggestion, 0, limit),
	}
	if err := run(col); err != nil {
		log.Errorf("Suggestions for %q failed: %v", input, err)
		return nil, err
	}
	c.cache.add(key, col.out)
	return col.out, nil
}

// collector accumulates the suggestions of one request.
type collector struct {
	dict   *dictionary.Dictionary
	query  string
	caps   []bool
	seen   utils.WordSet
	limit  int
	maxLen int
	out    []Suggestion
	buf    []byte
}

func (col *collector) full() bool { return len(col.out) >= col.limit }

func (col *collector) completions() error {
	if col.full() {
		return nil
	}
	r, err := col.dict.FindString(col.query)
	if err != nil {
		return err
	}
	// One more than needed, the query itself may be among them.
	indexes, err := col.dict.Suffixes(r, col.limit+1)
	if err != nil {
		return err
	}
	return col.add(indexes, 0)
}

func (col *collector) corrections(maxDistance int) error {
	q := []byte(col.query)
	for dist := 1; dist <= maxDistance && !col.full(); dist++ {
		// Words already listed are skipped, ask for a full page past them.
		indexes, err := col.dict.Distance(q, dist, col.limit+len(col.out)+1)
		if err != nil {
			return err
		}
		if err := col.add(indexes, dist); err != nil {
			return err
		}
	}
	return nil
}

func (col *collector) add(indexes []int, dist int) error {
	for _, idx := range indexes {
		if col.full() {
			return nil
		}
		w, err := col.dict.AppendWord(col.buf[:0], idx, col.maxLen)
		if err != nil {
			return err
		}
		col.buf = w
		word := string(w)
		if !col.seen.Add(word) {
			continue
		}
		f, err := col.dict.Freq(idx)
		if err != nil {
			return err
		}
		col.out = append(col.out, Suggestion{
			Word:         ApplyCapitalization(word, col.caps),
			Frequency:    f,
			Index:        idx,
			Distance:     dist,
			WasCorrected: dist > 0,
		})
	}
	return nil
}
