package dictionary

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// RuntimeLoader keeps the dictionary file in use and swaps it on reload.
// Dictionaries handed out before a reload stay valid, they keep a reference
// to the old data.
type RuntimeLoader struct {
	path   string
	header *Header
	stats  LoaderStats
	mu     sync.RWMutex
}

// NewRuntimeLoader loads the dictionary file at path.
func NewRuntimeLoader(path string) (*RuntimeLoader, error) {
	rl := &RuntimeLoader{path: path}
	if err := rl.Reload(); err != nil {
		return nil, err
	}
	return rl, nil
}

// NewRuntimeLoaderFromHeader wraps an already opened file.
func NewRuntimeLoaderFromHeader(h *Header) *RuntimeLoader {
	return &RuntimeLoader{
		header: h,
		stats:  LoaderStats{Size: h.Size(), Dictionaries: h.Count()},
	}
}

// Reload reads the file again. On failure the previous data stays in use.
func (rl *RuntimeLoader) Reload() error {
	h, stats, err := rl.load()
	if err != nil {
		return err
	}
	rl.swap(h, stats)
	return nil
}

// ReloadDictionary reads the file again and returns its dictionary called
// name. The new file is only put in use when it has that dictionary.
func (rl *RuntimeLoader) ReloadDictionary(name string) (*Dictionary, error) {
	h, stats, err := rl.load()
	if err != nil {
		return nil, err
	}
	d, err := pick(h, name)
	if err != nil {
		return nil, err
	}
	rl.swap(h, stats)
	return d, nil
}

func (rl *RuntimeLoader) load() (*Header, LoaderStats, error) {
	if rl.path == "" {
		return nil, LoaderStats{}, fmt.Errorf("no dictionary file to reload")
	}
	return LoadFile(rl.path)
}

func (rl *RuntimeLoader) swap(h *Header, stats LoaderStats) {
	rl.mu.Lock()
	rl.header, rl.stats = h, stats
	rl.mu.Unlock()
	log.Debugf("Dictionary file %s in use", rl.path)
}

// Header returns the file in use.
func (rl *RuntimeLoader) Header() *Header {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return rl.header
}

// Stats returns the statistics of the last successful load.
func (rl *RuntimeLoader) Stats() LoaderStats {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return rl.stats
}

// Dictionary returns the dictionary called name. An empty name selects the
// first dictionary of the file.
func (rl *RuntimeLoader) Dictionary(name string) (*Dictionary, error) {
	return pick(rl.Header(), name)
}

func pick(h *Header, name string) (*Dictionary, error) {
	if name == "" {
		return h.Dictionary(0)
	}
	return h.Lookup(name)
}

// DictionaryInfo describes one dictionary of the file in use.
type DictionaryInfo struct {
	Name  string `json:"name" msgpack:"name"`
	Words int    `json:"words" msgpack:"words"`
}

// DictionaryOptions lists the dictionaries of the file in use.
func (rl *RuntimeLoader) DictionaryOptions() ([]DictionaryInfo, error) {
	dicts, err := rl.Header().Dictionaries()
	if err != nil {
		return nil, err
	}
	options := make([]DictionaryInfo, 0, len(dicts))
	for _, d := range dicts {
		n, err := d.Len()
		if err != nil {
			return nil, fmt.Errorf("dictionary %q: %w", d.Name(), err)
		}
		options = append(options, DictionaryInfo{Name: d.Name(), Words: n})
	}
	return options, nil
}
