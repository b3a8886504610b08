package builder

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/ltomes/overboard/internal/utils"
	"github.com/ltomes/overboard/pkg/dictionary"
)

const maxLineSize = 1 << 20

// ParseWordList reads a word list, one "word [count]" entry per line. Blank
// lines and lines starting with '#' are skipped. When every entry has a count
// the counts are mapped to frequencies on a log scale, otherwise the list is
// taken as sorted from the most to the least frequent word.
func ParseWordList(r io.Reader) ([]Entry, error) {
	var (
		words     []string
		counts    []int
		allCounts = true
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		switch len(fields) {
		case 1:
			allCounts = false
			counts = append(counts, 0)
		case 2:
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("line %d: invalid count %q", line, fields[1])
			}
			counts = append(counts, n)
		default:
			return nil, fmt.Errorf("line %d: expected \"word [count]\", got %d fields", line, len(fields))
		}
		words = append(words, fields[0])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	var freqs []int
	if allCounts {
		freqs = utils.QuantizeCounts(counts)
	} else {
		freqs = utils.RankFrequencies(len(words))
	}
	entries := make([]Entry, len(words))
	for i, w := range words {
		entries[i] = Entry{Word: w, Freq: freqs[i]}
	}
	return entries, nil
}

// LoadWordList parses the word list file at path.
func LoadWordList(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()
	entries, err := ParseWordList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Parsed %d entries from %s", len(entries), path)
	return entries, nil
}

// WriteFile builds the file and writes it to path, compressed as requested.
// The file is replaced in one rename, a server reloading it never reads a
// partial file.
func (b *Builder) WriteFile(path string, comp dictionary.Compression) (int, error) {
	data, err := b.Build()
	if err != nil {
		return 0, err
	}
	err = utils.WriteFileAtomic(path, func(w io.Writer) error {
		return writeCompressed(w, data, comp)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return len(data), nil
}

func writeCompressed(w io.Writer, data []byte, comp dictionary.Compression) error {
	switch comp {
	case dictionary.CompressionXZ:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return err
		}
		if _, err := xw.Write(data); err != nil {
			return err
		}
		return xw.Close()
	case dictionary.CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if _, err := zw.Write(data); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	default:
		_, err := w.Write(data)
		return err
	}
}
