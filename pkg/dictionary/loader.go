package dictionary

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression identifies the container a dictionary file is stored in.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionXZ
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionXZ:
		return "xz"
	case CompressionZstd:
		return "zstd"
	default:
		return "none"
	}
}

var (
	xzMagic   = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
)

// DetectCompression looks at the first bytes of a file.
func DetectCompression(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, xzMagic):
		return CompressionXZ
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// LoaderStats describes the last load.
type LoaderStats struct {
	Path         string
	Compression  Compression
	Size         int
	Dictionaries int
	Elapsed      time.Duration
}

// Load reads a whole dictionary file from r, decompressing it when it is
// wrapped in xz or zstd, and opens it.
func Load(r io.Reader) (*Header, Compression, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(xzMagic))
	comp := DetectCompression(head)

	var src io.Reader = br
	switch comp {
	case CompressionXZ:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, comp, fmt.Errorf("failed to open xz stream: %w", err)
		}
		src = xr
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, comp, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, comp, fmt.Errorf("failed to read dictionary: %w", err)
	}
	h, err := Open(data)
	return h, comp, err
}

// LoadFile loads the dictionary file at path.
func LoadFile(path string) (*Header, LoaderStats, error) {
	start := time.Now()
	stats := LoaderStats{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to open dictionary file: %w", err)
	}
	defer f.Close()

	h, comp, err := Load(f)
	stats.Compression = comp
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	stats.Size = h.Size()
	stats.Dictionaries = h.Count()
	stats.Elapsed = time.Since(start)
	log.Debugf("Loaded %s (%s, %d bytes, %d dictionaries) in %v",
		path, comp, stats.Size, stats.Dictionaries, stats.Elapsed)
	return h, stats, nil
}

// ParseCompression parses the names printed by Compression.String. The empty
// name means no compression.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "xz":
		return CompressionXZ, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return CompressionNone, fmt.Errorf("unknown compression %q", name)
}
