package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ltomes/overboard/pkg/dictionary"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Faint(true)
)

// PrintInfo describes the dictionary file held by loader.
func PrintInfo(w io.Writer, loader *dictionary.RuntimeLoader) error {
	options, err := loader.DictionaryOptions()
	if err != nil {
		return err
	}
	stats := loader.Stats()

	fmt.Fprintln(w, titleStyle.Render("Dictionary file"))
	if stats.Path != "" {
		fmt.Fprintf(w, "  %s %s\n", keyStyle.Render("path:       "), stats.Path)
	}
	fmt.Fprintf(w, "  %s %d\n", keyStyle.Render("version:    "), dictionary.Version())
	fmt.Fprintf(w, "  %s %s\n", keyStyle.Render("size:       "), humanize.Bytes(uint64(stats.Size)))
	fmt.Fprintf(w, "  %s %s\n", keyStyle.Render("compression:"), stats.Compression)
	if stats.Elapsed > 0 {
		fmt.Fprintf(w, "  %s %v\n", keyStyle.Render("loaded in:  "), stats.Elapsed)
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Dictionaries (%d)", len(options))))
	for i, o := range options {
		fmt.Fprintf(w, "  %3d. %-24s %s words\n", i, o.Name, humanize.Comma(int64(o.Words)))
	}
	return nil
}

// PrintBuildSummary reports a dictionary file written by the builder.
func PrintBuildSummary(w io.Writer, path string, words, size int, comp dictionary.Compression) {
	fmt.Fprintf(w, "%s %s: %s words, %s (%s)\n",
		titleStyle.Render("Wrote"), path,
		humanize.Comma(int64(words)), humanize.Bytes(uint64(size)), comp)
}
