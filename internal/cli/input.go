// Package cli implements the interactive mode of overboard, used to try
// dictionaries by hand, and the printers of the one-shot commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/ltomes/overboard/internal/logger"
	"github.com/ltomes/overboard/internal/utils"
	"github.com/ltomes/overboard/pkg/suggest"
)

var (
	wordStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	correctedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
)

// InputHandler reads words line by line and prints suggestions for them.
// Lines starting with "?" only ask for corrections.
type InputHandler struct {
	completer       suggest.ICompleter
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
	requestCount    int

	in     io.Reader
	out    *log.Logger
	prompt bool
}

// NewInputHandler reads from stdin and prints to stderr.
func NewInputHandler(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	h := NewInputHandlerWithIO(completer, minLength, maxLength, limit, noFilter, os.Stdin, os.Stderr)
	h.prompt = true
	return h
}

// NewInputHandlerWithIO reads lines from r and prints to w.
func NewInputHandlerWithIO(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter bool, r io.Reader, w io.Writer) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		in:              r,
		out:             logger.NewWithWriter(w, ""),
	}
}

// Start runs the loop until the input ends.
func (h *InputHandler) Start() error {
	if h.prompt {
		h.out.Print("Overboard CLI")
		h.out.Print("type a word and press Enter, prefix it with ? for corrections only (Ctrl+C to exit):")
	}
	scanner := bufio.NewScanner(h.in)
	for {
		if h.prompt {
			h.out.Print("> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	correctOnly := strings.HasPrefix(line, "?")
	prefix := strings.TrimSpace(strings.TrimPrefix(line, "?"))

	if len(prefix) < h.minPrefixLength {
		h.out.Errorf("Prefix too short: %s", prefix)
		return
	}
	if h.maxPrefixLength > 0 && len(prefix) > h.maxPrefixLength {
		h.out.Errorf("Prefix too long: %s", prefix)
		return
	}
	if !h.noFilter && !utils.IsValidInput(prefix) {
		h.out.Warnf("No suggestions found for prefix: '%s' (filtered out)", prefix)
		return
	}

	start := time.Now()
	var (
		suggestions []suggest.Suggestion
		err         error
	)
	if correctOnly {
		suggestions, err = h.completer.Correct(prefix, h.suggestLimit)
	} else {
		suggestions, err = h.completer.Suggest(prefix, h.suggestLimit)
	}
	if err != nil {
		h.out.Errorf("Lookup failed for '%s': %v", prefix, err)
		return
	}
	h.out.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if _, found, err := h.completer.Lookup(prefix); err == nil && found {
		h.out.Printf("'%s' is a known word", prefix)
	}
	if len(suggestions) == 0 {
		h.out.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	h.out.Printf("Found %d suggestions for prefix '%s':", len(suggestions), prefix)
	for i, s := range suggestions {
		word := wordStyle.Render(s.Word)
		note := ""
		if s.WasCorrected {
			word = correctedStyle.Render(s.Word)
			note = fmt.Sprintf(" ~%d", s.Distance)
		}
		h.out.Printf("%2d. %-32s (freq: %2d, #%s)%s", i+1, word, s.Frequency, humanize.Comma(int64(s.Index)), note)
	}
}
