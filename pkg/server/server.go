package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ltomes/overboard/internal/logger"
	"github.com/ltomes/overboard/internal/utils"
	"github.com/ltomes/overboard/pkg/config"
	"github.com/ltomes/overboard/pkg/dictionary"
	"github.com/ltomes/overboard/pkg/suggest"
)

const (
	defaultLimit = 10

	// maxDecodeFailures ends the loop when the input keeps failing.
	maxDecodeFailures = 8
)

// Server handles the IPC for word suggestions
type Server struct {
	loader    *dictionary.RuntimeLoader
	completer *suggest.Completer
	config    *config.Config
	dec       *msgpack.Decoder
	enc       *msgpack.Encoder
	logger    *log.Logger
	requests  int
}

// NewServer creates a server using stdin/stdout for IPC
func NewServer(loader *dictionary.RuntimeLoader, completer *suggest.Completer, cfg *config.Config) *Server {
	return NewServerWithIO(loader, completer, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(loader *dictionary.RuntimeLoader, completer *suggest.Completer, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		loader:    loader,
		completer: completer,
		config:    cfg,
		dec:       msgpack.NewDecoder(r),
		enc:       msgpack.NewEncoder(w),
		logger:    logger.New("ipc"),
	}
}

// Start announces readiness then serves requests until the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting server")
	s.send(StatusResponse{Status: "ready"})

	failures := 0
	for {
		var req Request
		err := s.dec.Decode(&req)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			s.logger.Debugf("Input closed after %d requests", s.requests)
			return nil
		}
		if err != nil {
			failures++
			s.logger.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			if failures >= maxDecodeFailures {
				return fmt.Errorf("too many invalid requests: %w", err)
			}
			continue
		}
		failures = 0
		s.requests++
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	start := time.Now()
	switch req.Op {
	case "complete", "correct", "suggest":
		s.handleSuggest(req, start)
	case "find":
		s.handleFind(req, start)
	case "word", "freq":
		s.handleWord(req, start)
	case "suffixes", "distance":
		s.handleIndexes(req, start)
	case "info":
		s.handleInfo(req)
	case "reload":
		s.handleReload(req)
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown op: %q", req.Op), 400)
	}
}

func (s *Server) limit(req Request) int {
	limit := req.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if ceiling := s.config.Server.MaxLimit; ceiling > 0 && limit > ceiling {
		limit = ceiling
	}
	return limit
}

func (s *Server) handleSuggest(req Request, start time.Time) {
	q := req.Query
	srv := s.config.Server
	if len(q) < srv.MinPrefix || q == "" {
		s.sendError(req.ID, fmt.Sprintf("query must be at least %d characters", max(srv.MinPrefix, 1)), 400)
		return
	}
	if srv.MaxPrefix > 0 && len(q) > srv.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("query exceeds maximum length of %d characters", srv.MaxPrefix), 400)
		return
	}

	var (
		suggestions []suggest.Suggestion
		err         error
	)
	if srv.EnableFilter && !utils.IsValidInput(q) {
		s.logger.Debugf("Filtered out query %q", q)
	} else {
		limit := s.limit(req)
		switch req.Op {
		case "complete":
			suggestions, err = s.completer.Complete(q, limit)
		case "correct":
			suggestions, err = s.completer.Correct(q, limit)
		default:
			suggestions, err = s.completer.Suggest(q, limit)
		}
	}
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}

	wire := make([]WireSuggestion, len(suggestions))
	for i, sg := range suggestions {
		wire[i] = WireSuggestion{Word: sg.Word, Freq: sg.Frequency, Index: sg.Index, Distance: sg.Distance}
	}
	s.send(SuggestionResponse{
		ID:          req.ID,
		Suggestions: wire,
		Count:       len(wire),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

// dictionary returns the dictionary a raw operation applies to.
func (s *Server) dictionary(req Request) (*dictionary.Dictionary, bool) {
	if req.Dict == "" {
		return s.completer.Dictionary(), true
	}
	d, err := s.loader.Dictionary(req.Dict)
	if err != nil {
		s.sendFailure(req.ID, err)
		return nil, false
	}
	return d, true
}

func (s *Server) handleFind(req Request, start time.Time) {
	d, ok := s.dictionary(req)
	if !ok {
		return
	}
	r, err := d.FindString(req.Query)
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	s.send(FindResponse{
		ID:        req.ID,
		Found:     r.Found,
		Index:     r.Index,
		Prefix:    r.Prefix.Valid(),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleWord(req Request, start time.Time) {
	d, ok := s.dictionary(req)
	if !ok {
		return
	}
	resp := WordResponse{ID: req.ID, Index: req.Index}
	if req.Op == "word" {
		w, err := d.AppendWord(nil, req.Index, s.config.Dict.MaxWordLength)
		if err != nil {
			s.sendFailure(req.ID, err)
			return
		}
		resp.Word = string(w)
	}
	f, err := d.Freq(req.Index)
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	resp.Freq = f
	resp.TimeTaken = time.Since(start).Microseconds()
	s.send(resp)
}

func (s *Server) handleIndexes(req Request, start time.Time) {
	d, ok := s.dictionary(req)
	if !ok {
		return
	}
	limit := s.limit(req)
	var (
		indexes []int
		err     error
	)
	if req.Op == "suffixes" {
		var r dictionary.Result
		if r, err = d.FindString(req.Query); err == nil {
			indexes, err = d.Suffixes(r, limit)
		}
	} else {
		if req.Dist < 0 || req.Dist > s.config.Dict.MaxDistance {
			s.sendError(req.ID, fmt.Sprintf("distance must be in [0,%d]", s.config.Dict.MaxDistance), 400)
			return
		}
		indexes, err = d.DistanceString(req.Query, req.Dist, limit)
	}
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}

	words := make([]string, len(indexes))
	for i, idx := range indexes {
		w, err := d.AppendWord(nil, idx, s.config.Dict.MaxWordLength)
		if err != nil {
			s.sendFailure(req.ID, err)
			return
		}
		words[i] = string(w)
	}
	s.send(IndexesResponse{
		ID:        req.ID,
		Indexes:   indexes,
		Words:     words,
		Count:     len(indexes),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleInfo(req Request) {
	options, err := s.loader.DictionaryOptions()
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	stats := s.loader.Stats()
	s.send(InfoResponse{
		ID:           req.ID,
		Version:      dictionary.Version(),
		Size:         stats.Size,
		Compression:  stats.Compression.String(),
		Active:       s.completer.Dictionary().Name(),
		Dictionaries: options,
		Stats:        s.completer.Stats(),
	})
}

func (s *Server) handleReload(req Request) {
	d, err := s.loader.ReloadDictionary(s.config.Dict.Name)
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	s.completer.SetDictionary(d)
	s.logger.Infof("Reloaded dictionary %q", d.Name())
	s.send(StatusResponse{ID: req.ID, Status: "reloaded"})
}

// send encodes the response to the writer.
func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

// sendFailure maps err to an error response.
func (s *Server) sendFailure(id string, err error) {
	code := 500
	switch {
	case errors.Is(err, dictionary.ErrNotFound),
		errors.Is(err, dictionary.ErrRankOutOfRange),
		errors.Is(err, dictionary.ErrDictionaryIndex):
		code = 404
	case errors.Is(err, dictionary.ErrCorrupt):
		s.logger.Errorf("Corrupt dictionary: %v", err)
	}
	s.sendError(id, err.Error(), code)
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
