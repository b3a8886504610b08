// Copyright 2025 The Overboard Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the overboard dictionary server, builder and CLI.

Overboard serves word completions and corrections from compact read-only
dictionary files. A file holds one or more named dictionaries, each a radix
tree of words with a 4-bit frequency per word, laid out so that it is queried
in place without being unpacked.

# Usage

Build a dictionary file from a word list, one word per line with an optional
count, most frequent first when counts are missing:

	overboard -build words.txt -o words.dic.zst -z zstd

Describe a dictionary file:

	overboard -info -dict words.dic.zst

Start the server with the dictionary found in the usual places:

	overboard

Run the interactive CLI with debug logs:

	overboard -c -d -limit 10

Without -dict the file is looked for as words.dic, words.dic.zst and
words.dic.xz in the current directory, next to the executable, in its data
directory and in the config directory.

# Configuration

Runtime configuration is read from a TOML file, created with defaults when
missing:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true

	[dict]
	path = ""
	name = "main"
	max_distance = 2
	max_word_length = 256
	cache_size = 1024

# IPC Protocol

The server reads MessagePack requests from stdin and writes one response per
request to stdout, logs go to stderr:

	{"id": "r1", "op": "complete", "q": "hel", "l": 3}
	{"id": "r1", "s": [{"w": "hello", "f": 14, "i": 3071}, ...], "c": 3, "t": 38}

See package server for every operation. "reload" reads the dictionary file
again, so a file rebuilt in place is picked up without a restart.

# Command Line Flags

	-version   Show current version
	-d         Enable debug logging
	-c         Run the interactive CLI instead of the server
	-info      Describe the dictionary file and exit
	-dict      Dictionary file, overrides the config
	-config    Config file path
	-limit     Number of suggestions in CLI mode
	-prmin     Minimum prefix length in CLI mode
	-prmax     Maximum prefix length in CLI mode
	-no-filter Disable input filtering in CLI mode
	-build     Word list to build a dictionary file from
	-o         Output of -build (default "words.dic")
	-z         Compression of -build output: none, xz or zstd
	-name      Dictionary name of -build output (default "main")
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/ltomes/overboard/internal/cli"
	"github.com/ltomes/overboard/internal/logger"
	"github.com/ltomes/overboard/internal/utils"
	"github.com/ltomes/overboard/pkg/builder"
	"github.com/ltomes/overboard/pkg/config"
	"github.com/ltomes/overboard/pkg/dictionary"
	"github.com/ltomes/overboard/pkg/server"
	"github.com/ltomes/overboard/pkg/suggest"
)

const (
	Version = "0.1.0"
	AppName = "overboard"
	gh      = "https://github.com/ltomes/overboard"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow between modes, the work is done by the
// packages.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	showInfo := flag.Bool("info", false, "Describe the dictionary file and exit")
	dictPath := flag.String("dict", "", "Dictionary file (plain, .xz or .zst)")
	configPath := flag.String("config", "", "Config file path")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions (1 < n <= prmax)")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only)")
	buildList := flag.String("build", "", "Build a dictionary file from this word list")
	output := flag.String("o", "words.dic", "Output file of -build")
	compression := flag.String("z", "none", "Compression of -build output: none, xz or zstd")
	dictName := flag.String("name", defaultConfig.Dict.Name, "Dictionary name of -build output")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *buildList != "" {
		if err := build(*buildList, *output, *dictName, *compression); err != nil {
			log.Fatalf("Build failed: %v", err)
		}
		return
	}

	appConfig, activePath := config.Resolve(*configPath)
	if activePath == "" {
		activePath = "built-in defaults"
	}
	log.Debugf("Using config file: (%s)", activePath)

	pathResolver, err := utils.NewPathResolver(AppName)
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	if *debugMode {
		for k, v := range pathResolver.GetRuntimeInfo() {
			log.Debug("runtime", k, v)
		}
	}

	path := *dictPath
	if path == "" {
		path = appConfig.Dict.Path
	}
	if path, err = pathResolver.ResolveDictionary(path); err != nil {
		log.Fatalf("Failed to resolve dictionary: %v", err)
	}
	log.Debugf("Using dictionary file at: %s", path)

	loader, err := dictionary.NewRuntimeLoader(path)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}

	if *showInfo {
		if err := cli.PrintInfo(os.Stdout, loader); err != nil {
			log.Fatalf("Failed to describe dictionary: %v", err)
		}
		return
	}

	dict, err := loader.Dictionary(appConfig.Dict.Name)
	if err != nil {
		log.Fatalf("Failed to select dictionary: %v", err)
	}
	completer := suggest.NewCompleter(dict, suggest.Options{
		MaxDistance:   appConfig.Dict.MaxDistance,
		MaxWordLength: appConfig.Dict.MaxWordLength,
		CacheSize:     appConfig.Dict.CacheSize,
	})
	log.Debug("Completer init done", "dict", dict.Name())

	// CLI is mainly used for testing and debugging, new features should be
	// tried there first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(completer, *minPrefix, *maxPrefix, *limit, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(loader, completer, appConfig)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// build writes the dictionary file of one word list.
func build(list, output, name, compression string) error {
	comp, err := dictionary.ParseCompression(compression)
	if err != nil {
		return err
	}
	entries, err := builder.LoadWordList(list)
	if err != nil {
		return err
	}
	b := builder.New()
	d, err := b.Dict(name)
	if err != nil {
		return err
	}
	if err := d.AddEntries(entries); err != nil {
		return err
	}
	size, err := b.WriteFile(output, comp)
	if err != nil {
		return err
	}
	cli.PrintBuildSummary(os.Stdout, output, d.Len(), size, comp)
	return nil
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ Overboard ] Compact dictionaries, fast suggestions")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}
