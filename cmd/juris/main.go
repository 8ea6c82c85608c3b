// Package main is the juris CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/juris/internal/cli"
	"github.com/hyperjump/juris/internal/config"
	"github.com/hyperjump/juris/internal/extract"
	"github.com/hyperjump/juris/internal/ingest"
	"github.com/hyperjump/juris/internal/llm"
	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/internal/prompt"
	"github.com/hyperjump/juris/internal/server"
	"github.com/hyperjump/juris/internal/session"
	"github.com/hyperjump/juris/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/juris/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development). If neither exists, the
// built-in defaults are used. An explicit path that does not exist is an error.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "inspect":
		runInspect()
	case "prompt":
		runPrompt()
	case "ask":
		runAsk()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("juris version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (uploads, extraction, model requests)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	pipeline, err := newPipeline(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize pipeline", zap.Error(err))
	}
	var gen llm.Generator
	gemini, err := llm.NewGemini(context.Background(), &cfg.LLM, llm.WithLogger(logger))
	switch {
	case errors.Is(err, llm.ErrNoAPIKey):
		logger.Warn("no API key configured; messages will fail until one is set", zap.String("env", config.EnvAPIKey))
		gen = llm.Unavailable{Err: err}
	case err != nil:
		logger.Fatal("Failed to initialize generator", zap.Error(err))
	default:
		gen = gemini
	}

	srv := server.NewServer(session.NewManager(pipeline, gen, logger), cfg.Upload.MaxBytes, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runInspect() {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	engine := fs.String("engine", "", "PDF engine override: ledongthuc or pdfcpu")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: juris inspect [flags] <file>")
		os.Exit(1)
	}
	format, err := parseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, logger := mustSetup(*configPath)
	defer logger.Sync()
	if *engine != "" {
		cfg.PDF.Engine = *engine
	}

	doc := mustIngest(cfg, logger, fs.Arg(0))
	if err := cli.WriteDescriptor(os.Stdout, doc, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runPrompt() {
	fs := flag.NewFlagSet("prompt", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: juris prompt [flags] <file|-> [question]")
		os.Exit(1)
	}
	cfg, logger := mustSetup(*configPath)
	defer logger.Sync()

	var doc *models.UploadedFile
	if fs.Arg(0) != "-" {
		doc = mustIngest(cfg, logger, fs.Arg(0))
	}
	question := buildQuestion(fs.Args()[1:])
	if doc == nil && question == "" {
		fmt.Println("A question is required when no file is given")
		os.Exit(1)
	}
	fmt.Println(prompt.Compose(doc, question))
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	file := fs.String("file", "", "document to attach to the question")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	question := buildQuestion(fs.Args())
	if question == "" && *file == "" {
		fmt.Println("Usage: juris ask [--file <file>] <question>")
		os.Exit(1)
	}

	cfg, logger := mustSetup(*configPath)
	defer logger.Sync()

	pipeline, err := newPipeline(cfg, logger)
	if err != nil {
		fmt.Printf("Failed to initialize pipeline: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	gen, err := llm.NewGemini(ctx, &cfg.LLM, llm.WithLogger(logger))
	if err != nil {
		fmt.Printf("Failed to initialize generator: %v\n", err)
		os.Exit(1)
	}

	sess := session.New(pipeline, gen, logger)
	if *file != "" {
		cand, err := extract.CandidateFromFile(*file, "")
		if err != nil {
			fmt.Printf("Failed to open file: %v\n", err)
			os.Exit(1)
		}
		if _, err := sess.Upload(ctx, cand); err != nil {
			reportIngestFailure(os.Stderr, err)
			os.Exit(1)
		}
	}
	reply, err := sess.Submit(ctx, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(reply.Content)
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])

	path := "config.yaml"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if err := writeDefaultConfig(path, *force); err != nil {
		fmt.Printf("Failed to write config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", path)
}

// writeDefaultConfig saves the built-in defaults to path. The API key is left
// empty so it is never copied from the environment into a file.
func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return config.Save(path, cfg)
}

func mustSetup(configPath string) (*config.Config, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger
}

func mustIngest(cfg *config.Config, logger *zap.Logger, path string) *models.UploadedFile {
	pipeline, err := newPipeline(cfg, logger)
	if err != nil {
		fmt.Printf("Failed to initialize pipeline: %v\n", err)
		os.Exit(1)
	}
	doc, err := ingestFile(context.Background(), pipeline, path)
	if err != nil {
		reportIngestFailure(os.Stderr, err)
		os.Exit(1)
	}
	return doc
}

// newPipeline builds the ingest pipeline from cfg.
func newPipeline(cfg *config.Config, logger *zap.Logger) (*ingest.Pipeline, error) {
	engine, err := extract.NewPDFEngine(cfg.PDF.Engine)
	if err != nil {
		return nil, err
	}
	ex := extract.NewExtractor(extract.WithPDFEngine(engine), extract.WithLogger(logger))
	return ingest.NewPipeline(extract.NewValidator(cfg.Upload.MaxBytes), ex, ingest.WithLogger(logger)), nil
}

// ingestFile runs the file at path through p. The declared type comes from
// the extension, falling back to a content sniff.
func ingestFile(ctx context.Context, p *ingest.Pipeline, path string) (*models.UploadedFile, error) {
	cand, err := extract.CandidateFromFile(path, "")
	if err != nil {
		return nil, err
	}
	return p.Ingest(ctx, cand)
}

func reportIngestFailure(w io.Writer, err error) {
	var ie *ingest.IngestError
	if !errors.As(err, &ie) {
		fmt.Fprintf(w, "Failed: %v\n", err)
		return
	}
	cli.WriteWarnings(w, ie.Warnings)
	cli.WriteFailure(w, ie)
}

func parseFormat(s string) (cli.OutputFormat, error) {
	switch s {
	case "json":
		return cli.OutputJSON, nil
	case "text":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// buildQuestion joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the
// positional arguments to the front of the slice so that flag.Parse() sees them.
// Go's flag package stops at the first non-flag argument, so
// "juris ask \"question\" --file nda.pdf" would otherwise leave --file unparsed.
// A lone "-" is positional, not a flag.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 1 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printUsage() {
	fmt.Println(`juris - AI legal assistant backend

Usage:
  juris server [flags]                    Start the HTTP server
  juris inspect [flags] <file>            Show the descriptor of a document
  juris prompt [flags] <file|-> [question]  Print the prompt that would be sent (- for no document)
  juris ask [flags] <question>            Ask Gemini a question, optionally about a document
  juris init [--force] [path]             Write a default config file (default: ./config.yaml)
  juris version                           Show version
  juris help                              Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/juris/config.yaml)
  --debug            Enable debug logging

Inspect Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)
  --engine string    PDF engine: ledongthuc or pdfcpu (default from config)

Ask Flags:
  --config string    Config file path
  --file string      Document to attach

Environment:
  JURIS_GEMINI_API_KEY   Gemini API key (overrides llm.api_key)

Examples:
  juris server
  juris inspect lease.pdf
  juris inspect --output json nda.txt
  juris prompt contract.pdf "Is the termination clause fair?"
  juris prompt - "Can I break my lease?"
  juris ask --file nda.pdf "How long does confidentiality last?"
  juris ask What is consideration in contract law?`)
}
