package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/errors"
)

// CLI defines the command-line interface
type CLI struct {
	Config     string           `help:"Path to a config file. Defaults to the nearest .jsonkit.yml." short:"c" type:"path"`
	Debug      bool             `help:"Enable debug logging." short:"d"`
	Version    kong.VersionFlag `help:"Show version information." short:"v"`
	StrictYAML bool             `help:"Reject malformed YAML instead of reading it leniently." name:"strict-yaml"`
	NoRepair   bool             `help:"Do not retry malformed JSON after repairing common mistakes." name:"no-repair"`

	Validate ValidateCmd `cmd:"" help:"Check that a document parses and report its format."`
	Fmt      FmtCmd      `cmd:"" help:"Reformat a document or convert it between JSON and YAML."`
	Diff     DiffCmd     `cmd:"" help:"Compare two documents."`
	Apply    ApplyCmd    `cmd:"" help:"Apply a JSON Patch or merge patch to a document."`
	Get      GetCmd      `cmd:"" help:"Print the value at a path."`
	Set      SetCmd      `cmd:"" help:"Store a value at a path."`
	Rename   RenameCmd   `cmd:"" help:"Rename a key of the object at a path."`
	Delete   DeleteCmd   `cmd:"" help:"Remove the value at a path."`
	Insert   InsertCmd   `cmd:"" help:"Add an empty child to the object or array at a path."`
	Paths    PathsCmd    `cmd:"" help:"List the paths of a document."`
	Stats    StatsCmd    `cmd:"" help:"Count the values of a document."`
	Schema   SchemaCmd   `cmd:"" help:"Infer a JSON Schema from sample documents."`
}

// Context holds the runtime context shared by every command
type Context struct {
	Config *config.Config
	Logger *zap.Logger

	Stdin io.Reader
	Out   io.Writer
	Err   io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

// exitCode is raised through panic by kong's exit hook so run can return
// instead of ending the process.
type exitCode int

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run parses args, executes the selected command and returns the process
// exit status: 0 on success, 1 on failure or when diff --exit-code finds
// differences, 2 on invalid usage.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("jsonkit"),
		kong.Description("Parse, convert, edit and compare JSON and YAML documents"),
		kong.UsageOnError(),
		kong.Vars{"version": "jsonkit version " + Version},
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "jsonkit: %v\n", err)
		fmt.Fprintf(stderr, "\nFor help, run: jsonkit --help\n")
		return 2
	}

	ctx, err := newContext(&cli, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	defer func() { _ = ctx.Logger.Sync() }()

	ctx.Logger.Debug("running command", zap.String("command", kctx.Command()))
	if err := kctx.Run(ctx); err != nil {
		if stderrors.Is(err, errors.ErrDocumentsDiffer) {
			return 1
		}
		ctx.Logger.Debug("command failed", zap.Error(err))
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	return 0
}

// newContext resolves the config file, applies the global flags over it and
// builds the logger.
func newContext(cli *CLI, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	fileCfg, configPath, err := config.Resolve(cli.Config)
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}

	cfg := config.MergeConfigs(fileCfg, &config.Config{
		Parse: config.ParseConfig{StrictYAML: cli.StrictYAML},
		Dev:   config.DevConfig{Debug: cli.Debug},
	})
	if cli.NoRepair {
		cfg.Parse.Repair = false
	}

	logger, err := newLogger(cfg.Dev.Debug)
	if err != nil {
		return nil, errors.NewConfigError("failed to create logger", err)
	}
	if configPath != "" {
		logger.Debug("loaded config", zap.String("path", configPath))
	}

	return &Context{
		Config: cfg,
		Logger: logger,
		Stdin:  stdin,
		Out:    stdout,
		Err:    stderr,
	}, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
