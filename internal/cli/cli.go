// Package cli implements the wallgen command-line interface.
//
// # Commands
//
//   - contours: generate the walls of a scene file
//   - preview: render a scene's walls to PNG
//   - mark: tag drawings as walls or doors
//   - serve: run the HTTP server and wall session
//   - version: print build information
//
// Every command accepts --config (-c) for a TOML settings file and
// --verbose (-v) for debug logging.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/wallgen"
	"github.com/gogpu/wallgen/internal/config"
)

const appName = "wallgen"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Build information, set by main from ldflags.
var (
	Commit = "none"
	Date   = "unknown"
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath      string
	verbose         bool
	sampleDistance  float64
	strokeTolerance float64
}

// New creates a CLI logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "wallgen turns scene drawings into wall geometry",
		Long: `wallgen strokes the drawings of a scene that are tagged as walls, cuts
door openings out of them and keeps the resulting wall items in sync with
the drawings.`,
		Version:           wallgen.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(versionTemplate())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "TOML settings file")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.Float64Var(&c.sampleDistance, "sample-distance", 0, "max distance between points on curved walls")
	flags.Float64Var(&c.strokeTolerance, "stroke-tolerance", 0, "curve flattening tolerance")

	root.AddCommand(c.contoursCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.markCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// setup loads settings, applies flag overrides and installs the logger as
// the library's slog handler.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("sample-distance") {
		cfg.SampleDistance = c.sampleDistance
	}
	if flags.Changed("stroke-tolerance") {
		cfg.StrokeTolerance = c.strokeTolerance
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	wallgen.SetLogger(slog.New(c.Logger))

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) extractor() *wallgen.Extractor {
	return wallgen.NewExtractor(c.Config.ExtractorOptions()...)
}

func versionTemplate() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", wallgen.Version, Commit, Date)
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			printKeyValue(w, "version", wallgen.Version)
			printKeyValue(w, "commit", Commit)
			printKeyValue(w, "built", Date)
		},
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
