package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/prefixkv/internal/cli/config"
	"github.com/yndnr/prefixkv/internal/cli/connection"
	"github.com/yndnr/prefixkv/internal/cli/output"
	"github.com/yndnr/prefixkv/internal/infra/buildinfo"
)

const settingsKey = "settings"

// App creates the CLI application.
func App() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "prefixkv-cli %s\n", buildinfo.String())
	}

	return &cli.App{
		Name:      "prefixkv-cli",
		Usage:     "prefixkv command-line client and benchmark tool",
		Version:   buildinfo.Version,
		ArgsUsage: "[command line]",
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			ExecCommand(),
			REPLCommand(),
			BenchCommand(),
		},
		Before: loadSettings,
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return execAction(c)
			}
			return replAction(c)
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	defaults := config.Default()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"PREFIXKV_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "prefixkv server address",
			EnvVars: []string{"PREFIXKV_CLI_SERVER"},
			Value:   defaults.Server,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Dial and request timeout",
			Value: defaults.Timeout,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Report format: table, json, yaml",
			Value:   defaults.Output,
		},
	}
}

// Settings is the resolved CLI configuration for one invocation.
type Settings struct {
	*config.CLIConfig
	Format output.Format
}

// loadSettings merges the config file with explicitly set flags.
func loadSettings(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	var o config.Overrides
	if c.IsSet("server") {
		o.Server = c.String("server")
	}
	if c.IsSet("timeout") {
		o.Timeout = c.Duration("timeout")
	}
	if c.IsSet("output") {
		o.Output = c.String("output")
	}
	config.Merge(cfg, o)

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[settingsKey] = &Settings{CLIConfig: cfg, Format: format}
	return nil
}

// GetSettings retrieves the resolved settings from context.
func GetSettings(c *cli.Context) *Settings {
	if s, ok := c.App.Metadata[settingsKey].(*Settings); ok {
		return s
	}
	return &Settings{CLIConfig: config.Default(), Format: output.FormatTable}
}

func newClient(c *cli.Context) *connection.Client {
	s := GetSettings(c)
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = connection.DefaultTimeout
	}
	return connection.NewClient(s.Server, timeout)
}

func render(c *cli.Context, data any) error {
	return output.NewFormatter(GetSettings(c).Format).Format(c.App.Writer, data)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
