package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/template"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/fetcher"
	"github.com/cloudpulse/cloudpulse/internal/history"
	"github.com/cloudpulse/cloudpulse/internal/meta"
	"github.com/cloudpulse/cloudpulse/internal/monitor"
	"github.com/cloudpulse/cloudpulse/internal/oplog"
	"github.com/cloudpulse/cloudpulse/internal/registry"
	"github.com/cloudpulse/cloudpulse/internal/schedule"
	"github.com/spf13/pflag"
)

func init() {
	fetcher.HTTPUserAgent = meta.UserAgent()
}

type CloudPulseCommand struct {
	OutStream io.Writer
	ErrStream io.Writer

	// Getenv reads the environment variables for the default values of options.
	// os.Getenv is used if nil.
	Getenv func(string) string

	ListenPort   int
	HistoryPath  string
	RegistryPath string
	Interval     string
	Timeout      time.Duration
	OneshotMode  bool
	ShowVersion  bool
	ShowHelp     bool

	Registry registry.Registry
	Schedule schedule.Schedule
}

var defaultCloudPulseCommand = &CloudPulseCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

//go:embed help.txt
var helpText string

func (cmd *CloudPulseCommand) PrintUsage(detail bool) {
	tmpl := template.Must(template.New("help.txt").Parse(helpText))
	tmpl.Execute(cmd.ErrStream, map[string]interface{}{
		"Version":         meta.Version,
		"HTTPRedirectMax": fetcher.HTTPRedirectMax,
		"UserAgent":       fetcher.HTTPUserAgent,
		"DefaultHistory":  DefaultHistoryPath,
		"DefaultInterval": DefaultInterval,
		"DefaultPort":     DefaultPort,
		"DefaultTimeout":  fetcher.DefaultTimeout,
		"Services":        registry.Default(),
		"Short":           !detail,
	})
}

func (cmd *CloudPulseCommand) getenv(key string) string {
	if cmd.Getenv != nil {
		return cmd.Getenv(key)
	}
	return os.Getenv(key)
}

func (cmd *CloudPulseCommand) ParseArgs(args []string) (exitCode int) {
	defaults, err := readEnvDefaults(cmd.getenv)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "invalid environment variable: %s\n", err)
		return 2
	}

	flags := pflag.NewFlagSet("cloudpulse", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	flags.IntVarP(&cmd.ListenPort, "port", "p", defaults.Port, "Dashboard listen port")
	flags.StringVarP(&cmd.HistoryPath, "history", "f", defaults.HistoryPath, "Path to history file")
	flags.StringVarP(&cmd.RegistryPath, "registry", "r", defaults.RegistryPath, "Path to service registry")
	flags.StringVarP(&cmd.Interval, "interval", "i", defaults.Interval, "Schedule of checks")
	flags.DurationVarP(&cmd.Timeout, "timeout", "t", defaults.Timeout, "Timeout of a request")
	flags.BoolVarP(&cmd.OneshotMode, "oneshot", "1", false, "Check status only once and exit")
	flags.BoolVarP(&cmd.ShowVersion, "version", "v", false, "Show version")
	flags.BoolVarP(&cmd.ShowHelp, "help", "h", false, "Show help message")

	if err := flags.Parse(args[1:]); err != nil {
		fmt.Fprintln(cmd.ErrStream, err)
		fmt.Fprintf(cmd.ErrStream, "\nPlease see `%s -h` for more information.\n", args[0])
		return 2
	}

	if cmd.ShowVersion || cmd.ShowHelp {
		return 0
	}

	if flags.NArg() > 0 {
		fmt.Fprintf(cmd.ErrStream, "invalid argument: unexpected argument: %q\n", flags.Arg(0))
		fmt.Fprintf(cmd.ErrStream, "\nPlease see `%s -h` for more information.\n", args[0])
		return 2
	}

	if cmd.OneshotMode {
		if flags.Changed("port") {
			fmt.Fprintln(cmd.ErrStream, "warning: port option will ignored in the oneshot mode.")
		}
		if flags.Changed("interval") {
			fmt.Fprintln(cmd.ErrStream, "warning: interval option will ignored in the oneshot mode.")
		}
	}

	if cmd.ListenPort < 0 || cmd.ListenPort > 65535 {
		fmt.Fprintf(cmd.ErrStream, "invalid argument: port must be between 0 and 65535: %d\n", cmd.ListenPort)
		return 2
	}

	if cmd.Timeout <= 0 {
		fmt.Fprintf(cmd.ErrStream, "invalid argument: timeout must be positive: %s\n", cmd.Timeout)
		return 2
	}

	if cmd.HistoryPath == "" {
		fmt.Fprintln(cmd.ErrStream, "invalid argument: history file path is empty.")
		return 2
	}

	cmd.Schedule, err = schedule.Parse(cmd.Interval)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "invalid argument: invalid interval: %q\n", cmd.Interval)
		return 2
	}

	if cmd.RegistryPath == "" {
		cmd.Registry = registry.Default()
	} else {
		cmd.Registry, err = registry.Load(cmd.RegistryPath)
		if err != nil {
			fmt.Fprintf(cmd.ErrStream, "error: failed to load registry: %s\n", err)
			return 2
		}
	}

	if err := cmd.Registry.Validate(); err != nil {
		fmt.Fprintln(cmd.ErrStream, err)
		return 2
	}

	return 0
}

func (cmd *CloudPulseCommand) PrintVersion() {
	fmt.Fprintf(cmd.OutStream, "Cloud-Pulse version %s (%s)\n", meta.Version, meta.Commit)
}

// NewMonitor makes a monitor that records into the history file, and logs into OutStream.
func (cmd *CloudPulseCommand) NewMonitor() *monitor.Monitor {
	logger := oplog.New(cmd.OutStream)

	s := history.New(cmd.HistoryPath)
	s.Logger = logger

	f := fetcher.New()
	f.Timeout = cmd.Timeout

	return monitor.New(cmd.Registry, f, s, logger)
}

func (cmd *CloudPulseCommand) Run(args []string) (exitCode int) {
	if code := cmd.ParseArgs(args); code != 0 {
		return code
	}

	if cmd.ShowVersion {
		cmd.PrintVersion()
		return 0
	}

	if cmd.ShowHelp {
		cmd.PrintUsage(true)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := cmd.NewMonitor()

	if cmd.OneshotMode {
		return cmd.RunOneshot(ctx, m)
	}
	return cmd.RunServer(ctx, m)
}

func main() {
	if err := loadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load .env: %s\n", err)
		os.Exit(2)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "oneshot":
			os.Args[1] = "-1"
			os.Exit(defaultCloudPulseCommand.Run(os.Args))
		case "conv", "convert":
			os.Exit(defaultConvCommand.Run(os.Args))
		case "mcp":
			os.Exit(defaultMCPCommand.Run(os.Args))
		}
	}

	os.Exit(defaultCloudPulseCommand.Run(os.Args))
}
