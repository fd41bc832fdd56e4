package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudpulse/cloudpulse/internal/dashboard"
	"github.com/cloudpulse/cloudpulse/internal/fetcher"
	mcputil "github.com/cloudpulse/cloudpulse/internal/mcp"
	"github.com/cloudpulse/cloudpulse/internal/oplog"
	"github.com/cloudpulse/cloudpulse/internal/registry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"
)

// MCPCommand represents the MCP subcommand.
type MCPCommand struct {
	InStream  io.ReadCloser
	OutStream io.WriteCloser
	ErrStream io.Writer

	// Getenv reads the environment variables for the default values of options.
	// os.Getenv is used if nil.
	Getenv func(string) string
}

var defaultMCPCommand = &MCPCommand{
	InStream:  os.Stdin,
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

const MCPHelp = `Cloud-Pulse mcp -- Start local MCP server on stdio

Usage: cloudpulse mcp [OPTIONS...]

The server reads the history file that the monitor records,
and can check the registered services on demand without recording.

Options:
  -f, --history   Path to history file. (default "data/status_history.json")
  -r, --registry  Path to service registry. (default built-in services)
  -t, --timeout   Timeout of a request. (default 10s)
  -h, --help      Show this help message and exit.
`

func (c *MCPCommand) getenv(key string) string {
	if c.Getenv != nil {
		return c.Getenv(key)
	}
	return os.Getenv(key)
}

func (c *MCPCommand) Run(args []string) int {
	defaults, err := readEnvDefaults(c.getenv)
	if err != nil {
		fmt.Fprintf(c.ErrStream, "invalid environment variable: %s\n", err)
		return 2
	}

	flags := pflag.NewFlagSet("cloudpulse mcp", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	historyPath := flags.StringP("history", "f", defaults.HistoryPath, "Path to history file")
	registryPath := flags.StringP("registry", "r", defaults.RegistryPath, "Path to service registry")
	timeout := flags.DurationP("timeout", "t", defaults.Timeout, "Timeout of a request")
	help := flags.BoolP("help", "h", false, "Show this message and exit")

	if err := flags.Parse(args[1:]); err != nil {
		fmt.Fprintln(c.ErrStream, err)
		fmt.Fprintf(c.ErrStream, "\nPlease see `%s mcp -h` for more information.\n", args[0])
		return 2
	}

	if *help {
		io.WriteString(c.ErrStream, MCPHelp)
		return 0
	}

	if *timeout <= 0 {
		fmt.Fprintf(c.ErrStream, "invalid argument: timeout must be positive: %s\n", *timeout)
		return 2
	}

	reg := registry.Default()
	if *registryPath != "" {
		reg, err = registry.Load(*registryPath)
		if err != nil {
			fmt.Fprintf(c.ErrStream, "error: failed to load registry: %s\n", err)
			return 2
		}
	}
	if err := reg.Validate(); err != nil {
		fmt.Fprintln(c.ErrStream, err)
		return 2
	}

	// Stdout is the transport, so logs go to stderr.
	src := dashboard.NewFileSource(*historyPath, oplog.New(c.ErrStream))

	f := fetcher.New()
	f.Timeout = *timeout

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := mcputil.NewLocalServer(src, reg, f)

	transport := &mcp.IOTransport{
		Reader: c.InStream,
		Writer: c.OutStream,
	}
	if err := server.Run(ctx, transport); err != nil && ctx.Err() == nil {
		fmt.Fprintf(c.ErrStream, "error: MCP server error: %s\n", err)
		return 1
	}

	return 0
}
