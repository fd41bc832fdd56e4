package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/export"
	"github.com/cloudpulse/cloudpulse/internal/history"
	"github.com/cloudpulse/cloudpulse/internal/oplog"
	"github.com/spf13/pflag"
)

// CurrentTime is the clock for the document properties of XLSX.
var CurrentTime = time.Now

type ConvCommand struct {
	InStream  io.Reader
	OutStream io.Writer
	ErrStream io.Writer
}

var defaultConvCommand = &ConvCommand{
	InStream:  os.Stdin,
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

const ConvHelp = `Cloud-Pulse conv -- Convert the history file to other format

Usage: cloudpulse conv [OPTIONS...] [INPUT...]

INPUT is a history file. Standard input is read if omitted or "-".
Snapshots of multiple inputs are concatenated in the given order.

Options:
  -o, --output  Output file. (default stdout)
  -t, --tail    Keep only the newest N snapshots. (default all)

  -c, --csv     Convert to CSV.
  -j, --json    Convert to JSON.
  -l, --ltsv    Convert to LTSV.
  -x, --xlsx    Convert to XLSX.

  -h, --help    Show this help message and exit.

The format follows the extension of --output if no format is given,
and CSV is used if that does not tell either.
`

var errMultipleFormats = errors.New("flags for output format can not use multiple in the same time.")

func (c ConvCommand) Run(args []string) int {
	flags := pflag.NewFlagSet("cloudpulse conv", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	outputPath := flags.StringP("output", "o", "", "Output file")
	tail := flags.IntP("tail", "t", -1, "Keep only the newest N snapshots")

	chosen := map[export.Format]*bool{
		export.CSV:  flags.BoolP("csv", "c", false, "Convert to CSV"),
		export.JSON: flags.BoolP("json", "j", false, "Convert to JSON"),
		export.LTSV: flags.BoolP("ltsv", "l", false, "Convert to LTSV"),
		export.XLSX: flags.BoolP("xlsx", "x", false, "Convert to XLSX"),
	}

	help := flags.BoolP("help", "h", false, "Show this message and exit")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(c.ErrStream, err)
		fmt.Fprintf(c.ErrStream, "\nPlease see `%s %s -h` for more information.\n", args[0], args[1])
		return 2
	}

	if *help {
		fmt.Fprint(c.OutStream, ConvHelp)
		return 0
	}

	toFile := *outputPath != "" && *outputPath != "-"

	format, err := pickFormat(chosen, *outputPath)
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: %s\n", err)
		return 2
	}
	if format == export.XLSX && !toFile && oplog.IsTerminal(c.OutStream) {
		fmt.Fprintln(c.ErrStream, "error: can not write xlsx format to stdout. please redirect or use -o option.")
		return 2
	}

	h, err := c.readInputs(flags.Args()[2:])
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: failed to read history file: %s\n", err)
		return 1
	}
	if *tail >= 0 {
		h = h.Tail(*tail)
	}

	output := c.OutStream
	if toFile {
		f, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(c.ErrStream, "error: failed to open output file: %s\n", err)
			return 1
		}
		defer f.Close()
		output = f
	}

	if err := export.Write(output, format, h, CurrentTime()); err != nil {
		fmt.Fprintf(c.ErrStream, "error: failed to write: %s\n", err)
		return 1
	}

	return 0
}

// pickFormat decides the output format from the format flags, or else from the extension of the output path.
func pickFormat(chosen map[export.Format]*bool, outputPath string) (export.Format, error) {
	var format export.Format
	for _, f := range export.Formats {
		if *chosen[f] {
			if format != "" {
				return "", errMultipleFormats
			}
			format = f
		}
	}
	if format != "" {
		return format, nil
	}

	if f, err := export.ParseFormat(filepath.Ext(outputPath)); err == nil {
		return f, nil
	}
	return export.CSV, nil
}

// readInputs concatenates the histories in paths. An empty list means the standard input.
func (c ConvCommand) readInputs(paths []string) (history.History, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	var h history.History
	for _, path := range paths {
		xs, err := c.readHistory(path)
		if err != nil {
			return nil, err
		}
		h = append(h, xs...)
	}
	return h, nil
}

func (c ConvCommand) readHistory(path string) (history.History, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(c.InStream)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return history.Decode(raw, history.AcceptSingleObject)
}
