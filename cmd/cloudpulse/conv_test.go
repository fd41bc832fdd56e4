package main_test

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/cloudpulse/cloudpulse/cmd/cloudpulse"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

const testHistory = `[
    {"timestamp": "2026-10-19 09:00:00", "A": "Operational", "B": "Offline (HTTP 503)"},
    {"timestamp": "2026-10-19 09:10:00", "A": "Operational", "B": "Operational"}
]`

const testHistoryCSV = "timestamp,A,B,health_percent\n" +
	"2026-10-19 09:00:00,Operational,Offline (HTTP 503),50.0\n" +
	"2026-10-19 09:10:00,Operational,Operational,100.0\n"

const testHistoryLTSV = "timestamp:2026-10-19 09:00:00\tA:Operational\tB:Offline (HTTP 503)\thealth_percent:50.0\n" +
	"timestamp:2026-10-19 09:10:00\tA:Operational\tB:Operational\thealth_percent:100.0\n"

const testHistoryJSON = `[
    {
        "timestamp": "2026-10-19 09:00:00",
        "A": "Operational",
        "B": "Offline (HTTP 503)"
    },
    {
        "timestamp": "2026-10-19 09:10:00",
        "A": "Operational",
        "B": "Operational"
    }
]
`

func TestConvCommand_Run(t *testing.T) {
	historyFile := filepath.Join(t.TempDir(), "status_history.json")
	if err := os.WriteFile(historyFile, []byte(testHistory), 0644); err != nil {
		t.Fatalf("failed to prepare history file: %s", err)
	}

	tests := []struct {
		args   []string
		stdin  string
		stdout string
		stderr string
		code   int
	}{
		{
			[]string{},
			testHistory,
			testHistoryCSV,
			"",
			0,
		},
		{
			[]string{"-c"},
			testHistory,
			testHistoryCSV,
			"",
			0,
		},
		{
			[]string{"--csv", "-"},
			testHistory,
			testHistoryCSV,
			"",
			0,
		},
		{
			[]string{"-c", historyFile},
			"",
			testHistoryCSV,
			"",
			0,
		},
		{
			[]string{"-j"},
			testHistory,
			testHistoryJSON,
			"",
			0,
		},
		{
			[]string{"--json", "-o", "-"},
			testHistory,
			testHistoryJSON,
			"",
			0,
		},
		{
			[]string{"-l"},
			testHistory,
			testHistoryLTSV,
			"",
			0,
		},
		{
			[]string{"-l"},
			`{"timestamp": "2026-10-19 09:00:00", "A": "Operational", "B": "Offline (HTTP 503)"}`,
			strings.SplitAfter(testHistoryLTSV, "\n")[0],
			"",
			0,
		},
		{
			[]string{"-t", "1"},
			testHistory,
			"timestamp,A,B,health_percent\n" + strings.SplitAfter(testHistoryCSV, "\n")[2],
			"",
			0,
		},
		{
			[]string{"--tail", "0", "-l"},
			testHistory,
			"",
			"",
			0,
		},
		{
			[]string{"--tail", "10", "-l"},
			testHistory,
			testHistoryLTSV,
			"",
			0,
		},
		{
			[]string{"-j", "-c"},
			``,
			"",
			"error: flags for output format can not use multiple in the same time.\n",
			2,
		},
		{
			[]string{"-c", "./testdata/no-such-file"},
			``,
			"",
			"error: failed to read history file: .*\n",
			1,
		},
		{
			[]string{"-c"},
			`"hello"`,
			"",
			"error: failed to read history file: history file is corrupted.*\n",
			1,
		},
		{
			[]string{"-h"},
			``,
			main.ConvHelp,
			"",
			0,
		},
		{
			[]string{"--no-such-option"},
			``,
			"",
			"unknown flag: --no-such-option\n\nPlease see `cloudpulse conv -h` for more information.\n",
			2,
		},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, "_"), func(t *testing.T) {
			stdin := strings.NewReader(tt.stdin)
			stdout := bytes.NewBuffer(nil)
			stderr := bytes.NewBuffer(nil)
			cmd := main.ConvCommand{stdin, stdout, stderr}

			if code := cmd.Run(append([]string{"cloudpulse", "conv"}, tt.args...)); tt.code != code {
				t.Errorf("expected exit code is %d but got %d", tt.code, code)
			}

			if diff := cmp.Diff(tt.stdout, stdout.String()); diff != "" {
				t.Errorf("unexpected stdout\n%s", diff)
			}

			if ok, _ := regexp.Match("^"+tt.stderr+"$", stderr.Bytes()); !ok {
				t.Errorf("unexpected stderr\nexpected: %s\n but got: %s", tt.stderr, stderr.String())
			}
		})
	}

	t.Run("multiple-inputs", func(t *testing.T) {
		stdin := strings.NewReader(`[{"timestamp": "2026-10-19 09:20:00", "A": "Operational"}]`)
		stdout := bytes.NewBuffer(nil)
		stderr := bytes.NewBuffer(nil)
		cmd := main.ConvCommand{stdin, stdout, stderr}

		if code := cmd.Run([]string{"cloudpulse", "conv", historyFile, "-"}); code != 0 {
			t.Fatalf("unexpected exit code: %d: %s", code, stderr.String())
		}

		want := testHistoryCSV + "2026-10-19 09:20:00,Operational,,100.0\n"
		if diff := cmp.Diff(want, stdout.String()); diff != "" {
			t.Errorf("unexpected stdout\n%s", diff)
		}
	})

	t.Run("write-file", func(t *testing.T) {
		stdin := strings.NewReader(testHistory)
		stdout := bytes.NewBuffer(nil)
		stderr := bytes.NewBuffer(nil)
		cmd := main.ConvCommand{stdin, stdout, stderr}

		fpath := filepath.Join(t.TempDir(), "audit.csv")

		if code := cmd.Run([]string{"cloudpulse", "conv", "-o", fpath}); code != 0 {
			t.Fatalf("unexpected exit code: %d", code)
		}

		if len(stdout.Bytes()) > 0 {
			t.Errorf("unexpected stdout\n%s", stdout.String())
		}

		if len(stderr.Bytes()) > 0 {
			t.Errorf("unexpected stderr\n%s", stderr.String())
		}

		output, err := os.ReadFile(fpath)
		if err != nil {
			t.Fatalf("failed to read output file: %s", err)
		}
		if diff := cmp.Diff(testHistoryCSV, string(output)); diff != "" {
			t.Errorf("%s", diff)
		}
	})
}

func TestConvCommand_Run_formatFromExtension(t *testing.T) {
	tests := []struct {
		File   string
		Args   []string
		Output string
	}{
		{"audit.json", nil, testHistoryJSON},
		{"audit.LTSV", nil, testHistoryLTSV},
		{"audit.txt", nil, testHistoryCSV},
		{"audit", nil, testHistoryCSV},
		{"audit.json", []string{"-c"}, testHistoryCSV},
	}

	for _, tt := range tests {
		t.Run(tt.File+"_"+strings.Join(tt.Args, "_"), func(t *testing.T) {
			stdin := strings.NewReader(testHistory)
			stderr := bytes.NewBuffer(nil)
			cmd := main.ConvCommand{stdin, bytes.NewBuffer(nil), stderr}

			fpath := filepath.Join(t.TempDir(), tt.File)

			args := append([]string{"cloudpulse", "conv", "-o", fpath}, tt.Args...)
			if code := cmd.Run(args); code != 0 {
				t.Fatalf("unexpected exit code: %d: %s", code, stderr.String())
			}

			output, err := os.ReadFile(fpath)
			if err != nil {
				t.Fatalf("failed to read output file: %s", err)
			}
			if diff := cmp.Diff(tt.Output, string(output)); diff != "" {
				t.Errorf("%s", diff)
			}
		})
	}
}

func TestConvCommand_Run_xlsx(t *testing.T) {
	stdin := strings.NewReader(testHistory)
	output := bytes.NewBuffer(nil)
	cmd := main.ConvCommand{stdin, output, output}

	temp := filepath.Join(t.TempDir(), "audit.xlsx")

	if code := cmd.Run([]string{"cloudpulse", "conv", "-x", "-o", temp}); code != 0 {
		t.Fatalf("expected exit code is 0 but got %d: %s", code, output.String())
	}

	f, err := excelize.OpenFile(temp)
	if err != nil {
		t.Fatalf("failed to open output file: %s", err)
	}
	defer f.Close()

	props, err := f.GetDocProps()
	if err != nil {
		t.Fatalf("failed to get document properties: %s", err)
	}
	if props.Created != "2026-10-19T16:05:06Z" {
		t.Errorf("unexpected created time: %s", props.Created)
	}

	v, err := f.GetCellValue("audit", "C2")
	if err != nil {
		t.Fatalf("failed to get cell value: %s", err)
	}
	if v != "Offline (HTTP 503)" {
		t.Errorf("unexpected cell value: %q", v)
	}
}
