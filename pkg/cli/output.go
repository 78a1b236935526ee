package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

type OutputOptions struct {
	Format OutputFormat
	Quiet  bool
	Writer io.Writer
}

func NewOutputOptions() *OutputOptions {
	return &OutputOptions{
		Format: OutputTable,
		Quiet:  false,
		Writer: os.Stdout,
	}
}

// Print renders data in the configured format. headers and rows drive the
// table rendering; JSON and YAML marshal data directly, so the two views
// should describe the same values.
func (o *OutputOptions) Print(data any, headers []string, rows [][]string) error {
	if o.Quiet {
		return nil
	}

	switch o.Format {
	case OutputJSON:
		return o.printJSON(data)
	case OutputYAML:
		return o.printYAML(data)
	default:
		return o.printTable(headers, rows)
	}
}

// Println writes a plain line unless quiet mode is on. Progress and
// confirmation messages go through here so -q silences them too.
func (o *OutputOptions) Println(line string) {
	if o.Quiet {
		return
	}
	fmt.Fprintln(o.Writer, line)
}

func (o *OutputOptions) printJSON(data any) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(o.Writer, string(b))
	return nil
}

func (o *OutputOptions) printYAML(data any) error {
	b, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal YAML: %w", err)
	}
	fmt.Fprint(o.Writer, string(b))
	return nil
}

func (o *OutputOptions) printTable(headers []string, rows [][]string) error {
	if len(rows) == 0 {
		fmt.Fprintln(o.Writer, "No items")
		return nil
	}

	w := tabwriter.NewWriter(o.Writer, 0, 0, 2, ' ', 0)

	if len(headers) > 0 {
		fmt.Fprintln(w, strings.Join(headers, "\t"))
		fmt.Fprintln(w, strings.Join(makeSeparators(len(headers)), "\t"))
	}

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return w.Flush()
}

func makeSeparators(n int) []string {
	seps := make([]string, n)
	for i := range seps {
		seps[i] = "----"
	}
	return seps
}
