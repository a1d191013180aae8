// cmd/matchability/features.go
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"matchability/internal/features"
)

const maxLineBytes = 4 << 20

func newFeaturesCommand(a *app) *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Export the named feature set of JSON-lines records as CSV",
		Long: `Reads one opportunity per line and writes every named feature the
serving pipeline computes, so training tables match what is scored.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bundle, err := a.loadBundle()
			if err != nil {
				return err
			}

			src := cmd.InOrStdin()
			if in != "-" {
				f, err := os.Open(in)
				if err != nil {
					return fmt.Errorf("open %s: %w", in, err)
				}
				defer f.Close()
				src = f
			}

			dst := cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				dst = f
			}

			rows, err := exportFeatures(src, dst, bundle.Pipeline)
			if err != nil {
				return err
			}
			a.log.Info("features exported", map[string]interface{}{
				"rows":    rows,
				"columns": len(bundle.Pipeline.ExportNames()),
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "JSON-lines input, - for stdin")
	cmd.Flags().StringVar(&out, "out", "-", "CSV output, - for stdout")
	return cmd
}

func exportFeatures(src io.Reader, dst io.Writer, pipeline *features.Pipeline) (int, error) {
	exporter := features.NewCSVExporter(dst, pipeline.ExportNames())

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var record features.Record
		if err := json.Unmarshal(raw, &record); err != nil {
			return exporter.Rows(), fmt.Errorf("line %d: %w", line, err)
		}
		if err := exporter.Write(recordID(record, line), pipeline.Compute(record)); err != nil {
			return exporter.Rows(), fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return exporter.Rows(), err
	}
	return exporter.Rows(), exporter.Flush()
}

// recordID prefers the opportunity's own id and falls back to the line
// number.
func recordID(r features.Record, line int) string {
	for _, key := range []string{"opportunity_id", "id"} {
		if id := r.Text(key); id != "" {
			return id
		}
	}
	return strconv.Itoa(line)
}
