// cmd/matchability/score.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"matchability/internal/api"
	"matchability/internal/models"
	"matchability/internal/scoring"
)

func newScoreCommand(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one opportunity read from a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			bundle, err := a.loadBundle()
			if err != nil {
				return err
			}
			svc := a.offlineService(bundle)

			var resp scoring.Response
			record, err := api.ParseRecord(body)
			if err == nil {
				var p *models.Prediction
				p, err = svc.ScoreRecord(cmd.Context(), record, models.SourceCLI)
				if err == nil {
					resp = svc.Success(p)
				}
			}
			if err != nil {
				resp = svc.Failure(err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(resp); encErr != nil {
				return encErr
			}
			if resp.Status != scoring.StatusOK {
				return fmt.Errorf("scoring failed: %s", resp.Code)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "opportunity JSON file, - for stdin")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}
