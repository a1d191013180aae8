// cmd/matchability/main_test.go
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchability/internal/artifacts"
	"matchability/internal/artifacts/artifactstest"
	"matchability/internal/common/logger"
	"matchability/internal/features"
	"matchability/internal/scoring"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	arts := artifactstest.Default().Write(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "artifacts:\n  dir: " + arts.Dir + "\nlogging:\n  level: error\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "matchability version dev\n", out)
}

func TestScoreCommand(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := run(t, `{"data":{"name_entity":"France","name_region":"Europe","openings":3}}`,
		"score", "--config", cfgPath)
	require.NoError(t, err)

	var resp scoring.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "True", resp.Output)
}

func TestScoreCommand_InvalidInput(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := run(t, `["not","an","object"]`, "score", "--config", cfgPath)
	require.Error(t, err)

	var resp scoring.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ERROR", resp.Status)
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
}

func TestScoreCommand_MissingArtifacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("artifacts:\n  dir: "+t.TempDir()+"\n"), 0o600))

	_, err := run(t, `{}`, "score", "--config", path)
	require.Error(t, err)
}

func TestExportFeatures(t *testing.T) {
	b, err := artifacts.Load(artifactstest.Default().Write(t), logger.NewTestLogger(t))
	require.NoError(t, err)

	in := strings.Join([]string{
		`{"opportunity_id":"opp-1","name_entity":"France","openings":3}`,
		``,
		`{"name_entity":"India"}`,
	}, "\n")
	var out bytes.Buffer
	rows, err := exportFeatures(strings.NewReader(in), &out, b.Pipeline)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "opportunity_id", header[0])
	assert.Equal(t, b.Pipeline.ExportNames(), header[1:])
	assert.Equal(t, "opp-1", records[1][0])
	assert.Equal(t, "3", records[2][0])

	hdi := indexOf(header, "hdi")
	require.Positive(t, hdi)
	assert.Equal(t, "0.901", records[1][hdi])
	assert.Equal(t, "0.64", records[2][hdi])
}

func TestExportFeatures_BadLine(t *testing.T) {
	b, err := artifacts.Load(artifactstest.Default().Write(t), logger.NewTestLogger(t))
	require.NoError(t, err)

	_, err = exportFeatures(strings.NewReader("{}\n{oops\n"), &bytes.Buffer{}, b.Pipeline)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "a", recordID(features.Record{"opportunity_id": "a", "id": "b"}, 1))
	assert.Equal(t, "b", recordID(features.Record{"id": "b"}, 1))
	assert.Equal(t, "7", recordID(features.Record{"id": 12.0}, 7))
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
