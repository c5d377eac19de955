package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCfg(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "diaflow.cue")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write cfg: %v", err)
	}
	return p
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeCfg(t, "{\n  configVersion: \"1\"\n}\n"))
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, ActionPipeline, cfg.Action)
	assert.Equal(t, want.Layout, cfg.Layout)
	assert.Equal(t, want.Params, cfg.Params)
	assert.Equal(t, "java", cfg.Tools.Java)
	assert.False(t, cfg.Tools.HasThermoRawFileParser)
	assert.Equal(t, 1, cfg.Execution.Workers)
	assert.Equal(t, "8G", cfg.Execution.JavaHeap)
	assert.Equal(t, []string{"1"}, cfg.Search.Tiers)
	assert.Equal(t, []string{"3", "9"}, cfg.Reports.IDs)
	assert.True(t, cfg.Reports.XLSX)
	assert.Equal(t, "diaflow.log", cfg.Logging.File)
}

func TestLoadReadsEverySection(t *testing.T) {
	content := `
configVersion: "1"
referenceName: "HeLa_batch"
action: "preprocess"
layout: {
	top: "/data/run1"
	raw: "input"
}
tools: {
	java: "/opt/java/bin/java"
	diaUmpire: "/opt/DIA_Umpire_SE-2.2.8.jar"
	searchGui: "/opt/SearchGUI-4.2.17.jar"
	peptideShaker: "/opt/PeptideShaker-2.2.25.jar"
	thermoRawFileParser: "/opt/ThermoRawFileParser"
}
params: fasta: "uniprot.fasta"
execution: {
	workers: 4
	timeoutMs: 60000
	javaHeap: "16G"
}
search: {
	engine: "comet"
	tiers: ["1", "12"]
}
reports: {
	ids: ["6"]
	xlsx: false
}
discovery: {
	exclude: ["blank_*"]
	filter: "file.size > 0"
}
errors: failOnFileFailures: true
ui: progress: true
logging: {
	json: true
	file: ""
}
`
	cfg, err := Load(writeCfg(t, content))
	require.NoError(t, err)

	assert.Equal(t, "HeLa_batch", cfg.ReferenceName)
	assert.Equal(t, ActionPreprocess, cfg.Action)
	assert.Equal(t, "/data/run1", cfg.Layout.Top)
	assert.Equal(t, "input", cfg.Layout.Raw)
	assert.Equal(t, "processed", cfg.Layout.Processed)
	assert.Equal(t, "/opt/java/bin/java", cfg.Tools.Java)
	assert.True(t, cfg.Tools.HasThermoRawFileParser)
	assert.Equal(t, "uniprot.fasta", cfg.Params.Fasta)
	assert.Equal(t, "search.par", cfg.Params.SearchGUI)
	assert.Equal(t, 4, cfg.Execution.Workers)
	assert.Equal(t, 60000, cfg.Execution.TimeoutMs)
	assert.Equal(t, "16G", cfg.Execution.JavaHeap)
	assert.Equal(t, "comet", cfg.Search.Engine)
	assert.Equal(t, []string{"1", "12"}, cfg.Search.Tiers)
	assert.Equal(t, []string{"6"}, cfg.Reports.IDs)
	assert.False(t, cfg.Reports.XLSX)
	assert.Equal(t, []string{"blank_*"}, cfg.Discovery.Exclude)
	assert.True(t, cfg.Errors.FailOnFileFailures)
	assert.True(t, cfg.UI.Progress)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, "", cfg.Logging.File)
}

func TestLoadRejectsInvalidConfigs(t *testing.T) {
	cases := map[string]struct {
		content string
		want    string
	}{
		"unknown version": {
			content: "{\n  configVersion: \"2\"\n}\n",
			want:    "unsupported configVersion: \"2\" (supported: 1)",
		},
		"missing version": {
			content: "{\n  action: \"pipeline\"\n}\n",
			want:    "missing required field: configVersion",
		},
		"bad action": {
			content: "configVersion: \"1\"\naction: \"nop\"\n",
			want:    "invalid action: \"nop\" (expected pipeline or preprocess)",
		},
		"wrong type": {
			content: "configVersion: \"1\"\nexecution: workers: \"four\"\n",
			want:    "invalid type for field: execution.workers (expected int)",
		},
		"bad tier": {
			content: "configVersion: \"1\"\nsearch: tiers: [\"4\"]\n",
			want:    "invalid search tier: \"4\" (allowed: 1, 2, 3, 12, 13, 23, 123)",
		},
		"reference with separator": {
			content: "configVersion: \"1\"\nreferenceName: \"a/b\"\n",
			want:    "invalid referenceName: \"a/b\" (path separators are not allowed)",
		},
		"bad heap": {
			content: "configVersion: \"1\"\nexecution: javaHeap: \"lots\"\n",
			want:    "invalid execution.javaHeap: \"lots\" (expected e.g. 8G)",
		},
		"zero workers": {
			content: "configVersion: \"1\"\nexecution: workers: 0\n",
			want:    "invalid execution.workers: 0 (must be >= 1)",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeCfg(t, tc.content))
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestLoadRejectsNonCueFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "diaflow.yaml")
	require.NoError(t, os.WriteFile(p, []byte("configVersion: 1\n"), 0o644))
	_, err := Load(p)
	require.Error(t, err)
	assert.Equal(t, "unsupported config format: expected .cue", err.Error())
}

func TestLoadReportsCueSyntaxErrors(t *testing.T) {
	_, err := Load(writeCfg(t, "configVersion: \"1\"\nexecution: {\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config:")
}
