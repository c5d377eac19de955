// Package summary renders the end-of-run report of a pipeline run: a
// canonical summary.yaml, a terminal table and closing log lines.
package summary

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flarebyte/diaflow/internal/errors"
	"github.com/flarebyte/diaflow/internal/pipeline"
	"github.com/flarebyte/diaflow/internal/stage"
)

// DefaultName is the summary file written into the reports directory.
const DefaultName = "summary.yaml"

// Marshal returns the summary of rep as YAML with a fixed key order, so two
// identical runs produce identical files apart from timestamps and run id.
func Marshal(rep pipeline.Report, reference string) ([]byte, error) {
	top := mapping(
		"runId", scalarFrom(rep.RunID),
		"reference", scalarFrom(reference),
		"state", scalarFrom(rep.State.Phase.String()),
		"started", scalarFrom(rep.Started.Format(time.RFC3339)),
		"finished", scalarFrom(rep.Finished.Format(time.RFC3339)),
		"elapsed", scalarFrom(stage.FormatHMS(rep.Elapsed())),
		"files", scalarFrom(len(rep.Initial)),
		"stages", stagesNode(rep.Stages),
		"completed", pathsNode(rep.Succeeded),
		"failures", failuresNode(rep.Ledger),
	)
	if rep.Fatal != nil {
		top.Content = append(top.Content,
			scalarNode("fatal"), fatalNode(rep.Fatal),
			scalarNode("unclassified"), pathsNode(rep.Unclassified),
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		_ = enc.Close()
		return nil, errors.Wrap(err, "encode summary")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode summary")
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

// Write writes the summary to path, creating parent directories.
func Write(path string, rep pipeline.Report, reference string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(path))
	}
	b, err := Marshal(rep, reference)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, b, 0o644), "write %s", path)
}

func stagesNode(rows []pipeline.StageSummary) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range rows {
		row := mapping(
			"name", scalarFrom(r.Name),
			"candidates", scalarFrom(r.Candidates),
			"succeeded", scalarFrom(r.Succeeded),
			"failed", scalarFrom(r.Failed),
			"elapsed", scalarFrom(stage.FormatMinSec(r.Elapsed)),
			"skipped", scalarFrom(r.Skipped),
		)
		if r.Aborted {
			row.Content = append(row.Content, scalarNode("aborted"), scalarFrom(true))
		}
		n.Content = append(n.Content, row)
	}
	return n
}

func failuresNode(entries []pipeline.LedgerEntry) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, e := range entries {
		n.Content = append(n.Content, mapping(
			"file", scalarFrom(e.Path),
			"stage", scalarFrom(e.Stage),
			"kind", scalarFrom(string(e.Kind)),
			"message", scalarFrom(e.Message),
		))
	}
	return n
}

func fatalNode(f *pipeline.FatalFault) *yaml.Node {
	hints := &yaml.Node{Kind: yaml.SequenceNode}
	for _, h := range f.Hints() {
		hints.Content = append(hints.Content, scalarFrom(h))
	}
	return mapping(
		"stage", scalarFrom(f.Stage),
		"precondition", scalarFrom(f.Precondition),
		"message", scalarFrom(f.Err.Error()),
		"hints", hints,
	)
}

func pathsNode(recs []stage.FileRecord) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, p := range stage.Paths(recs) {
		n.Content = append(n.Content, scalarFrom(p))
	}
	return n
}

// mapping builds a mapping node from alternating keys and value nodes.
func mapping(kv ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Content = append(n.Content, scalarNode(kv[i].(string)), kv[i+1].(*yaml.Node))
	}
	return n
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func scalarFrom(v any) *yaml.Node {
	n := &yaml.Node{}
	_ = n.Encode(v)
	return n
}
