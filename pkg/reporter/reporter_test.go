package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cheatfind/pkg/corpus"
	"github.com/yaklabco/cheatfind/pkg/match"
	"github.com/yaklabco/cheatfind/pkg/reporter"
	"github.com/yaklabco/cheatfind/pkg/runner"
	"github.com/yaklabco/cheatfind/pkg/session"
)

func accepted() *runner.Result {
	return &runner.Result{Outcome: session.Outcome{
		Accepted: true,
		Query:    "tar",
		Selected: []match.Result{{Text: corpus.Record("tar xf {{file}} ## extract an archive"), Index: 7}},
	}}
}

func report(t *testing.T, format reporter.Format, result *runner.Result) string {
	t.Helper()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &buf, Format: format, Compact: true})
	require.NoError(t, err)
	require.NoError(t, rep.Report(context.Background(), result))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]reporter.Format{
		"":        reporter.FormatText,
		"text":    reporter.FormatText,
		"command": reporter.FormatCommand,
		"json":    reporter.FormatJSON,
	} {
		got, err := reporter.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := reporter.ParseFormat("sarif")
	require.Error(t, err)
	assert.False(t, reporter.Format("sarif").IsValid())

	_, err = reporter.New(reporter.Options{Format: "sarif"})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "7: tar xf {{file}} ## extract an archive\n", report(t, reporter.FormatText, accepted()))
	assert.Equal(t, "tar xf {{file}}\n", report(t, reporter.FormatCommand, accepted()))
}

func TestTextReporter_NoSelection(t *testing.T) {
	t.Parallel()

	assert.Empty(t, report(t, reporter.FormatText, nil))
	assert.Empty(t, report(t, reporter.FormatCommand, &runner.Result{Outcome: session.Outcome{Query: "x"}}))
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(report(t, reporter.FormatJSON, accepted())), &out))

	assert.True(t, out.Accepted)
	assert.Equal(t, "tar", out.Query)
	assert.Equal(t, []reporter.JSONSelection{{
		Index:       7,
		Line:        "tar xf {{file}} ## extract an archive",
		Command:     "tar xf {{file}}",
		Description: "extract an archive",
	}}, out.Selected)
}

func TestJSONReporter_NoSelection(t *testing.T) {
	t.Parallel()

	got := report(t, reporter.FormatJSON, &runner.Result{Outcome: session.Outcome{Query: "zz"}})
	assert.JSONEq(t, `{"version":"1.0.0","accepted":false,"query":"zz","selected":[]}`, got)
}
