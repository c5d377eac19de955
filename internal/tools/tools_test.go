package tools

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/flarebyte/diaflow/internal/errors"
	"github.com/flarebyte/diaflow/internal/invoke"
	"github.com/flarebyte/diaflow/internal/layout"
	"github.com/flarebyte/diaflow/internal/stage"
	"github.com/flarebyte/diaflow/internal/testutil"
)

// recorder captures commands and answers with a fixed exit status.
type recorder struct {
	mu     sync.Mutex
	cmds   []invoke.Command
	status int
	// sideEffect runs before the outcome is returned, to fake tool outputs.
	sideEffect func(invoke.Command)
}

func (r *recorder) Invoke(_ context.Context, c invoke.Command) invoke.Outcome {
	r.mu.Lock()
	r.cmds = append(r.cmds, c)
	r.mu.Unlock()
	if r.sideEffect != nil {
		r.sideEffect(c)
	}
	return invoke.Outcome{ExitStatus: r.status, Stderr: "boom\n"}
}

func testEnv(t *testing.T) *Env {
	t.Helper()
	top := t.TempDir()
	l := layout.Layout{
		Top:             top,
		Raw:             filepath.Join(top, "raw"),
		Processed:       filepath.Join(top, "processed"),
		Searched:        filepath.Join(top, "searched"),
		Reports:         filepath.Join(top, "reports"),
		Reference:       "study",
		Java:            filepath.Join(top, "bin", "java"),
		DiaUmpire:       filepath.Join(top, "bin", "DIA_Umpire_SE.jar"),
		SearchGUI:       filepath.Join(top, "bin", "SearchGUI.jar"),
		PeptideShaker:   filepath.Join(top, "bin", "PeptideShaker.jar"),
		DiaUmpireParams: filepath.Join(top, "umpire-se.params"),
		SearchParams:    filepath.Join(top, "search.par"),
		Fasta:           filepath.Join(top, "database.fasta"),
	}
	for _, d := range []string{l.Raw, l.Processed, l.Searched, l.Reports} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
	for _, f := range []string{l.Java, l.DiaUmpire, l.SearchGUI, l.PeptideShaker, l.DiaUmpireParams, l.SearchParams, l.Fasta} {
		testutil.Touch(t, f, "x")
	}
	return &Env{
		Layout:    l,
		JavaHeap:  "8G",
		Engine:    "xtandem",
		Tiers:     []string{"1", "2"},
		ReportIDs: []string{"3", "9"},
	}
}

func TestBuildKeepsOrderAndRejectsUnknown(t *testing.T) {
	env := testEnv(t)
	names := []string{StageConvert, StageDiaUmpire, StageClean, StageMove, StageSearch, StagePrepareReport, StageExportReport}
	ss, err := Build(names, env)
	require.NoError(t, err)
	got := make([]string, len(ss))
	for i, s := range ss {
		got[i] = s.Name()
	}
	assert.Equal(t, names, got)
	assert.ElementsMatch(t, names, Names())

	_, err = Build([]string{"convert", "nope"}, env)
	assert.EqualError(t, err, "unknown stage: nope")
}

func TestConvertPassesMzMLAndConvertsRaw(t *testing.T) {
	env := testEnv(t)
	s, _ := Build([]string{StageConvert}, env)
	conv := s[0]
	rec := &recorder{}

	mz := stage.NewFileRecord(filepath.Join(env.Layout.Raw, "a.mzML"))
	out := conv.Process(context.Background(), rec, mz)
	assert.False(t, out.Failed)
	assert.Empty(t, rec.cmds)

	raw := stage.NewFileRecord(filepath.Join(env.Layout.Raw, "b.raw"))
	out = conv.Process(context.Background(), rec, raw)
	assert.True(t, out.Failed)
	assert.Equal(t, stage.KindInput, out.Kind)
	require.NoError(t, conv.Preflight(context.Background(), []stage.FileRecord{raw}))

	env.Layout.ThermoRawFileParser = filepath.Join(env.Layout.Top, "bin", "ThermoRawFileParser")
	env.Layout.HasThermoRawFileParser = true
	err := conv.Preflight(context.Background(), []stage.FileRecord{raw})
	assert.True(t, errors.Is(err, errors.ErrMissingExecutable))

	testutil.Touch(t, env.Layout.ThermoRawFileParser, "x")
	require.NoError(t, conv.Preflight(context.Background(), []stage.FileRecord{raw}))
	out = conv.Process(context.Background(), rec, raw)
	require.False(t, out.Failed)
	assert.Equal(t, filepath.Join(env.Layout.Raw, "b.mzML"), out.Artifact)
	require.Len(t, rec.cmds, 1)
	assert.Equal(t, []string{"-i", raw.Path, "-b", out.Artifact}, rec.cmds[0].Args)
}

func TestDiaUmpireKeepsPerSampleLog(t *testing.T) {
	env := testEnv(t)
	s, _ := Build([]string{StageDiaUmpire}, env)
	dia := s[0]
	mz := filepath.Join(env.Layout.Raw, "s1.mzML")
	testutil.Touch(t, mz, "spectra")

	rec := &recorder{status: 1, sideEffect: func(c invoke.Command) {
		testutil.Touch(t, filepath.Join(c.Dir, diaUmpireLog), "log")
	}}
	out := dia.Process(context.Background(), rec, stage.NewFileRecord(mz))
	require.True(t, out.Failed)
	assert.Equal(t, stage.KindTool, out.Kind)
	assert.Contains(t, out.Message, "see s1_diaumpire.log")
	assert.FileExists(t, filepath.Join(env.Layout.Raw, "s1_diaumpire.log"))
	assert.Equal(t, []string{"-jar", "-Xmx8G", env.Layout.DiaUmpire, mz, env.Layout.DiaUmpireParams}, rec.cmds[0].Args)

	sr, ok := dia.(stage.Serial)
	require.True(t, ok)
	assert.True(t, sr.Serial())
}

func TestDiaUmpirePreflightNeedsParams(t *testing.T) {
	env := testEnv(t)
	require.NoError(t, os.Remove(env.Layout.DiaUmpireParams))
	s, _ := Build([]string{StageDiaUmpire}, env)
	err := s[0].Preflight(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingParameterFile))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestCleanAndMove(t *testing.T) {
	env := testEnv(t)
	raw := env.Layout.Raw
	mz := filepath.Join(raw, "s1.mzML")
	testutil.Touch(t, mz, "spectra")
	testutil.Touch(t, filepath.Join(raw, "s1.DIAWindowsFS"), "x")
	testutil.Touch(t, filepath.Join(raw, "s1_params.ser"), "x")
	testutil.Touch(t, filepath.Join(raw, "s1_Peak", "chunk"), "x")
	testutil.Touch(t, filepath.Join(raw, "s1_Q1.mgf"), "q1")
	testutil.Touch(t, filepath.Join(raw, "s1_Q2.mgf"), "q2")

	ss, err := Build([]string{StageClean, StageMove}, env)
	require.NoError(t, err)
	r := stage.NewFileRecord(mz)

	out := ss[0].Process(context.Background(), nil, r)
	require.False(t, out.Failed)
	assert.NoFileExists(t, filepath.Join(raw, "s1.DIAWindowsFS"))
	assert.NoFileExists(t, filepath.Join(raw, "s1_params.ser"))
	assert.NoDirExists(t, filepath.Join(raw, "s1_Peak"))
	assert.FileExists(t, mz)

	out = ss[1].Process(context.Background(), nil, r)
	require.False(t, out.Failed)
	assert.FileExists(t, filepath.Join(env.Layout.Processed, "s1_Q1.mgf"))
	assert.FileExists(t, filepath.Join(env.Layout.Processed, "s1_Q2.mgf"))
	assert.NoFileExists(t, filepath.Join(raw, "s1_Q1.mgf"))

	out = ss[1].Process(context.Background(), nil, stage.NewFileRecord(filepath.Join(raw, "s2.mzML")))
	assert.True(t, out.Failed)
	assert.Equal(t, stage.KindInput, out.Kind)
}

func TestCopyAndRemoveReleasesSource(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "raw", "s1_Q1.mgf")
	to := filepath.Join(dir, "processed", "s1_Q1.mgf")
	testutil.Touch(t, from, "q1")
	require.NoError(t, os.MkdirAll(filepath.Dir(to), 0o755))

	require.NoError(t, copyAndRemove(from, to))
	assert.NoFileExists(t, from)
	b, err := os.ReadFile(to)
	require.NoError(t, err)
	assert.Equal(t, "q1", string(b))

	assert.Error(t, copyAndRemove(from, to))
	assert.FileExists(t, to)
}

func TestSearchSelectsTierFiles(t *testing.T) {
	env := testEnv(t)
	p := env.Layout.Processed
	testutil.Touch(t, filepath.Join(p, "s1_Q1.mgf"), "q1")
	testutil.Touch(t, filepath.Join(p, "s1_Q2.mgf"), "")
	testutil.Touch(t, filepath.Join(p, "s1_Q3.mgf"), "q3")

	ss, _ := Build([]string{StageSearch}, env)
	search := ss[0]
	require.NoError(t, search.Preflight(context.Background(), nil))

	rec := &recorder{sideEffect: func(c invoke.Command) {
		testutil.Touch(t, filepath.Join(filepath.Dir(c.Transcript), "SearchGUI_report.html"), "x")
	}}
	out := search.Process(context.Background(), rec, stage.NewFileRecord(filepath.Join(env.Layout.Raw, "s1.mzML")))
	require.False(t, out.Failed, out.Message)

	outDir := filepath.Join(env.Layout.Searched, "s1")
	assert.Equal(t, filepath.Join(outDir, "study_s1.zip"), out.Artifact)
	assert.NoFileExists(t, filepath.Join(outDir, "SearchGUI_report.html"))

	args := rec.cmds[0].Args
	assert.Equal(t, []string{"-cp", env.Layout.SearchGUI, searchCLIClass}, args[:3])
	assert.Equal(t, filepath.Join(p, "s1_Q1.mgf"), argAfter(args, "-spectrum_files"))
	assert.Equal(t, "1", argAfter(args, "-xtandem"))
	assert.Equal(t, "study_s1", argAfter(args, "-output_default_name"))

	out = search.Process(context.Background(), rec, stage.NewFileRecord(filepath.Join(env.Layout.Raw, "s2.mzML")))
	assert.True(t, out.Failed)
	assert.Equal(t, stage.KindInput, out.Kind)
	assert.Len(t, rec.cmds, 1)
}

func TestSearchPreflightNeedsFasta(t *testing.T) {
	env := testEnv(t)
	require.NoError(t, os.Remove(env.Layout.Fasta))
	ss, _ := Build([]string{StageSearch, StagePrepareReport}, env)
	for _, s := range ss {
		err := s.Preflight(context.Background(), nil)
		assert.True(t, errors.Is(err, errors.ErrMissingParameterFile), s.Name())
	}
}

func TestPrepareAndExportReports(t *testing.T) {
	env := testEnv(t)
	env.XLSX = true
	testutil.Touch(t, filepath.Join(env.Layout.Processed, "s1_Q1.mgf"), "q1")
	zip := filepath.Join(env.Layout.Searched, "s1", "study_s1.zip")
	testutil.Touch(t, zip, "zip")

	ss, _ := Build([]string{StagePrepareReport, StageExportReport}, env)
	rec := &recorder{sideEffect: func(c invoke.Command) {
		if dir := argAfter(c.Args, "-out_reports"); dir != "" {
			testutil.Touch(t, filepath.Join(dir, "study_s1_Default_PSM_Report.txt"), "Protein\tScore\nP1\t0.5\n")
		}
		if psdb := argAfter(c.Args, "-out"); psdb != "" {
			testutil.Touch(t, psdb, "db")
		}
	}}

	r := stage.NewFileRecord(filepath.Join(env.Layout.Raw, "s1.mzML"))
	r.Current = zip
	out := ss[0].Process(context.Background(), rec, r)
	require.False(t, out.Failed, out.Message)
	assert.Equal(t, filepath.Join(env.Layout.Searched, "s1", "study_s1.psdb"), out.Artifact)
	assert.Equal(t, "study_s1", argAfter(rec.cmds[0].Args, "-reference"))
	assert.Equal(t, zip, argAfter(rec.cmds[0].Args, "-identification_files"))

	r.Current = out.Artifact
	out = ss[1].Process(context.Background(), rec, r)
	require.False(t, out.Failed, out.Message)
	assert.Equal(t, "3, 9", argAfter(rec.cmds[1].Args, "-reports"))
	assert.FileExists(t, filepath.Join(env.Layout.Reports, "s1", "study_s1_Default_PSM_Report.xlsx"))
}

func TestExportFailsWithoutProject(t *testing.T) {
	env := testEnv(t)
	ss, _ := Build([]string{StageExportReport}, env)
	r := stage.NewFileRecord(filepath.Join(env.Layout.Raw, "s1.mzML"))
	r.Current = filepath.Join(env.Layout.Searched, "s1", "study_s1.psdb")
	out := ss[0].Process(context.Background(), &recorder{}, r)
	assert.True(t, out.Failed)
	assert.Equal(t, stage.KindInput, out.Kind)
}

func TestConvertTSVToXLSX(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "r.txt")
	dst := filepath.Join(dir, "r.xlsx")
	testutil.Touch(t, src, "Accession\tScore\tNote\nP1\t12.5\tok\nP2\t3\t\n")
	require.NoError(t, ConvertTSVToXLSX(src, dst))

	f, err := excelize.OpenFile(dst)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Accession", "Score", "Note"}, rows[0])
	assert.Equal(t, "12.5", rows[1][1])
	assert.Equal(t, "P2", rows[2][0])

	assert.Error(t, ConvertTSVToXLSX(filepath.Join(dir, "missing.txt"), dst))
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
