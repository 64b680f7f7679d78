package fsmfile

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

func endsInA() *fsm.FSM {
	f := fsm.New(fsm.TypeDFA)
	f.Name = "ends-in-a"
	f.Description = "strings over {a,b} ending in a"
	f.AddState("s0")
	f.AddState("s1")
	f.AddInput("a")
	f.AddInput("b")
	f.SetInitial("s0")
	f.SetAccepting([]string{"s1"})
	f.AddTransition("s0", fsm.Input("a"), []string{"s1"})
	f.AddTransition("s0", fsm.Input("b"), []string{"s0"})
	f.AddTransition("s1", fsm.Input("a"), []string{"s1"})
	f.AddTransition("s1", fsm.Input("b"), []string{"s0"})
	return f
}

// branching has ε-moves, a multi-target cell, an isolated state and an
// unused input.
func branching() *fsm.FSM {
	f := fsm.New(fsm.TypeENFA)
	f.Name = "branching"
	for _, s := range []string{"p", "q", "r", "lonely"} {
		f.AddState(s)
	}
	for _, a := range []string{"x", "y", "z"} {
		f.AddInput(a)
	}
	f.SetInitial("p")
	f.SetAccepting([]string{"r", "lonely"})
	f.AddTransition("p", nil, []string{"q"})
	f.AddTransition("q", fsm.Input("x"), []string{"q", "r"})
	f.AddTransition("r", fsm.Input("y"), []string{"p"})
	return f
}

func TestJSONRoundTrip(t *testing.T) {
	for _, f := range []*fsm.FSM{endsInA(), branching()} {
		data, err := ToJSON(f, true)
		require.NoError(t, err)
		g, err := ParseJSON(data)
		require.NoError(t, err)
		assert.Equal(t, f, g)
	}
}

func TestJSONTargets(t *testing.T) {
	data, err := ToJSON(branching(), false)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"input":null`)
	assert.Contains(t, s, `"to":"q"`)
	assert.Contains(t, s, `"to":["q","r"]`)

	_, err = ParseJSON([]byte(`{"type":"dfa","transitions":[{"from":"a","input":"x","to":3}]}`))
	assert.Error(t, err)
}

func TestYAMLRoundTrip(t *testing.T) {
	for _, f := range []*fsm.FSM{endsInA(), branching()} {
		data, err := ToYAML(f)
		require.NoError(t, err)
		g, err := ParseYAML(data)
		require.NoError(t, err)
		assert.Equal(t, f, g)
	}
}

func TestParseYAML(t *testing.T) {
	f, err := ParseYAML([]byte(`
type: enfa
states: [a, b]
alphabet: ["0"]
initial: a
accepting: [b]
transitions:
  - {from: a, input: "0", to: [b]}
  - {from: b, to: [a]}
`))
	require.NoError(t, err)
	require.NoError(t, f.Validate())
	assert.Nil(t, f.Transitions[1].Input)
	assert.Equal(t, []string{"a"}, f.Transitions[1].To)

	_, err = ParseYAML([]byte("type: dfa\noutputs: [x]\n"))
	assert.Error(t, err, "unknown fields are rejected")
}

func TestRecordFormat(t *testing.T) {
	r := Record{Type: TypeMultiTarget, Field1: 1, Field2: EpsilonInput, Field3: 0x2A, Field4: 1}
	s := FormatRecord(r)
	assert.Equal(t, "0003 0001:FFFF 002A:0001", s)

	back, err := ParseRecord(s)
	require.NoError(t, err)
	assert.Equal(t, r, back)

	_, err = ParseRecord("0003 0001:FFFF")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseHex(t *testing.T) {
	records, err := ParseHex(`
# two records on one line, one on the next
0004 0000:0000 0000:0000   0002 0000:0001 0000:0000
0000 0000:0000 0000:0000
`)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = ParseHex("not hex at all")
	assert.ErrorIs(t, err, ErrMalformed)

	records, err = ParseHex("# only a comment\n")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFormatHexWidth(t *testing.T) {
	records := make([]Record, 5)
	lines := strings.Split(FormatHex(records, 2), "\n")
	assert.Len(t, lines, 3)
}

func TestRecordsRoundTrip(t *testing.T) {
	for _, f := range []*fsm.FSM{endsInA(), branching()} {
		records, labels, err := FSMToRecords(f)
		require.NoError(t, err)
		g, err := RecordsToFSM(records, labels)
		require.NoError(t, err)
		assert.Equal(t, f, g)
	}
}

func TestRecordsWithoutLabels(t *testing.T) {
	records, _, err := FSMToRecords(branching())
	require.NoError(t, err)

	g, err := RecordsToFSM(records, nil)
	require.NoError(t, err)
	assert.Equal(t, fsm.TypeENFA, g.Type)
	assert.Equal(t, []string{"S0", "S1", "S2", "S3"}, g.States)
	assert.Equal(t, []string{"a", "b", "c"}, g.Alphabet)
	assert.Equal(t, "S0", g.Initial)
	assert.Equal(t, []string{"S2", "S3"}, g.Accepting)
	assert.Equal(t, []string{"S1", "S2"}, g.Targets("S1", fsm.Input("a")))
}

func TestRecordsTypeInference(t *testing.T) {
	f := endsInA()
	f.Type = fsm.TypeNFA
	f.AddTransition("s1", fsm.Input("a"), []string{"s0", "s1"})
	records, _, err := FSMToRecords(f)
	require.NoError(t, err)
	g, err := RecordsToFSM(records, nil)
	require.NoError(t, err)
	assert.Equal(t, fsm.TypeNFA, g.Type)

	records, _, err = FSMToRecords(endsInA())
	require.NoError(t, err)
	g, err = RecordsToFSM(records, nil)
	require.NoError(t, err)
	assert.Equal(t, fsm.TypeDFA, g.Type)
}

func TestRecordsMalformed(t *testing.T) {
	tests := map[string][]Record{
		"unknown type": {{Type: 0x0001}},
		"two initials": {
			{Type: TypeStateDecl, Field1: 0, Field2: FlagInitial},
			{Type: TypeStateDecl, Field1: 1, Field2: FlagInitial},
		},
		"unterminated group": {{Type: TypeMultiTarget, Field1: 0, Field3: 1, Field4: 1}},
		"interrupted group": {
			{Type: TypeMultiTarget, Field1: 0, Field3: 1, Field4: 1},
			{Type: TypeStateDecl, Field1: 2},
		},
		"group changes source": {
			{Type: TypeMultiTarget, Field1: 0, Field3: 1, Field4: 1},
			{Type: TypeMultiTarget, Field1: 1, Field3: 1},
		},
	}
	for name, records := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := RecordsToFSM(records, nil)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestFSMToRecordsRejectsInvalid(t *testing.T) {
	f := endsInA()
	f.Initial = "nowhere"
	_, _, err := FSMToRecords(f)
	assert.ErrorIs(t, err, fsm.ErrInvalid)
}

func TestArchiveRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFSM(&buf, branching(), true))

	g, err := ReadFSMBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, branching(), g)
}

func TestArchiveWithoutLabels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFSM(&buf, endsInA(), false))

	g, err := ReadFSMBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"S0", "S1"}, g.States)
	assert.Empty(t, g.Name)

	ok, err := g.Accepts("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArchiveErrors(t *testing.T) {
	_, err := ReadFSMBytes([]byte("not a zip"))
	assert.Error(t, err)
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"m.json", "m.yaml", "m.yml", "m.fsm"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, branching()))
			g, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, branching(), g)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "m.txt"))
	assert.ErrorContains(t, err, "unsupported file type")

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"type":"dfa","states":["a"],"initial":"b"}`), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, fsm.ErrInvalid)
	assert.ErrorContains(t, err, "bad.json")
}

func TestGenerateDOT(t *testing.T) {
	f := branching()
	f.AddTransition("q", fsm.Input("y"), []string{"r"})
	dot := GenerateDOT(f, `a "quoted" title`)

	assert.Contains(t, dot, `label="a \"quoted\" title";`)
	assert.Contains(t, dot, `__start -> "p";`)
	assert.Contains(t, dot, `"r" [shape=doublecircle];`)
	assert.Contains(t, dot, `"q" [shape=circle];`)
	assert.Contains(t, dot, `"p" -> "q" [label="ε"];`)
	assert.Contains(t, dot, `"q" -> "r" [label="x, y"];`)
	assert.Equal(t, dot, GenerateDOT(f, `a "quoted" title`), "output is deterministic")

	qq := strings.Index(dot, `"q" -> "q"`)
	qr := strings.Index(dot, `"q" -> "r"`)
	assert.True(t, qq >= 0 && qq < qr, "edges keep transition order")
}

func TestRenderPNG(t *testing.T) {
	opts := DefaultPNGOptions()
	opts.Width, opts.Height = 320, 240
	opts.Title = "branching"
	opts.Highlight = []string{"q"}

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(branching(), &buf, opts))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())

	opts.Width = 0
	assert.Error(t, RenderPNG(branching(), &buf, opts))
}

func TestRenderPNGSingleState(t *testing.T) {
	f := fsm.New(fsm.TypeDFA)
	f.AddState("only")
	f.AddInput("a")
	f.SetInitial("only")
	f.AddTransition("only", fsm.Input("a"), []string{"only"})

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(f, &buf, DefaultPNGOptions()))
	assert.NotZero(t, buf.Len())
}

func TestLoadSaveHex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.hex")
	require.NoError(t, Save(path, endsInA()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "0004 0000:0000 0000:0000"))

	g, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, fsm.TypeDFA, g.Type)
	assert.Equal(t, []string{"S0", "S1"}, g.States)
	ok, err := g.Accepts("ba")
	require.NoError(t, err)
	assert.True(t, ok)
}
