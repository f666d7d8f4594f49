package output

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prevWriter, prevNoColor := Writer, color.NoColor
	Writer, color.NoColor = buf, true
	t.Cleanup(func() { Writer, color.NoColor = prevWriter, prevNoColor })
	return buf
}

func TestSequence(t *testing.T) {
	assert.Equal(t, "CABDFE", Sequence([]string{"C", "A", "B", "D", "F", "E"}))
	assert.Equal(t, "build test publish", Sequence([]string{"build", "test", "publish"}))
	assert.Equal(t, "", Sequence(nil))
}

func TestTable_Render(t *testing.T) {
	buf := capture(t)

	table := NewTable([]string{"#", "STEP"})
	table.AddRow([]string{"1", "compile"})
	table.AddRow([]string{"2", "C", "extra"})
	table.Render()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Len(t, lines, 4)
	assert.Contains(t, string(lines[0]), "STEP")
	assert.Contains(t, string(lines[2]), "compile")
	assert.NotContains(t, buf.String(), "extra")
}

func TestStuck(t *testing.T) {
	buf := capture(t)
	Stuck([]string{"A", "B"}, []string{"A", "B", "A"})
	assert.Contains(t, buf.String(), "A, B")
	assert.Contains(t, buf.String(), "A -> B -> A")
}

func TestPrintJSON(t *testing.T) {
	buf := capture(t)
	assert.NoError(t, PrintJSON(map[string]int{"steps": 6}))
	assert.JSONEq(t, `{"steps": 6}`, buf.String())
}
