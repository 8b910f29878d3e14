package render

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_FourSpaceIndent(t *testing.T) {
	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	data, err := JSON(doc{Name: "blue", Count: 2})
	require.NoError(t, err)

	expected := "{\n    \"name\": \"blue\",\n    \"count\": 2\n}\n"
	assert.Equal(t, expected, string(data))
}

func TestJSON_DoesNotEscapeHTML(t *testing.T) {
	data, err := JSON(map[string]string{"expr": "a<b && b>c"})
	require.NoError(t, err)

	assert.Contains(t, string(data), "a<b && b>c")
	assert.NotContains(t, string(data), "u003c")
}

func TestIndent_PreservesOrder(t *testing.T) {
	raw := []byte(`[{"zebra":1,"alpha":2},{"teamAssignments":[]}]`)

	data, err := Indent(raw)
	require.NoError(t, err)

	out := string(data)
	assert.Less(t, strings.Index(out, "zebra"), strings.Index(out, "alpha"), "re-indenting must not reorder keys")
	assert.Contains(t, out, "    {")
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestIndent_InvalidJSON(t *testing.T) {
	_, err := Indent([]byte(`{"unclosed":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to re-indent JSON")
}

func TestCompact(t *testing.T) {
	type doc struct {
		A int `json:"a"`
	}
	assert.Equal(t, `{"a":1}`, Compact(doc{A: 1}))

	// Unencodable values come back empty instead of failing the caller.
	assert.Equal(t, "", Compact(make(chan int)))
}

func TestWrite_File(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.json")

	err := Write(path, []byte("{}\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(content))
}

func TestWrite_Stdout(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	oldStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	err = Write("", []byte("hello\n"))
	require.NoError(t, err)
	_ = w.Close()

	captured, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(captured))
}

func TestWrite_BadPath(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "out.json"), []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write output file")
}
