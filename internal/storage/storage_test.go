package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) *File {
	t.Helper()
	return NewFile(filepath.Join(t.TempDir(), "nested", "state.json"))
}

func TestFile_MissingFileIsEmpty(t *testing.T) {
	f := newTestFile(t)

	v, ok, err := f.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	keys, err := f.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFile_SetGetRemove(t *testing.T) {
	f := newTestFile(t)

	require.NoError(t, f.Set("theme", "dracula"))
	require.NoError(t, f.Set("lang", "pt"))

	v, ok, err := f.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dracula", v)

	keys, err := f.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"lang", "theme"}, keys)

	require.NoError(t, f.Remove("theme"))
	has, err := f.Has("theme")
	require.NoError(t, err)
	assert.False(t, has)

	// Removing again is fine.
	require.NoError(t, f.Remove("theme"))
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, NewFile(path).Set("theme", "nord"))

	v, ok, err := NewFile(path).Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "nord", v)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFile_Clear(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.Set("a", "1"))
	require.NoError(t, f.Clear())
	require.NoError(t, f.Clear())

	_, ok, err := f.Get("a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, _, err := NewFile(path).Get("theme")
	assert.Error(t, err)
}

func TestStringItem(t *testing.T) {
	item := NewStringItem(newTestFile(t), "theme", nil)

	_, ok := item.Get()
	assert.False(t, ok)
	assert.Equal(t, "light", item.GetOrDefault("light"))

	require.NoError(t, item.Set(`"quoted" verbatim`))
	v, ok := item.Get()
	assert.True(t, ok)
	assert.Equal(t, `"quoted" verbatim`, v)
	assert.True(t, item.Has())

	require.NoError(t, item.Remove())
	assert.False(t, item.Has())
}

func TestJSONItem(t *testing.T) {
	type user struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	f := newTestFile(t)
	item := NewJSONItem[user](f, "user", nil)

	require.NoError(t, item.Set(user{Name: "John", Age: 30}))
	v, ok := item.Get()
	require.True(t, ok)
	assert.Equal(t, user{Name: "John", Age: 30}, v)

	raw, _, err := f.Get("user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"John","age":30}`, raw)
}

func TestJSONItem_DecodeFailureIsMissing(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.Set("count", "not-a-number"))

	item := NewJSONItem[int](f, "count", nil)
	_, ok := item.Get()
	assert.False(t, ok)
	assert.Equal(t, 7, item.GetOrDefault(7))
}

func TestItem_ReadFailureIsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))

	item := NewStringItem(NewFile(path), "theme", nil)
	_, ok := item.Get()
	assert.False(t, ok)
}
