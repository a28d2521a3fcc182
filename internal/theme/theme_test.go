package theme

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/uikit/internal/storage"
)

type failingPreference struct{}

func (failingPreference) PrefersDark(context.Context) (bool, error) {
	return false, errors.New("no portal")
}

func newTestService(t *testing.T, pref PreferenceSource) (*Service, *storage.File) {
	t.Helper()
	store := storage.NewFile(filepath.Join(t.TempDir(), "state.json"))
	return NewService(store, pref, nil), store
}

func TestThemes(t *testing.T) {
	assert.Len(t, Themes, 35)
	assert.Equal(t, "light", Themes[0])
	assert.Equal(t, "dark", Themes[1])
	assert.True(t, Valid("synthwave"))
	assert.False(t, Valid("solarized"))
}

func TestNext(t *testing.T) {
	assert.Equal(t, "dark", Next("light"))
	assert.Equal(t, "light", Next("silk"))
	assert.Equal(t, "light", Next("unknown"))
}

func TestLoad_UsesStoredTheme(t *testing.T) {
	svc, store := newTestService(t, StaticPreference(true))
	require.NoError(t, store.Set(StorageKey, "dracula"))

	assert.Equal(t, "dracula", svc.Load(context.Background()))
	assert.Equal(t, "dracula", svc.Current())
}

func TestLoad_FollowsPreferenceWhenNothingStored(t *testing.T) {
	dark, _ := newTestService(t, StaticPreference(true))
	assert.Equal(t, Dark, dark.Load(context.Background()))

	light, _ := newTestService(t, StaticPreference(false))
	assert.Equal(t, Light, light.Load(context.Background()))

	unavailable, _ := newTestService(t, failingPreference{})
	assert.Equal(t, Light, unavailable.Load(context.Background()))
}

func TestLoad_IgnoresUnknownStoredTheme(t *testing.T) {
	svc, store := newTestService(t, StaticPreference(true))
	require.NoError(t, store.Set(StorageKey, "solarized"))

	assert.Equal(t, Dark, svc.Load(context.Background()))
}

func TestLoad_FallbackBeatsPreference(t *testing.T) {
	svc, _ := newTestService(t, StaticPreference(true))
	svc.SetFallback("nord")
	assert.Equal(t, "nord", svc.Load(context.Background()))

	svc.SetFallback("bogus")
	assert.Equal(t, Dark, svc.Load(context.Background()))
}

func TestSet_AppliesAndPersists(t *testing.T) {
	svc, store := newTestService(t, nil)

	var applied []string
	svc.OnApply(func(name string) { applied = append(applied, name) })

	require.NoError(t, svc.Set("cupcake"))
	assert.Equal(t, "cupcake", svc.Current())
	assert.Equal(t, []string{"cupcake"}, applied)

	raw, ok, err := store.Get(StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cupcake", raw)
}

func TestSet_UnknownThemeIsIgnored(t *testing.T) {
	svc, store := newTestService(t, nil)
	require.NoError(t, svc.Set("retro"))

	err := svc.Set("solarized")
	assert.ErrorIs(t, err, ErrUnknownTheme)
	assert.Equal(t, "retro", svc.Current())

	raw, _, _ := store.Get(StorageKey)
	assert.Equal(t, "retro", raw)
}

func TestReset_ForgetsStoredTheme(t *testing.T) {
	svc, store := newTestService(t, StaticPreference(true))
	require.NoError(t, svc.Set("lofi"))

	require.NoError(t, svc.Reset(context.Background()))
	assert.Equal(t, Dark, svc.Current())

	has, err := store.Has(StorageKey)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestService_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first := NewService(storage.NewFile(path), nil, nil)
	require.NoError(t, first.Set("forest"))

	second := NewService(storage.NewFile(path), nil, nil)
	assert.Equal(t, "forest", second.Load(context.Background()))
}
