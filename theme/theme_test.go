package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForIsDeterministic(t *testing.T) {
	for _, dark := range []bool{false, true} {
		a := For(dark)
		b := For(!dark)
		c := For(dark)
		assert.Equal(t, a, c, "same flag must yield the same palette")
		assert.NotEqual(t, a.Particle, b.Particle)
	}

	assert.Len(t, For(true).Particle, 3)
	assert.Len(t, For(false).Particle, 2)
	assert.Equal(t, BlendScreen, For(true).Blend)
	assert.Equal(t, BlendMultiply, For(false).Blend)
}

func TestForReturnsCopies(t *testing.T) {
	p := For(true)
	p.Particle[0].Alpha = 0
	assert.Equal(t, float32(1), For(true).Particle[0].Alpha)
}

func TestParticleColorAt(t *testing.T) {
	tests := []struct {
		name    string
		dark    bool
		offset  float32
		opacity float32
		want    color.RGBA
	}{
		{"dark centre", true, 0, 1, color.RGBA{R: 6, G: 182, B: 212, A: 255}},
		{"dark middle stop", true, 0.5, 1, color.RGBA{R: 16, G: 185, B: 129, A: 179}},
		{"dark outer", true, 1, 1, color.RGBA{R: 59, G: 130, B: 246, A: 77}},
		{"light centre half opacity", false, 0, 0.5, color.RGBA{R: 6, G: 182, B: 212, A: 38}},
		{"light midpoint", false, 0.5, 1, color.RGBA{R: 11, G: 184, B: 171, A: 51}},
		{"clamped below", true, -1, 1, color.RGBA{R: 6, G: 182, B: 212, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := For(tt.dark).ParticleColorAt(tt.offset, tt.opacity)
			assertColorNear(t, tt.want, got)
		})
	}
}

func TestLinkColors(t *testing.T) {
	from, to := For(true).LinkColors(0.1)
	assertColorNear(t, color.RGBA{R: 6, G: 182, B: 212, A: 26}, from)
	assertColorNear(t, color.RGBA{R: 16, G: 185, B: 129, A: 26}, to)

	// Light links are drawn at half the alpha
	from, _ = For(false).LinkColors(0.2)
	assertColorNear(t, color.RGBA{R: 6, G: 182, B: 212, A: 26}, from)
}

// assertColorNear compares RGB exactly and alpha within one step.
func assertColorNear(t *testing.T, want, got color.RGBA) {
	t.Helper()
	assert.Equal(t, [3]uint8{want.R, want.G, want.B}, [3]uint8{got.R, got.G, got.B}, "rgb")
	assert.InDelta(t, float64(want.A), float64(got.A), 1, "alpha")
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	store := NewStore(path)

	dark, err := store.LoadDark()
	require.NoError(t, err)
	assert.False(t, dark, "missing file reads as light")

	require.NoError(t, store.SaveDark(true))
	dark, err = store.LoadDark()
	require.NoError(t, err)
	assert.True(t, dark)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "darkMode: \"true\"")

	require.NoError(t, store.SaveDark(false))
	dark, err = store.LoadDark()
	require.NoError(t, err)
	assert.False(t, dark)
}

func TestStoreKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lastSection: contact\n"), 0644))

	store := NewStore(path)
	require.NoError(t, store.SaveDark(true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lastSection: contact")
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- ["), 0644))

	_, err := NewStore(path).LoadDark()
	assert.Error(t, err)
}

func TestRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	store := NewStore(path)

	s, err := Restore(store, true)
	require.NoError(t, err)
	assert.True(t, s.Dark(), "fallback applies when nothing is persisted")

	require.NoError(t, store.SaveDark(false))
	s, err = Restore(store, true)
	require.NoError(t, err)
	assert.False(t, s.Dark(), "persisted value wins over fallback")
}

func TestStateToggleNotifiesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	s := NewState(false, NewStore(path))

	var seen []bool
	unsubscribe := s.Subscribe(func(dark bool) { seen = append(seen, dark) })

	dark, err := s.Toggle()
	require.NoError(t, err)
	assert.True(t, dark)

	// Setting the same value does not notify
	require.NoError(t, s.Set(true))

	_, err = s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, seen)

	unsubscribe()
	require.NoError(t, s.Set(true))
	assert.Len(t, seen, 2)

	persisted, err := NewStore(path).LoadDark()
	require.NoError(t, err)
	assert.True(t, persisted)
}

func TestStateWithoutStore(t *testing.T) {
	s := NewState(true, nil)
	require.NoError(t, s.Set(false))
	assert.False(t, s.Dark())
	assert.False(t, s.Palette().Dark)
}
