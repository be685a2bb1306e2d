package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBagOfWordsMatcher_EmptyInput(t *testing.T) {
	m := NewBagOfWordsMatcher()

	assert.Zero(t, m.Compare("絵を描くこと", ""))
	assert.Zero(t, m.Compare("", "絵を描くこと"))
	assert.Zero(t, m.Compare("", ""))
	assert.Zero(t, m.Compare("、、、", "絵を描くこと"))
}

func TestBagOfWordsMatcher_IdenticalTexts(t *testing.T) {
	m := NewBagOfWordsMatcher()

	assert.InDelta(t, 1.0, m.Compare("drawing games music", "drawing games music"), 1e-9)
	assert.InDelta(t, 1.0, m.Compare("絵 ゲーム 音楽", "絵 ゲーム 音楽"), 1e-9)
}

func TestBagOfWordsMatcher_PartialOverlap(t *testing.T) {
	m := NewBagOfWordsMatcher()

	// One shared token out of two on each side: cosine = 1/2.
	sim := m.Compare("drawing games", "drawing music")
	assert.InDelta(t, 0.5, sim, 1e-9)

	assert.Zero(t, m.Compare("drawing", "music"))
}

func TestBagOfWordsMatcher_CaseInsensitive(t *testing.T) {
	m := NewBagOfWordsMatcher()

	assert.InDelta(t, 1.0, m.Compare("Minecraft", "minecraft"), 1e-9)
}

func TestBagOfWordsMatcher_Tokenize(t *testing.T) {
	m := NewBagOfWordsMatcher()

	assert.Equal(t, []string{"drawing", "games", "music"}, m.Tokenize("Drawing, games / music!"))
	assert.Empty(t, m.Tokenize("、。！"))
}
