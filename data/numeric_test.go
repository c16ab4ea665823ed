package data

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVolumeBounds(t *testing.T) {
	v, err := NewVolume(0)
	require.NoError(t, err)
	assert.Equal(t, Volume(0), v)

	v, err = NewVolume(100)
	require.NoError(t, err)
	assert.Equal(t, Volume(100), v)

	_, err = NewVolume(-1)
	assert.Error(t, err)
	_, err = NewVolume(101)
	assert.Error(t, err)
}

func TestVolumeAddSaturates(t *testing.T) {
	v := Volume(98)
	assert.Equal(t, Volume(100), v.Add(10))
	assert.Equal(t, Volume(0), Volume(2).Add(-10))
	assert.Equal(t, Volume(50), Volume(40).Add(10))
}

func TestVolumeRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 50, 99, 100} {
		v, err := NewVolume(n)
		require.NoError(t, err)
		text, ok := v.EncodeHeosValue()
		require.True(t, ok)
		parsed, err := ParseVolume(text)
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
}

func TestNewVolumeStepBounds(t *testing.T) {
	_, err := NewVolumeStep(-1)
	assert.Error(t, err)
	_, err = NewVolumeStep(11)
	assert.Error(t, err)
	s, err := NewVolumeStep(10)
	require.NoError(t, err)
	assert.Equal(t, VolumeStep(10), s)
}

func TestParsePlayerIdRoundTrip(t *testing.T) {
	id := PlayerId(123456789)
	parsed, err := ParsePlayerId(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParsePlayerId("not-a-number")
	assert.Error(t, err)
}

func TestQueueIdConvention(t *testing.T) {
	assert.Equal(t, QueueId(0), NowPlayingSlot)
	id, err := ParseQueueId("1")
	require.NoError(t, err)
	assert.Equal(t, QueueId(1), id)
}

func TestAddToQueueTypeRoundTrip(t *testing.T) {
	for _, want := range []AddToQueueType{
		AddToQueuePlayNow, AddToQueuePlayNext, AddToQueueAddToEnd, AddToQueueReplaceAndPlay,
	} {
		text, ok := want.EncodeHeosValue()
		require.True(t, ok)
		n, err := strconv.Atoi(text)
		require.NoError(t, err)
		got, err := ParseAddToQueueType(n)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseAddToQueueType(0)
	assert.Error(t, err)
}
