package raw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnum int

func (f fakeEnum) EncodeHeosValue() (string, bool) {
	if f == 0 {
		return "", false
	}
	return "lit", true
}

type innerParams struct {
	Artist string `heos:"artist"`
}

type testCommand struct {
	Pid      int64    `heos:"pid"`
	Name     string   `heos:"name,omitempty"`
	Enabled  bool     `heos:"enabled"`
	Skip     string   `heos:"-"`
	Optional *string  `heos:"optional,omitempty"`
	Criteria fakeEnum `heos:"criteria,omitempty"`
	Ids      []int64  `heos:"ids,omitempty"`
	Inner    innerParams `heos:",flatten"`
}

func TestEncodeStructRoundTrip(t *testing.T) {
	opt := "present"
	cmd, err := Encode("player", "set_volume", testCommand{
		Pid: 1, Name: "", Enabled: true, Skip: "never-emitted",
		Optional: &opt, Criteria: fakeEnum(1), Ids: []int64{1, 2, 3},
		Inner: innerParams{Artist: "Radiohead"},
	})
	require.NoError(t, err)

	assert.Equal(t, "1", cmd.Params["pid"])
	assert.Equal(t, "on", cmd.Params["enabled"])
	assert.Equal(t, "present", cmd.Params["optional"])
	assert.Equal(t, "lit", cmd.Params["criteria"])
	assert.Equal(t, "1,2,3", cmd.Params["ids"])
	assert.Equal(t, "Radiohead", cmd.Params["artist"])
	_, hasSkip := cmd.Params["Skip"]
	assert.False(t, hasSkip)
	// Name carries omitempty but encodeValue always reports strings as
	// present, so an empty string is still emitted as "" — omitempty
	// only takes effect for values encodeValue reports absent (nil
	// pointers, declining RawEncoders, empty/nil slices).
	name, hasName := cmd.Params["name"]
	assert.True(t, hasName)
	assert.Equal(t, "", name)

	// String()/ParseLine round-trip through the wire text form.
	line := cmd.String()
	parsed, err := ParseLine(line)
	require.NoError(t, err)
	assert.Equal(t, cmd.Group, parsed.Group)
	assert.Equal(t, cmd.Name, parsed.Name)
	assert.Equal(t, cmd.Params, parsed.Params)
}

func TestEncodeNilOptionalOmitted(t *testing.T) {
	cmd, err := Encode("player", "set_volume", testCommand{Pid: 2})
	require.NoError(t, err)
	_, ok := cmd.Params["optional"]
	assert.False(t, ok)
	_, ok = cmd.Params["criteria"]
	assert.False(t, ok)
	_, ok = cmd.Params["ids"]
	assert.False(t, ok)
}

func TestEncodeRejectsNonStructNonMap(t *testing.T) {
	_, err := Encode("player", "get_players", 42)
	require.Error(t, err)
	var invalid *InvalidTopLevelError
	assert.ErrorAs(t, err, &invalid)
}

func TestEncodeMapInto(t *testing.T) {
	cmd, err := Encode("system", "heart_beat", map[string]string{"a": "1", "b": "2"})
	require.NoError(t, err)
	assert.Equal(t, "1", cmd.Params["a"])
	assert.Equal(t, "2", cmd.Params["b"])
}

func TestRangeEncodeHeosValue(t *testing.T) {
	r := Range{Start: 0, End: 9}
	text, ok := r.EncodeHeosValue()
	require.True(t, ok)
	assert.Equal(t, "0,9", text)
}

func TestCommandStringDeterministicOrder(t *testing.T) {
	cmd := New("player", "get_queue")
	cmd = cmd.Set("range", "0,9").Set("pid", "1")
	assert.Equal(t, "heos://player/get_queue?pid=1&range=0%2C9", cmd.String())
}
