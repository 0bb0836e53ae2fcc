package ulid

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	id := Generate()
	assert.False(t, id.IsZero())
	assert.Empty(t, id.Prefix())
	assert.True(t, Validate(id.String()))
}

func TestGenerateWithPrefix(t *testing.T) {
	id := GenerateWithPrefix(PrefixSetting)
	assert.Equal(t, PrefixSetting, id.Prefix())
	assert.Contains(t, id.String(), PrefixSetting+PrefixSeparator)

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id.String(), parsed.String())
}

func TestGenerateIsMonotonic(t *testing.T) {
	a := Generate()
	b := Generate()
	assert.True(t, a.String() < b.String(), "later ULIDs must sort after earlier ones")
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("not-a-ulid")
	assert.Error(t, err)
	assert.False(t, Validate("not-a-ulid"))
}

func TestTimeComponent(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	id := NewWithTime(now)
	assert.WithinDuration(t, now, id.Time(), time.Millisecond)
}

func TestJSONRoundTrip(t *testing.T) {
	id := GenerateWithPrefix(PrefixTeam)

	data, err := json.Marshal(id)
	require.NoError(t, err)

	var back ULID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, id.String(), back.String())
	assert.Equal(t, PrefixTeam, back.Prefix())
}

func TestSQLRoundTrip(t *testing.T) {
	id := GenerateWithPrefix(PrefixCeremony)

	v, err := id.Value()
	require.NoError(t, err)

	var back ULID
	require.NoError(t, back.Scan(v))
	assert.Equal(t, id.String(), back.String())

	require.NoError(t, back.Scan([]byte(id.String())))
	assert.Equal(t, id.String(), back.String())

	assert.Error(t, back.Scan(42), "unsupported scan types must fail")
}

func TestIDHelpers(t *testing.T) {
	assert.Contains(t, SettingID(), "set-")
	assert.Contains(t, TeamID(), "team-")
	assert.Contains(t, CeremonyID(), "cer-")
}
