package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSanitizeUTF8(t *testing.T) {
	require.Equal(t, "", SanitizeUTF8(""))
	require.Equal(t, "hello", SanitizeUTF8("hello"))
	require.Equal(t, "héllo", SanitizeUTF8("héllo"))

	// Invalid sequences are stripped, valid runes around them survive.
	require.Equal(t, "ab", SanitizeUTF8("a\xffb"))
	require.Equal(t, "(", SanitizeUTF8("\xc3\x28"))
}

func TestUUIDRoundTrip(t *testing.T) {
	const id = "8f14e45f-ceea-4f31-a9bd-40e67a4a338c"

	u := toUUID(id)
	require.True(t, u.Valid)
	require.Equal(t, id, fromUUID(u))
}

func TestUUIDInvalid(t *testing.T) {
	u := toUUID("not-a-uuid")
	require.False(t, u.Valid)
	require.Equal(t, "", fromUUID(u))
}

func TestTextHelpers(t *testing.T) {
	require.False(t, toText("").Valid)

	v := toText("value")
	require.True(t, v.Valid)
	require.Equal(t, "value", fromText(v))
}

func TestTimestamptzHelpers(t *testing.T) {
	require.False(t, toTimestamptz(time.Time{}).Valid)
	require.False(t, toTimestamptzPtr(nil).Valid)

	now := time.Now().UTC()
	require.Equal(t, now, fromTimestamptz(toTimestamptz(now)))

	ptr := fromTimestamptzPtr(toTimestamptzPtr(&now))
	require.NotNil(t, ptr)
	require.Equal(t, now, *ptr)

	require.Nil(t, fromTimestamptzPtr(toTimestamptzPtr(nil)))
}

func TestSafeIntToInt32(t *testing.T) {
	require.Equal(t, int32(42), safeIntToInt32(42))
	require.Equal(t, int32(2147483647), safeIntToInt32(1<<40))
	require.Equal(t, int32(-2147483648), safeIntToInt32(-(1 << 40)))
}
