package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)

	for _, s := range []string{
		"2024-10-10",
		"2024-10-10T10:10:10Z",
		strconv.FormatInt(time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix(), 10),
	} {
		got, ok := ParseDate(s)
		assert.True(t, ok, s)
		assert.Equal(t, want, got, s)
	}

	_, ok := ParseDate("10/10/2024")
	assert.False(t, ok)
}

func TestParseDateDefault(t *testing.T) {
	def := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, def, ParseDateDefault("", def))
	assert.Equal(t, def, ParseDateDefault("garbage", def))
}

func TestMidnightUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	in := time.Date(2024, 3, 1, 22, 30, 0, 0, est)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), MidnightUTC(in))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, SplitList(" k1:9092, ,k2:9092 "))
	assert.Empty(t, SplitList(""))
}
