package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestParseEndDate(t *testing.T) {
	end, err := parseEndDate("30", testNow)
	require.NoError(t, err)
	require.NotNil(t, end)
	assert.Equal(t, testNow.Add(30*24*time.Hour), *end)

	end, err = parseEndDate("Permanent", testNow)
	require.NoError(t, err)
	assert.Nil(t, end)

	_, err = parseEndDate("4", testNow)
	require.Error(t, err)

	_, err = parseEndDate("soon", testNow)
	require.Error(t, err)
}

func TestResolveEndDateSetDays(t *testing.T) {
	current := testNow.Add(24 * time.Hour)

	end, changed, resetStart, err := resolveEndDate(&current, durationOptions{SetDays: "10"}, testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, resetStart)
	require.NotNil(t, end)
	assert.Equal(t, testNow.Add(10*24*time.Hour), *end)

	end, changed, resetStart, err = resolveEndDate(&current, durationOptions{SetDays: "permanent"}, testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, resetStart)
	assert.Nil(t, end)
}

func TestResolveEndDatePrecedence(t *testing.T) {
	opts := durationOptions{SetDays: "10", ExtendDays: 20, AddDays: "30"}

	end, changed, _, err := resolveEndDate(nil, opts, testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, testNow.Add(10*24*time.Hour), *end)

	opts.SetDays = ""
	end, _, resetStart, err := resolveEndDate(nil, opts, testNow)
	require.NoError(t, err)
	assert.False(t, resetStart)
	assert.Equal(t, testNow.Add(20*24*time.Hour), *end)
}

func TestResolveEndDateAddDays(t *testing.T) {
	current := testNow.Add(3 * 24 * time.Hour)

	// adds on top of a future end date
	end, changed, _, err := resolveEndDate(&current, durationOptions{AddDays: "7"}, testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, current.Add(7*24*time.Hour), *end)

	// counts from now when the rank is permanent
	end, _, _, err = resolveEndDate(nil, durationOptions{AddDays: "7"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(7*24*time.Hour), *end)

	// counts from now when the old end date already passed
	past := testNow.Add(-24 * time.Hour)
	end, _, _, err = resolveEndDate(&past, durationOptions{AddDays: "7"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(7*24*time.Hour), *end)

	// can make a bounded rank permanent
	end, changed, _, err = resolveEndDate(&current, durationOptions{AddDays: "permanent"}, testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, end)

	// same five-day floor as the other duration options
	_, _, _, err = resolveEndDate(&current, durationOptions{AddDays: "4"}, testNow)
	require.Error(t, err)

	_, _, _, err = resolveEndDate(&current, durationOptions{AddDays: "-2"}, testNow)
	require.Error(t, err)
}

func TestResolveEndDateNoOptions(t *testing.T) {
	current := testNow.Add(24 * time.Hour)

	_, changed, _, err := resolveEndDate(&current, durationOptions{}, testNow)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestResolveEndDateRejectsShortExtend(t *testing.T) {
	_, _, _, err := resolveEndDate(nil, durationOptions{ExtendDays: 3}, testNow)
	require.Error(t, err)
}

func TestDescribeEnd(t *testing.T) {
	future := testNow.Add(47 * time.Hour)
	past := testNow.Add(-time.Hour)

	assert.Equal(t, "permanent", describeEnd(storage.Profile{}, testNow))
	assert.Equal(t, "2 day(s) left", describeEnd(storage.Profile{RankEndDate: &future}, testNow))
	assert.Equal(t, "expired", describeEnd(storage.Profile{RankEndDate: &past}, testNow))
}
