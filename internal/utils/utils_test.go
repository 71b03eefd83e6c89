package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	// Values above 2^53 must survive the string round trip intact.
	v, err := ParseAmount("25000000000000000")
	require.NoError(t, err)
	assert.Equal(t, int64(25_000_000_000_000_000), v)

	v, err = ParseAmount(" 1250 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1250), v)

	_, err = ParseAmount("0.00125")
	assert.Error(t, err)
	_, err = ParseAmount("")
	assert.Error(t, err)
	_, err = ParseAmount("1e18")
	assert.Error(t, err)
}

func TestFormatTokens(t *testing.T) {
	assert.Equal(t, "0.00125", FormatTokens(1_250_000_000_000_000))
	assert.Equal(t, "0.025", FormatTokens(25_000_000_000_000_000))
	assert.Equal(t, "2", FormatTokens(2_000_000_000_000_000_000))
	assert.Equal(t, "0", FormatTokens(0))
}
