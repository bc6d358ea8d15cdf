package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFounded(t *testing.T) {
	founded, age, err := ParseFounded("-1", 2024)
	require.NoError(t, err)
	assert.Nil(t, founded)
	assert.Nil(t, age)

	founded, age, err = ParseFounded("1999", 2024)
	require.NoError(t, err)
	require.NotNil(t, founded)
	require.NotNil(t, age)
	assert.Equal(t, 1999, *founded)
	assert.Equal(t, 25, *age)

	founded, age, err = ParseFounded(" 1993.0 ", 2024)
	require.NoError(t, err)
	assert.Equal(t, 1993, *founded)
	assert.Equal(t, 31, *age)

	founded, _, err = ParseFounded("2001.000", 2024)
	require.NoError(t, err)
	assert.Equal(t, 2001, *founded)

	_, age, err = ParseFounded("2024", 2024)
	require.NoError(t, err)
	assert.Equal(t, 0, *age)
}

func TestParseFoundedUnparseable(t *testing.T) {
	for _, raw := range []string{"", "abc", "1999.5", "2030", "0", "-7", "NaN", "1e300", "2e3", "0x7d0", "0x1.f4p10", "1999.", ".0", "1999.01"} {
		t.Run(raw, func(t *testing.T) {
			founded, age, err := ParseFounded(raw, 2024)
			assert.Nil(t, founded)
			assert.Nil(t, age)

			var yearErr *UnparseableYearError
			require.ErrorAs(t, err, &yearErr)
			assert.Equal(t, raw, yearErr.Raw)
		})
	}
}
