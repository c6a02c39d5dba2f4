package refcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := Generate()
		require.NoError(t, err)
		assert.Len(t, code, Length)

		normalized, err := Normalize(code)
		require.NoError(t, err)
		assert.Equal(t, code, normalized)

		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(" ab12cd34 ")
	require.NoError(t, err)
	assert.Equal(t, "AB12CD34", got)

	_, err = Normalize("AB12CD3")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = Normalize("AB12CD3!")
	assert.ErrorIs(t, err, ErrInvalidCode)
}
