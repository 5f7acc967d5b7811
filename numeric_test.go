package jxc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitNumber_RoundTrip(t *testing.T) {
	cases := []string{
		"0", "42", "-7", "+7",
		"3.14", "-0.5", "1e10", "1.5e-3", "1E+3",
		"0x1F", "0o17", "0b101",
		"100%", "12kg", "3.14m",
		"nan", "inf", "-inf", "+inf",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			tok := Token{Type: TokenNumber, Value: src}
			d, err := SplitNumber(tok)
			require.NoError(t, err)
			assert.Equal(t, src, d.Literal())
		})
	}
}

func TestSplitNumber_RejectsNonNumberToken(t *testing.T) {
	_, err := SplitNumber(Token{Type: TokenString, Value: "x"})
	assert.Error(t, err)
}

func TestDecomposedNumber_IsFloat(t *testing.T) {
	t.Run("integer", func(t *testing.T) {
		d, err := SplitNumber(Token{Type: TokenNumber, Value: "42"})
		require.NoError(t, err)
		assert.False(t, d.IsFloat())
	})
	t.Run("fractional", func(t *testing.T) {
		d, err := SplitNumber(Token{Type: TokenNumber, Value: "4.2"})
		require.NoError(t, err)
		assert.True(t, d.IsFloat())
	})
	t.Run("positive exponent stays integral", func(t *testing.T) {
		d, err := SplitNumber(Token{Type: TokenNumber, Value: "1e3"})
		require.NoError(t, err)
		assert.False(t, d.IsFloat())
	})
	t.Run("negative exponent forces float", func(t *testing.T) {
		d, err := SplitNumber(Token{Type: TokenNumber, Value: "1e-3"})
		require.NoError(t, err)
		assert.True(t, d.IsFloat())
	})
	t.Run("nan and inf are always float", func(t *testing.T) {
		d, err := SplitNumber(Token{Type: TokenNumber, Value: "nan"})
		require.NoError(t, err)
		assert.True(t, d.IsFloat())
	})
}

func TestSplitNumber_Suffix(t *testing.T) {
	d, err := SplitNumber(Token{Type: TokenNumber, Value: "12kg"})
	require.NoError(t, err)
	assert.Equal(t, "kg", d.Suffix)
	assert.Equal(t, "12", d.IntegerDigits)
}

func TestDigitValueInBase(t *testing.T) {
	assert.True(t, digitValueInBase('9', PrefixNone))
	assert.False(t, digitValueInBase('a', PrefixNone))
	assert.True(t, digitValueInBase('f', PrefixHex))
	assert.True(t, digitValueInBase('F', PrefixHex))
	assert.False(t, digitValueInBase('g', PrefixHex))
	assert.True(t, digitValueInBase('7', PrefixOctal))
	assert.False(t, digitValueInBase('8', PrefixOctal))
	assert.True(t, digitValueInBase('1', PrefixBinary))
	assert.False(t, digitValueInBase('2', PrefixBinary))
}
