package typegraph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericString(t *testing.T) {
	tests := []struct {
		name string
		in   Numeric
		want string
	}{
		{"integer", IntNumeric(-20), "-20"},
		{"zero", Numeric{}, "0"},
		{"fraction", MustNumeric("2.5"), "2.5"},
		{"int64 bigint", MustNumeric("-9223372036854775808").BigInt(), "-9223372036854775808n"},
		{"uint64 bigint", MustNumeric("18446744073709551615").BigInt(), "18446744073709551615n"},
		{"float32 max", FloatNumeric(3.4028235e38), "3.4028235e+38"},
		{"float32 min", FloatNumeric(-3.4028235e38), "-3.4028235e+38"},
		{"large integer", IntNumeric(1000000), "1000000"},
		{"tiny", FloatNumeric(1e-7), "1e-7"},
		{"exponent literal", MustNumeric("1e3"), "1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestNumericCompare(t *testing.T) {
	a := MustNumeric("-2147483648")
	b := IntNumeric(22)
	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, b.Cmp(a))
	assert.Equal(t, 0, b.Cmp(MustNumeric("22.0")))
	assert.Equal(t, 0, IntNumeric(0).Cmp(Numeric{}))

	big := MustNumeric("9223372036854775807").BigInt()
	assert.Equal(t, 1, big.Cmp(IntNumeric(math.MaxInt32)))
	assert.True(t, big.IsBigInt())
	assert.False(t, big.IsBigInt() && !big.IsInt())
}

func TestParseNumeric(t *testing.T) {
	_, err := ParseNumeric("twelve")
	require.Error(t, err)

	n, err := ParseNumeric(" 42 ")
	require.NoError(t, err)
	v, ok := n.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(42), v)

	_, ok = MustNumeric("1.5").Int64()
	assert.False(t, ok)
}

func TestNumericText(t *testing.T) {
	var n Numeric
	require.NoError(t, n.UnmarshalText([]byte("255n")))
	assert.True(t, n.IsBigInt())
	assert.Equal(t, "255n", n.String())

	b, err := IntNumeric(7).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "7", string(b))
}

func TestFormatJSNumber(t *testing.T) {
	assert.Equal(t, "Infinity", FormatJSNumber(math.Inf(1)))
	assert.Equal(t, "-Infinity", FormatJSNumber(math.Inf(-1)))
	assert.Equal(t, "NaN", FormatJSNumber(math.NaN()))
	assert.Equal(t, "0.5", FormatJSNumber(0.5))
	assert.Equal(t, "1e+21", FormatJSNumber(1e21))
}
