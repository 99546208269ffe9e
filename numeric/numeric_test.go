package numeric

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"50000", 50000},
		{"$50,000.25", 50000.25},
		{"-1,200", -1200},
		{"5.", 5},
		{".5", 0.5},
		{"-.5", -0.5},
		{"USD 2500", 2500},
		{"1e3", 13},
		{"1-2", 0},
		{"1.2.3", 0},
		{"-", 0},
		{".", 0},
		{"--5", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestParseOverflowIsZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Parse("1"+strings.Repeat("0", 400)))
}

func TestFixed2(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "100.00", Fixed2(100))
	assert.Equal(t, "0.00", Fixed2(0))
	assert.Equal(t, "-12.35", Fixed2(-12.345))
	assert.Equal(t, "0.30", Fixed2(0.1+0.2))
}

func TestMoney(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.00", Money(0))
	assert.Equal(t, "999.00", Money(999))
	assert.Equal(t, "1,234.56", Money(1234.56))
	assert.Equal(t, "-51,000.00", Money(-51000))
	assert.Equal(t, "1,000,000.10", Money(1000000.1))
}

func TestBlank(t *testing.T) {
	t.Parallel()

	assert.True(t, Blank(""))
	assert.True(t, Blank(" \t"))
	assert.False(t, Blank("0"))
}
