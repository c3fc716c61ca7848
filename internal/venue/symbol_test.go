package venue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

func TestNormalize_OKX(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "standard symbol",
			input:    "BTCUSDT",
			expected: "BTC-USDT-SWAP",
		},
		{
			name:     "lowercase with whitespace",
			input:    "  ethusdt ",
			expected: "ETH-USDT-SWAP",
		},
		{
			name:     "numeric base",
			input:    "1000PEPEUSDT",
			expected: "1000PEPE-USDT-SWAP",
		},
		{
			name:    "already normalized id is rejected, not double-transformed",
			input:   "BTC-USDT-SWAP",
			wantErr: true,
		},
		{
			name:    "missing quote suffix",
			input:   "BTCUSD",
			wantErr: true,
		},
		{
			name:    "quote suffix only",
			input:   "USDT",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "punctuation",
			input:   "BTC/USDT",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input, model.VenueOKX)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSymbol))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalize_BinanceAndBybit(t *testing.T) {
	for _, v := range []model.Venue{model.VenueBinance, model.VenueBybit} {
		got, err := Normalize("btcusdt", v)
		require.NoError(t, err)
		assert.Equal(t, "BTCUSDT", got)

		// Idempotent: a validated symbol passes through unchanged.
		again, err := Normalize(got, v)
		require.NoError(t, err)
		assert.Equal(t, got, again)

		_, err = Normalize("BTC-USDT", v)
		assert.ErrorIs(t, err, ErrInvalidSymbol)

		_, err = Normalize("BTCBUSD", v)
		assert.ErrorIs(t, err, ErrInvalidSymbol)
	}
}
