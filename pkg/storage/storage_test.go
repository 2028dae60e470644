package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailout/pkg/storage"
)

func TestConfigConfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  storage.Config
		want bool
	}{
		{
			name: "complete",
			cfg:  storage.Config{Bucket: "reports", AccessKey: "ak", SecretKey: "sk"},
			want: true,
		},
		{
			name: "empty",
			cfg:  storage.Config{},
			want: false,
		},
		{
			name: "missing bucket",
			cfg:  storage.Config{AccessKey: "ak", SecretKey: "sk"},
			want: false,
		},
		{
			name: "missing secret",
			cfg:  storage.Config{Bucket: "reports", AccessKey: "ak"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, tt.cfg.Configured())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects incomplete config", func(t *testing.T) {
		t.Parallel()

		_, err := storage.New(storage.Config{Bucket: "reports"})
		require.ErrorIs(t, err, storage.ErrInvalidConfig)
	})

	t.Run("accepts complete config", func(t *testing.T) {
		t.Parallel()

		store, err := storage.New(storage.Config{
			Bucket:    "reports",
			AccessKey: "ak",
			SecretKey: "sk",
			Endpoint:  "http://localhost:9000",
			PathStyle: true,
		})
		require.NoError(t, err)
		require.NotNil(t, store)
	})
}
