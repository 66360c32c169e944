package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func TestClientOptions(t *testing.T) {
	t.Run("reads from the primary with the default timeout", func(t *testing.T) {
		opts := clientOptions(Config{URI: "mongodb://localhost:27017"})

		require.NotNil(t, opts.ReadPreference)
		assert.Equal(t, readpref.PrimaryMode, opts.ReadPreference.Mode())
		require.NotNil(t, opts.ServerSelectionTimeout)
		assert.Equal(t, defaultTimeout, *opts.ServerSelectionTimeout)
	})

	t.Run("uri read preference is overridden", func(t *testing.T) {
		opts := clientOptions(Config{
			URI:     "mongodb://localhost:27017/?readPreference=secondaryPreferred",
			Timeout: 3 * time.Second,
		})

		require.NotNil(t, opts.ReadPreference)
		assert.Equal(t, readpref.PrimaryMode, opts.ReadPreference.Mode())
		assert.Equal(t, 3*time.Second, *opts.ServerSelectionTimeout)
	})
}
