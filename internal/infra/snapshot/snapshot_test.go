package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutAndGet(t *testing.T) {
	store := NewMemoryStore()
	data := []byte(`{"feedbacks":[]}`)

	key, err := store.Put(context.Background(), "feedback/snapshots/a.json", data, "application/json")
	require.NoError(t, err)
	require.Equal(t, "feedback/snapshots/a.json", key)

	data[0] = 'X'
	got, contentType, err := store.Get(key)
	require.NoError(t, err)
	require.Equal(t, `{"feedbacks":[]}`, string(got))
	require.Equal(t, "application/json", contentType)

	_, _, err = store.Get("missing")
	require.Error(t, err)
}

func TestMemoryStoreKeysSorted(t *testing.T) {
	store := NewMemoryStore()
	for _, k := range []string{"b", "c", "a"} {
		_, err := store.Put(context.Background(), k, nil, "")
		require.NoError(t, err)
	}
	require.Equal(t, []string{"a", "b", "c"}, store.Keys())
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "acc.r2.cloudflarestorage.com", sanitizeEndpoint("https://acc.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint(" http://localhost:9000 "))
	require.Equal(t, "s3.amazonaws.com", sanitizeEndpoint("s3.amazonaws.com"))
	require.Equal(t, "", sanitizeEndpoint(""))
}

func TestNewObjectStoreRequiresBucket(t *testing.T) {
	_, err := NewObjectStore(Config{Endpoint: "localhost:9000"}, nil)
	require.Error(t, err)

	store, err := NewObjectStore(Config{Endpoint: "http://localhost:9000", Bucket: "snapshots", AccessKey: "k", SecretKey: "s"}, nil)
	require.NoError(t, err)
	require.NotNil(t, store)
}
