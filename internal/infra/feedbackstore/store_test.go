package feedbackstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/brew-advisor/internal/domain/feedback"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type storeFactory func(t *testing.T) feedback.Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) feedback.Store {
			return NewMemoryStore()
		},
		"file": func(t *testing.T) feedback.Store {
			return NewFileStore(filepath.Join(t.TempDir(), "data", "feedback.json"), newTestLogger())
		},
		"badger": func(t *testing.T) feedback.Store {
			db, err := OpenBadger("")
			require.NoError(t, err)
			store, err := NewBadgerStore(db, newTestLogger())
			require.NoError(t, err)
			t.Cleanup(func() {
				_ = store.Close()
				_ = db.Close()
			})
			return store
		},
		"valkey": func(t *testing.T) feedback.Store {
			_, client := newMiniredisClient(t)
			return NewValkeyStore(client, "test", newTestLogger())
		},
	}
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, valkey.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return mr, client
}

func record(beverage string, liked bool) feedback.Record {
	return feedback.Record{
		RecommendedBeverage: beverage,
		Weather:             "Rainy",
		Mood:                "Relaxed",
		Temperature:         18,
		Humidity:            80,
		Liked:               liked,
	}
}

func TestStoresAppendAndLoad(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			empty, err := store.LoadAll(ctx)
			require.NoError(t, err)
			require.NotNil(t, empty)
			require.Empty(t, empty)

			first, err := store.Append(ctx, record("Masala Chai", true))
			require.NoError(t, err)
			require.NotEmpty(t, first.ID)
			require.NotEmpty(t, first.Timestamp)

			second, err := store.Append(ctx, record("Cold Brew", false))
			require.NoError(t, err)
			require.NotEqual(t, first.ID, second.ID)

			log, err := store.LoadAll(ctx)
			require.NoError(t, err)
			require.Len(t, log, 2)
			require.Equal(t, first, log[0])
			require.Equal(t, second, log[1])
		})
	}
}

func TestStoresConcurrentAppendsAreNotLost(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			const writers = 25
			errs := make(chan error, writers)
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, err := store.Append(ctx, record(fmt.Sprintf("Beverage %d", i), i%2 == 0))
					errs <- err
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			log, err := store.LoadAll(ctx)
			require.NoError(t, err)
			require.Len(t, log, writers)

			seen := make(map[string]struct{}, writers)
			for _, rec := range log {
				seen[rec.ID] = struct{}{}
			}
			require.Len(t, seen, writers)
		})
	}
}

func TestStoresEvictOldest(t *testing.T) {
	for _, name := range []string{"memory", "badger", "valkey"} {
		factory := backends()[name]
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			for i := 0; i <= feedback.MaxRecords; i++ {
				_, err := store.Append(ctx, record(fmt.Sprintf("B%d", i), true))
				require.NoError(t, err)
			}

			log, err := store.LoadAll(ctx)
			require.NoError(t, err)
			require.Len(t, log, feedback.MaxRecords)
			require.Equal(t, "B1", log[0].RecommendedBeverage)
			require.Equal(t, fmt.Sprintf("B%d", feedback.MaxRecords), log[len(log)-1].RecommendedBeverage)
		})
	}
}

func TestValkeyStoreKeepsListAtCap(t *testing.T) {
	mr, client := newMiniredisClient(t)
	store := NewValkeyStore(client, "cap", newTestLogger())
	ctx := context.Background()

	for i := 0; i < feedback.MaxRecords+5; i++ {
		_, err := store.Append(ctx, record(fmt.Sprintf("B%d", i), i%3 == 0))
		require.NoError(t, err)
	}

	items, err := mr.List("cap:feedbacks")
	require.NoError(t, err)
	require.Len(t, items, feedback.MaxRecords)
	var oldest feedback.Record
	require.NoError(t, json.Unmarshal([]byte(items[0]), &oldest))
	require.Equal(t, "B5", oldest.RecommendedBeverage)
}

func TestValkeyStoreSkipsUndecodableEntries(t *testing.T) {
	mr, client := newMiniredisClient(t)
	store := NewValkeyStore(client, "mixed", newTestLogger())
	ctx := context.Background()

	_, err := store.Append(ctx, record("Kombucha", true))
	require.NoError(t, err)
	_, err = mr.Push("mixed:feedbacks", "{broken")
	require.NoError(t, err)

	log, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, log, 1)
	require.Equal(t, "Kombucha", log[0].RecommendedBeverage)
}

func TestValkeyStoreUnreachableServerReadsEmpty(t *testing.T) {
	mr, client := newMiniredisClient(t)
	store := NewValkeyStore(client, "down", newTestLogger())

	_, err := store.Append(context.Background(), record("Green Tea", true))
	require.NoError(t, err)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	log, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, log)
	require.Empty(t, log)

	_, err = store.Append(ctx, record("Green Tea", false))
	require.Error(t, err)
}

func TestFileStoreEvictsOldest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.json")
	seed := feedback.Document{Feedbacks: make(feedback.Log, 0, feedback.MaxRecords)}
	for i := 0; i < feedback.MaxRecords; i++ {
		seed.Feedbacks = append(seed.Feedbacks, feedback.Record{ID: fmt.Sprintf("seed-%d", i), RecommendedBeverage: "Tea"})
	}
	data, err := json.Marshal(seed)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store := NewFileStore(path, newTestLogger())
	added, err := store.Append(context.Background(), record("Lassi", true))
	require.NoError(t, err)

	log, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, log, feedback.MaxRecords)
	require.Equal(t, "seed-1", log[0].ID)
	require.Equal(t, added.ID, log[len(log)-1].ID)
}

func TestFileStoreWritesFeedbacksDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "feedback.json")
	store := NewFileStore(path, newTestLogger())

	_, err := store.Append(context.Background(), record("Hot Cocoa", true))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc["feedbacks"], 1)
	require.Equal(t, "Hot Cocoa", doc["feedbacks"][0]["recommended_beverage"])
	require.Equal(t, true, doc["feedbacks"][0]["liked"])
}

func TestFileStoreCorruptFileReadsEmptyAndIsQuarantined(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feedback.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path, newTestLogger())
	log, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, log)

	_, err = store.Append(context.Background(), record("Iced Tea", false))
	require.NoError(t, err)

	log, err = store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, log, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var quarantined []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "feedback.json.corrupt-") {
			quarantined = append(quarantined, entry.Name())
		}
	}
	require.Len(t, quarantined, 1)
	kept, err := os.ReadFile(filepath.Join(dir, quarantined[0]))
	require.NoError(t, err)
	require.Equal(t, "{not json", string(kept))
}

func TestFileStoreEmptyFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	log, err := NewFileStore(path, newTestLogger()).LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, log)
}

func TestFileStoreAppendFailsWhenDirectoryIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewFileStore(filepath.Join(blocker, "feedback.json"), newTestLogger())
	_, err := store.Append(context.Background(), record("Chai", true))
	require.Error(t, err)
}
