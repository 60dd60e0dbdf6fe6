package workers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"presale-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newWorkerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PresaleRoundMirror{}))
	return db
}

func newReaderStub(t *testing.T, hits chan<- struct{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
		response := map[string][]models.PresaleRoundMirror{
			"rounds": {
				{
					RoundIndex:    1,
					TokenPriceUSD: "0.05",
					CapTokens:     "100000000",
					SoldTokens:    "250000",
					TGEUnlockBps:  1000,
					CliffDays:     90,
					VestingDays:   360,
					IsActive:      true,
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
}

func TestSyncOnceMirrorsRounds(t *testing.T) {
	hits := make(chan struct{}, 8)
	srv := newReaderStub(t, hits)
	defer srv.Close()

	db := newWorkerTestDB(t)
	client := &PresaleSyncClient{
		BaseURL:    srv.URL,
		Token:      "svc-token",
		HTTPClient: srv.Client(),
		DB:         db,
	}

	require.NoError(t, client.SyncOnce(context.Background()))

	var rounds []models.PresaleRoundMirror
	assert.NoError(t, db.Find(&rounds).Error)
	require.Len(t, rounds, 1)
	assert.Equal(t, 1, rounds[0].RoundIndex)
	assert.Equal(t, "0.05", rounds[0].TokenPriceUSD)
	assert.True(t, rounds[0].IsActive)
	assert.False(t, rounds[0].LastSyncedAt.IsZero())

	// Second sync updates in place, no duplicate row.
	require.NoError(t, client.SyncOnce(context.Background()))
	assert.NoError(t, db.Find(&rounds).Error)
	assert.Len(t, rounds, 1)
}

func TestPollRoundsSyncsBeforeFirstTick(t *testing.T) {
	hits := make(chan struct{}, 8)
	srv := newReaderStub(t, hits)
	defer srv.Close()

	db := newWorkerTestDB(t)
	client := &PresaleSyncClient{
		BaseURL:    srv.URL,
		Token:      "svc-token",
		HTTPClient: srv.Client(),
		DB:         db,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Hour-long interval: any request seen must be the startup sync.
		PollRounds(ctx, client, time.Hour)
	}()

	select {
	case <-hits:
	case <-time.After(5 * time.Second):
		t.Fatal("no sync before the first poll tick")
	}

	cancel()
	<-done

	var count int64
	assert.NoError(t, db.Model(&models.PresaleRoundMirror{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
