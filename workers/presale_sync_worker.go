package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"presale-backend/config"
	"presale-backend/models"
	"presale-backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PresaleSyncClient polls the contract-reader service and keeps the local
// round/vesting mirror fresh so the front-end never reads the chain directly.
type PresaleSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewPresaleSyncClient(db *gorm.DB, cfg *config.Config) *PresaleSyncClient {
	return &PresaleSyncClient{
		BaseURL:    cfg.PresaleReaderURL,
		Token:      cfg.PresaleReaderToken,
		HTTPClient: utils.HTTPClient,
		DB:         db,
	}
}

// GetRounds fetches the current round set from the contract reader.
func (c *PresaleSyncClient) GetRounds(ctx context.Context) ([]models.PresaleRoundMirror, error) {
	u, err := url.Parse(fmt.Sprintf("%s/api/v1/presale/rounds", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse reader URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call contract reader: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("contract reader returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Rounds []models.PresaleRoundMirror `json:"rounds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode contract reader response: %w", err)
	}

	return response.Rounds, nil
}

// SyncOnce pulls the round set and upserts it into presale_round_mirror in
// one statement.
func (c *PresaleSyncClient) SyncOnce(ctx context.Context) error {
	rounds, err := c.GetRounds(ctx)
	if err != nil {
		return err
	}
	if len(rounds) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range rounds {
		rounds[i].LastSyncedAt = now
	}

	if err := c.DB.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "round_index"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"token_price_usd",
				"cap_tokens",
				"sold_tokens",
				"starts_at",
				"ends_at",
				"tge_unlock_bps",
				"cliff_days",
				"vesting_days",
				"is_active",
				"last_synced_at",
				"updated_at",
			}),
		},
	).Create(&rounds).Error; err != nil {
		return fmt.Errorf("failed to upsert presale rounds: %w", err)
	}

	log.Printf("✅ Upserted %d presale round(s) into mirror.", len(rounds))
	return nil
}

// PollRounds runs SyncOnce on a fixed interval until the context ends.
func PollRounds(ctx context.Context, client *PresaleSyncClient, pollInterval time.Duration) {
	log.Println("Starting presale round polling...")

	// Sync immediately so the mirror is populated before the first tick.
	if err := client.SyncOnce(ctx); err != nil {
		log.Printf("❌ Error syncing presale rounds: %v", err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Presale round polling stopped.")
			return
		case <-ticker.C:
			if err := client.SyncOnce(ctx); err != nil {
				log.Printf("❌ Error syncing presale rounds: %v", err)
			}
		}
	}
}
