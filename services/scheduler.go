// services/scheduler.go
package services

import (
	"fmt"
	"log"
	"time"

	"presale-backend/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// StartSnapshotScheduler archives the full conversion table to R2 once a
// night. Best-effort: a failed run logs and waits for the next tick.
func (s *ExportService) StartSnapshotScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// 03:10 UTC daily: conversions are quiet and the dashboard day is closed
	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 10, 0))),
		gocron.NewTask(func() {
			rows, err := s.FetchRecent(MaxExportLimit)
			if err != nil {
				log.Printf("[Snapshot] DB error: %v", err)
				return
			}

			data, err := RenderCSV(rows)
			if err != nil {
				log.Printf("[Snapshot] Render error: %v", err)
				return
			}

			key := fmt.Sprintf("snapshots/conversions-%s-%s.csv",
				time.Now().UTC().Format("20060102"), uuid.NewString()[:8])
			url, err := utils.UploadBytesToR2(data, key, "text/csv")
			if err != nil {
				log.Printf("[Snapshot] Upload failed for %s: %v", key, err)
				return
			}
			log.Printf("✅ Conversion snapshot archived: %d row(s) → %s", len(rows), url)
		}),
	)
}
