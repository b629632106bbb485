// internals/features/attendance/followup/scheduler/absence_scan.go
package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	service "gerejaku_backend/internals/features/attendance/followup/service"
)

// StartAbsenceScanScheduler menjalankan absence-scan berkala untuk semua
// tenant. Interval dari env (default: 24 jam).
func StartAbsenceScanScheduler(svc *service.FollowUpService) {
	go func() {
		intervalHours := 24
		if val := os.Getenv("FOLLOWUP_SCAN_INTERVAL_HOURS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalHours = parsed
			}
		}

		for {
			log.Println("[FOLLOWUP] Menjalankan absence-scan terjadwal...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			svc.ScanAll(ctx)
			cancel()

			time.Sleep(time.Duration(intervalHours) * time.Hour)
		}
	}()
}
