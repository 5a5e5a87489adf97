package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// StartRetentionSweep starts a cron-based scheduler that deletes generated
// documents older than retention_days from the output container. The
// schedule is a standard 5-field cron expression (minute hour day-of-month
// month day-of-week), e.g. "0 3 * * *" for daily 3am. Empty schedule
// disables the sweep.
func StartRetentionSweep(cfg Config) {
	schedule := strings.TrimSpace(cfg.RetentionSchedule)
	if schedule == "" {
		log.Println("Retention sweep disabled (retention_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid retention_schedule '%s': %v, retention sweep disabled", schedule, err)
		return
	}

	log.Printf("Retention sweep scheduled (cron: %s), keeping %d days", schedule, cfg.RetentionDays)

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next retention sweep at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			removed, sweepErr := SweepExpiredDocuments(filepath.Join(cfg.StoreRoot, cfg.OutputContainer), cfg.RetentionDays, time.Now())
			if sweepErr != nil {
				log.Printf("Retention sweep error: %v", sweepErr)
			}
			log.Printf("Retention sweep complete: removed=%d", removed)
		}
	}()
}

// SweepExpiredDocuments removes regular files in dir whose modification time
// is older than retentionDays before now. Returns how many were removed. A
// missing directory means nothing has been generated yet and is not an
// error.
func SweepExpiredDocuments(dir string, retentionDays int, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := now.AddDate(0, 0, -retentionDays)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			log.Printf("retention sweep stat error file=%s: %v", entry.Name(), err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			log.Printf("retention sweep remove error file=%s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
