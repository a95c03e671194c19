package services

import (
	"context"
	"log"
	"time"

	"loanbridge/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// orphanGrace is how old a bucket object must be before the sweep will
// report it. Uploads race record creation, so a freshly stored object
// may legitimately have no record yet.
const orphanGrace = 15 * time.Minute

// CronService runs scheduled maintenance jobs: the daily orphan
// document sweep and expired refresh token cleanup. The sweep is
// report-only; it never deletes anything.
type CronService struct {
	loanRepo  repositories.LoanRepository
	tokenRepo repositories.RefreshTokenRepository
	storage   ObjectStorage
	cron      *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(loanRepo repositories.LoanRepository, tokenRepo repositories.RefreshTokenRepository, storage ObjectStorage) *CronService {
	return &CronService{
		loanRepo:  loanRepo,
		tokenRepo: tokenRepo,
		storage:   storage,
		cron:      cron.New(),
	}
}

// Start schedules the jobs and launches the scheduler
func (s *CronService) Start() {
	s.cron.AddFunc("30 8 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		s.ScanOrphans(ctx)
	})
	s.cron.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.tokenRepo.DeleteExpired(ctx); err != nil {
			log.Printf("❌ Expired token cleanup error: %v", err)
		}
	})

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// ScanOrphans reports bucket objects that no loan record references.
// Objects younger than the grace window are skipped.
func (s *CronService) ScanOrphans(ctx context.Context) {
	objects, err := s.storage.List(ctx)
	if err != nil {
		log.Printf("❌ Orphan scan: bucket list error: %v", err)
		return
	}

	storedNames, err := s.loanRepo.ListStoredNames(ctx)
	if err != nil {
		log.Printf("❌ Orphan scan: record query error: %v", err)
		return
	}

	referenced := make(map[string]struct{}, len(storedNames))
	for _, name := range storedNames {
		referenced[name] = struct{}{}
	}

	cutoff := time.Now().Add(-orphanGrace)
	orphans := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Name]; ok {
			continue
		}
		if obj.CreatedAt.After(cutoff) {
			continue
		}
		orphans++
		log.Printf("⚠️ Orphaned document: %s (created %s)", obj.Name, obj.CreatedAt.Format(time.RFC3339))
	}

	if orphans > 0 {
		log.Printf("⚠️ Orphan scan finished: %d orphaned document(s), %d object(s) total", orphans, len(objects))
	} else {
		log.Printf("✅ Orphan scan finished: no orphans among %d object(s)", len(objects))
	}
}
