package jobs

import (
	"log"

	"github.com/robfig/cron/v3"
)

// OverlapScanner reports overlapping pending bookings so hosts can be nudged
// about unresolved requests.
type OverlapScanner interface {
	LogPendingOverlaps() error
}

// FavoritePurger removes favorites left behind by anonymous sessions or by
// deleted listings.
type FavoritePurger interface {
	PurgeAnonymous() (int64, error)
	PurgeDangling() (int64, error)
}

var (
	overlapScanner OverlapScanner
	favoritePurger FavoritePurger
)

func SetOverlapScanner(scanner OverlapScanner) {
	overlapScanner = scanner
}

func SetFavoritePurger(purger FavoritePurger) {
	favoritePurger = purger
}

// InitCronJobs registers the scheduled maintenance jobs and starts the cron
// runner.
func InitCronJobs(c *cron.Cron) error {
	// Hourly scan for pending bookings contending for the same dates.
	_, err := c.AddFunc("0 * * * *", func() {
		if overlapScanner == nil {
			return
		}
		if err := overlapScanner.LogPendingOverlaps(); err != nil {
			log.Printf("Pending overlap scan failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	// Nightly cleanup of anonymous and dangling favorites.
	_, err = c.AddFunc("0 0 * * *", func() {
		if favoritePurger == nil {
			return
		}
		deleted, err := favoritePurger.PurgeAnonymous()
		if err != nil {
			log.Printf("Anonymous favorite purge failed: %v", err)
		} else if deleted > 0 {
			log.Printf("Purged %d anonymous favorites", deleted)
		}

		deleted, err = favoritePurger.PurgeDangling()
		if err != nil {
			log.Printf("Dangling favorite purge failed: %v", err)
		} else if deleted > 0 {
			log.Printf("Purged %d dangling favorites", deleted)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
