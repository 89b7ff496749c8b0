package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/vidmin/vidmin/internal/models"
)

// Prune drops history entries whose file is gone and, when keep > 0, every
// entry past the newest keep. Returns the number of rows removed.
func (s *Store) Prune(keep int) (int64, error) {
	var files []models.MediaFile
	if err := s.db.Order("last_opened_at DESC").Order("id DESC").Find(&files).Error; err != nil {
		return 0, fmt.Errorf("failed to load history: %w", err)
	}

	var stale []uint
	kept := 0
	for _, f := range files {
		if _, err := os.Stat(f.Path); errors.Is(err, fs.ErrNotExist) {
			stale = append(stale, f.ID)
			continue
		}
		if keep > 0 && kept >= keep {
			stale = append(stale, f.ID)
			continue
		}
		kept++
	}

	if len(stale) == 0 {
		return 0, nil
	}
	res := s.db.Delete(&models.MediaFile{}, stale)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune history: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Pruner runs Prune on a fixed interval
type Pruner struct {
	store    *Store
	keep     int
	interval time.Duration
	log      hclog.Logger

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewPruner creates a pruner; nothing runs until Start
func NewPruner(store *Store, keep int, interval time.Duration, log hclog.Logger) *Pruner {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Pruner{
		store:    store,
		keep:     keep,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start prunes once immediately and then on every tick, or only once when the
// interval is not positive. The returned channel is closed once the pruner has
// stopped.
func (p *Pruner) Start() <-chan struct{} {
	go func() {
		defer close(p.done)

		p.run()

		// A non-positive interval disables the periodic runs.
		if p.interval <= 0 {
			p.log.Warn("history prune interval not positive, pruning only at start", "interval", p.interval)
			<-p.stop
			return
		}

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				p.run()
			}
		}
	}()

	return p.done
}

// Stop ends the pruner; safe to call more than once
func (p *Pruner) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

func (p *Pruner) run() {
	n, err := p.store.Prune(p.keep)
	if err != nil {
		p.log.Warn("history prune failed", "error", err)
		return
	}
	if n > 0 {
		p.log.Info("pruned history", "removed", n)
	}
}
