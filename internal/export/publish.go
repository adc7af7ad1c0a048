package export

import (
	"context"
	"sync"

	"gstledger/internal/logger"
)

// Publisher writes one table into a named sheet. *sheets.Service satisfies it.
type Publisher interface {
	Publish(ctx context.Context, sheetName string, header []string, rows [][]string) error
}

// PublishResult reports the outcome for one table.
type PublishResult struct {
	Table string
	Sheet string
	Rows  int
	Err   error
}

// publishJob is one table waiting for a worker
type publishJob struct {
	table Table
	index int
}

// PublishAll pushes tables to their sheets with a pool of workers. Sheet names are
// SheetTitle prefixed with prefix. Results keep the order of tables.
func PublishAll(ctx context.Context, p Publisher, prefix string, workers int, tables ...Table) []PublishResult {
	log := logger.WithComponent("export-publish")

	if workers < 1 {
		workers = 1
	}
	if workers > len(tables) {
		workers = len(tables)
	}

	jobs := make(chan publishJob, len(tables))
	results := make([]PublishResult, len(tables))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobs {
				sheet := prefix + SheetTitle(job.table)
				log.Debug().
					Int("worker", workerID).
					Str("table", job.table.Name).
					Str("sheet", sheet).
					Msg("Worker publishing table")

				err := ctx.Err()
				if err == nil {
					err = p.Publish(ctx, sheet, job.table.Header, job.table.Rows)
				}
				results[job.index] = PublishResult{
					Table: job.table.Name,
					Sheet: sheet,
					Rows:  len(job.table.Rows),
					Err:   err,
				}
			}
		}(w)
	}

	for i, t := range tables {
		jobs <- publishJob{table: t, index: i}
	}
	close(jobs)

	wg.Wait()

	return results
}
