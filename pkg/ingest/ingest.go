package ingest

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/subvocab/subvocab/pkg/db"
	"github.com/subvocab/subvocab/pkg/textparse"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Ingester extracts a material's word set from its cue lines and persists it.
//
// Lines are tokenized and normalized concurrently, reassembled in source
// order, and written in batched transactions. A per-line checkpoint
// (materials.last_processed_line) makes an interrupted ingest resumable
// without double counting.
type Ingester struct {
	DB        *sql.DB
	BatchSize int
	// Logger is used for informational messages (e.g. resume status). nil means no logging.
	Logger *log.Logger
	// OnProgress is called periodically with the number of processed lines and total lines.
	OnProgress func(current, total int)

	Workers int

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewIngester creates a new Ingester with default batching and concurrency.
func NewIngester(conn *sql.DB) *Ingester {
	return &Ingester{
		DB:        conn,
		BatchSize: 50,
		Workers:   4,
	}
}

// processedLine holds one cue line's counted words before DB ingestion.
type processedLine struct {
	Index int
	Words []textparse.WordCount
}

// Ingest counts the words of lines into the material's word set.
// It returns the number of word occurrences recorded in this run.
func (ig *Ingester) Ingest(ctx context.Context, materialID int64, lines []string) (int, error) {
	lastProcessed, err := db.GetMaterialProgress(ig.DB, materialID)
	if err != nil {
		if ig.Logger != nil {
			ig.Logger.Printf("Warning: failed to retrieve progress: %v", err)
		}
		lastProcessed = -1
	}
	if lastProcessed >= 0 && ig.Logger != nil {
		ig.Logger.Printf("Resuming from line index %d (skipping %d lines)", lastProcessed+1, lastProcessed+1)
	}

	totalLines := len(lines)
	startIdx := lastProcessed + 1
	if startIdx >= totalLines {
		return 0, nil // nothing to do
	}

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(ig.Workers, ig.Workers*2)
	} else {
		wp = NewWorkerPool(ig.Workers, ig.Workers*2)
	}
	resultCh := make(chan processedLine, ig.Workers*2)
	closedResultCh := false
	doneCh := make(chan error, 1)

	// Occurrences recorded in this run, updated by DB write callbacks.
	var totalOccurrences int64

	bw := NewBatchWriter(ig.DB, ig.BatchSize, 100*time.Millisecond)

	defer func() {
		wp.Close()
		if !closedResultCh {
			close(resultCh)
		}
		_ = bw.Close()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp.Start(ctx)

	// Consumer: reassemble lines in source order so first insert order equals
	// first-seen order, then hand writes to the batch writer.
	go func() {
		defer close(doneCh)
		buffer := make(map[int]processedLine)
		nextIdx := startIdx

		flushLine := func(item processedLine) error {
			line := item
			return bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
				for _, w := range line.Words {
					if err := db.UpsertMaterialWord(tx, materialID, w.Text, w.Count); err != nil {
						return err
					}
					atomic.AddInt64(&totalOccurrences, int64(w.Count))
				}
				// Checkpoint this line so a restart never counts it twice.
				return db.UpdateMaterialProgress(tx, materialID, line.Index)
			})
		}

		for {
			select {
			case <-ctx.Done():
				doneCh <- ctx.Err()
				return
			default:
			}

			res, ok := <-resultCh
			if !ok {
				// resultCh closed; drain any remaining contiguous entries then exit.
				for {
					item, ok := buffer[nextIdx]
					if !ok {
						break
					}
					delete(buffer, nextIdx)
					if err := flushLine(item); err != nil {
						cancel()
						return
					}
					if ig.OnProgress != nil && (nextIdx+1)%ig.BatchSize == 0 {
						ig.OnProgress(nextIdx+1, totalLines)
					}
					nextIdx++
				}
				if ig.OnProgress != nil {
					ig.OnProgress(totalLines, totalLines)
				}
				doneCh <- nil
				return
			}

			buffer[res.Index] = res

			for {
				item, ok := buffer[nextIdx]
				if !ok {
					break
				}
				delete(buffer, nextIdx)
				if err := flushLine(item); err != nil {
					cancel()
					doneCh <- err
					return
				}
				if ig.OnProgress != nil && (nextIdx+1)%ig.BatchSize == 0 {
					ig.OnProgress(nextIdx+1, totalLines)
				}
				nextIdx++
			}
		}
	}()

	// Producers: tokenize lines on the worker pool.
Loop:
	for i := startIdx; i < totalLines; i++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		idx := i
		line := lines[i]

		job := func(ctx context.Context) error {
			counts, err := textparse.CountWords(line)
			if err != nil && !errors.Is(err, textparse.ErrEmptyInput) {
				return err
			}
			// A line with no usable tokens still advances the checkpoint.
			res := processedLine{Index: idx, Words: counts}
			select {
			case resultCh <- res:
			case <-ctx.Done():
			}
			return nil
		}

		if err := wp.SubmitCtx(ctx, job); err != nil {
			if err == ctx.Err() || err == ErrPoolClosed {
				break Loop
			}
			return 0, err
		}
	}

	// No more jobs: drain workers, then signal the consumer.
	wp.Close()
	if !closedResultCh {
		close(resultCh)
		closedResultCh = true
	}

	consumerErr := <-doneCh

	if err := bw.Close(); err != nil && err != ErrBatchWriterClosed && consumerErr == nil {
		consumerErr = err
	}

	return int(atomic.LoadInt64(&totalOccurrences)), consumerErr
}
