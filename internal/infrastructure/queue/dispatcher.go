package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/animelist/watchlist-api/internal/api/metrics"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes credential re-hash jobs to a fixed set of workers using
// consistent hashing on the account email, so jobs for one account never run
// concurrently.
type Dispatcher struct {
	workers   []chan ports.RehashJob
	processor ports.RehashProcessor
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor ports.RehashProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.RehashJob, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.RehashJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands job to the worker responsible for its email. It never blocks
// the caller: when that worker's buffer is full the job is dropped and the
// credential is migrated on a later sign-in instead.
func (d *Dispatcher) Enqueue(job ports.RehashJob) {
	idx := d.shardIndex(job.Email)
	select {
	case d.workers[idx] <- job:
		metrics.RehashQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.RehashTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Int64("user_id", job.UserID).Int("worker_id", idx).Msg("rehash queue full, job dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.RehashJob) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.RehashQueueDepth.WithLabelValues(label).Dec()
			if err := d.processor.Rehash(ctx, job); err != nil {
				metrics.RehashTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Int64("user_id", job.UserID).
					Int("worker_id", id).
					Msg("credential rehash failed")
				continue
			}
			metrics.RehashTotal.WithLabelValues("ok").Inc()
		}
	}
}
