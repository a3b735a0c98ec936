// Package archive implements component C2 (spec §4.2): reading fixed-
// geometry compressed time-series chunks from a local file hierarchy or a
// remote object store, through a byte-budgeted in-memory cache with
// in-flight de-duplication, retry, and circuit breaking.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	"github.com/Klomgor/open-meteo/internal/openmeteo/apperr"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
)

const maxFetchRetries = 5

// Store owns one *blob.Bucket rooted at the archive root and serves one
// domain's objects, whose keys all carry the "<domain>/" prefix (spec §3
// "Domain... pointers to static files" generalised to the whole archive
// root). Construct one Store per domain.
type Store struct {
	bucket      *blob.Bucket
	domain      string
	isRemote    bool
	chunkLength int64 // L, seconds
	masterRange *timeutil.TimeRange
	decoder     ChunkDecoder
	breaker     *gobreaker.CircuitBreaker
	metrics     *Metrics
}

// OpenLocalStore opens a Store backed by the local filesystem directory
// dir, grounded on spatialmodel-inmap's cloud.OpenBucket "file" case
// (fileblob.OpenBucket(path, nil)).
func OpenLocalStore(dir, domain string, chunkLength int64, masterRange *timeutil.TimeRange, decoder ChunkDecoder, metrics *Metrics) (*Store, error) {
	bucket, err := fileblob.OpenBucket(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("archive: opening local store for domain %s: %w", domain, err)
	}
	return NewStore(bucket, domain, false, chunkLength, masterRange, decoder, metrics), nil
}

// NewStore wraps an already-opened *blob.Bucket. Callers open remote
// buckets themselves (s3blob, gcsblob, memblob, ...) so archive itself
// never imports a cloud SDK — see DESIGN.md.
func NewStore(bucket *blob.Bucket, domain string, isRemote bool, chunkLength int64, masterRange *timeutil.TimeRange, decoder ChunkDecoder, metrics *Metrics) *Store {
	s := &Store{
		bucket:      bucket,
		domain:      domain,
		isRemote:    isRemote,
		chunkLength: chunkLength,
		masterRange: masterRange,
		decoder:     decoder,
		metrics:     metrics,
	}
	if isRemote {
		// One breaker per domain root: a dead upstream for one domain must
		// not stall reads against any other domain's store.
		s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "archive." + domain,
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})
	}
	return s
}

// chunkObjectKey and masterObjectKey follow spec §6's disk layout,
// "<root>/<domain-key>/<variable-file>/chunk_<index>.dat", with the
// sub-dimension (pressure level, ensemble level) folded into the
// variable-file segment per spec §6 "encoded in the file path ... per
// domain".
func chunkObjectKey(domain, variable string, subLevel int, chunkIndex int64) string {
	return fmt.Sprintf("%s/%s/chunk_%d.dat", domain, variableFileSegment(variable, subLevel), chunkIndex)
}

func masterObjectKey(domain, variable string, subLevel int) string {
	return fmt.Sprintf("%s/%s/master.dat", domain, variableFileSegment(variable, subLevel))
}

func variableFileSegment(variable string, subLevel int) string {
	if subLevel == 0 {
		return variable
	}
	return fmt.Sprintf("%s_%d", variable, subLevel)
}

// fetchChunkBytes reads one chunk's raw bytes. A nil, nil return means the
// chunk is absent — spec §4.2 "Missing file ≠ error" — never an error.
func (s *Store) fetchChunkBytes(ctx context.Context, variable string, subLevel int, chunkIndex int64) ([]byte, error) {
	return s.readObject(ctx, chunkObjectKey(s.domain, variable, subLevel, chunkIndex))
}

func (s *Store) fetchMasterBytes(ctx context.Context, variable string, subLevel int) ([]byte, error) {
	return s.readObject(ctx, masterObjectKey(s.domain, variable, subLevel))
}

func (s *Store) readObject(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapContextErr(err)
	}

	if !s.isRemote {
		return s.readOnce(ctx, key)
	}

	var data []byte
	op := func() error {
		raw, err := s.readOnce(ctx, key)
		if err != nil {
			return err
		}
		data = raw
		return nil
	}
	notify := func(err error, _ time.Duration) {
		s.metrics.FetchRetries.Inc()
	}

	_, err := s.breaker.Execute(func() (interface{}, error) {
		b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxFetchRetries)
		return nil, backoff.RetryNotify(op, b, notify)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s circuit open: %v", apperr.ErrTimeout, s.domain, err)
		}
		return nil, mapContextErr(err)
	}
	return data, nil
}

// readOnce performs exactly one read attempt. A not-found object is
// reported as (nil, nil), matching spec §4.2's "Missing file ≠ error".
func (s *Store) readOnce(ctx context.Context, key string) ([]byte, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("archive: opening %s: %w", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("archive: reading %s: %w", key, err)
	}
	return data, nil
}

func mapContextErr(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", apperr.ErrCancelled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", apperr.ErrTimeout, err)
	default:
		return err
	}
}
