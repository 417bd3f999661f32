// Package wordpool reads line-delimited word pools into canonical tokens.
package wordpool

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/wordtier/internal/domain"
)

const maxLineBytes = 1 << 20

// Source opens a named pool for reading.
type Source interface {
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// Stats describes what the loader saw while reading a pool.
type Stats struct {
	Lines      int
	Empty      int
	Duplicates int
	// TooLong counts lines over maxLineBytes. They are skipped.
	TooLong int
}

// Loader normalizes pool lines into tokens.
type Loader struct {
	log    *slog.Logger
	source Source
	dedupe bool
}

// NewLoader creates a Loader reading named pools from source. With dedupe
// set, repeated tokens are dropped after their first occurrence; otherwise
// they stay distinct entries.
func NewLoader(logger *slog.Logger, source Source, dedupe bool) *Loader {
	return &Loader{
		log:    logger.With("service", "wordpool"),
		source: source,
		dedupe: dedupe,
	}
}

// Load reads one candidate word per line. Lines that normalize to an empty
// token and lines longer than maxLineBytes are counted and dropped. Read
// failures wrap ErrPoolUnreadable.
func (l *Loader) Load(r io.Reader) (domain.Pool, Stats, error) {
	var (
		pool  domain.Pool
		stats Stats
		seen  map[domain.Token]struct{}
		buf   []byte
	)
	if l.dedupe {
		seen = make(map[domain.Token]struct{})
	}

	br := bufio.NewReader(r)
	for {
		line, tooLong, err := readLine(br, buf[:0])
		buf = line
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return domain.Pool{}, stats, fmt.Errorf("%w: %w", domain.ErrPoolUnreadable, err)
		}
		if eof && len(line) == 0 && !tooLong {
			break
		}

		stats.Lines++
		switch tok := domain.NormalizeToken(string(line)); {
		case tooLong:
			stats.TooLong++
		case tok.IsEmpty():
			stats.Empty++
		case seen != nil && contains(seen, tok):
			stats.Duplicates++
		default:
			if seen != nil {
				seen[tok] = struct{}{}
			}
			pool.Words = append(pool.Words, tok)
		}

		if eof {
			break
		}
	}

	return pool, stats, nil
}

// readLine appends the next line to buf without its terminator. A line over
// maxLineBytes is read through to its end and returned empty with tooLong
// set. io.EOF is returned with the final unterminated line, if any.
func readLine(br *bufio.Reader, buf []byte) ([]byte, bool, error) {
	tooLong := false
	for {
		frag, err := br.ReadSlice('\n')
		if !tooLong {
			buf = append(buf, frag...)
			if len(bytes.TrimRight(buf, "\r\n")) > maxLineBytes {
				tooLong, buf = true, buf[:0]
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		buf = bytes.TrimSuffix(buf, []byte("\n"))
		buf = bytes.TrimSuffix(buf, []byte("\r"))
		return buf, tooLong, err
	}
}

func contains(set map[domain.Token]struct{}, tok domain.Token) bool {
	_, ok := set[tok]
	return ok
}

// LoadSource opens the pool named id and loads it. Any failure to open or
// read the pool wraps ErrPoolUnreadable and is not retried.
func (l *Loader) LoadSource(ctx context.Context, id string) (domain.Pool, Stats, error) {
	rc, err := l.source.Open(ctx, id)
	if err != nil {
		return domain.Pool{}, Stats{}, fmt.Errorf("%w: pool %q: %w", domain.ErrPoolUnreadable, id, err)
	}
	defer rc.Close()

	pool, stats, err := l.Load(rc)
	if err != nil {
		return domain.Pool{}, stats, fmt.Errorf("pool %q: %w", id, err)
	}
	pool.ID = id

	l.log.DebugContext(ctx, "pool loaded",
		slog.String("pool", id),
		slog.Int("words", pool.Len()),
		slog.Int("lines", stats.Lines),
		slog.Int("empty", stats.Empty),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("too_long", stats.TooLong),
	)

	return pool, stats, nil
}
