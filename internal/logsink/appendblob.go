// Package logsink ships structured log records to an Azure append blob as
// JSON lines.
package logsink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/appendblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"rezeptbox/internal/config"
)

type appender interface {
	AppendBlock(ctx context.Context, body io.ReadSeekCloser, o *appendblob.AppendBlockOptions) (appendblob.AppendBlockResponse, error)
}

// sink owns the buffer and the flush loop. Handlers derived through WithAttrs
// and WithGroup share it.
type sink struct {
	ab     appender
	ch     chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	every  time.Duration
	once   sync.Once
}

type Handler struct {
	sink   *sink
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*Handler)(nil)

// New creates the blob if needed and starts flushing every cfg.FlushEvery.
func New(ctx context.Context, cfg config.LogSinkConfig, level slog.Leveler) (*Handler, error) {
	if !cfg.Enabled() {
		return nil, errors.New("logsink needs an account name, account key and container")
	}
	if cfg.BlobName == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "rezeptbox"
		}
		cfg.BlobName = BlobPath(time.Now(), host)
	}

	cred, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}
	// BlobName may contain slashes, only the container is escaped.
	blobURL := "https://" + cfg.AccountName + ".blob.core.windows.net/" +
		url.PathEscape(cfg.Container) + "/" + cfg.BlobName

	ab, err := appendblob.NewClientWithSharedKeyCredential(blobURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create append blob client: %w", err)
	}
	_, err = ab.Create(ctx, &appendblob.CreateOptions{
		AccessConditions: &blob.AccessConditions{
			ModifiedAccessConditions: &blob.ModifiedAccessConditions{IfNoneMatch: to.Ptr(azcore.ETagAny)},
		},
	})
	if err != nil && !bloberror.HasCode(err, bloberror.BlobAlreadyExists) {
		return nil, fmt.Errorf("failed to create log blob %s: %w", cfg.BlobName, err)
	}
	return newHandler(ctx, ab, cfg.FlushEvery, level), nil
}

func newHandler(ctx context.Context, ab appender, every time.Duration, level slog.Leveler) *Handler {
	if every <= 0 {
		every = 2 * time.Second
	}
	if level == nil {
		level = slog.LevelInfo
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &sink{
		ab:     ab,
		ch:     make(chan []byte, 1024),
		ctx:    ctx,
		cancel: cancel,
		every:  every,
	}
	s.wg.Add(1)
	go s.loop()
	return &Handler{sink: s, level: level}
}

// Close flushes what is buffered and stops the loop. Records handled after
// Close are dropped.
func (h *Handler) Close() error {
	h.sink.once.Do(func() {
		h.sink.cancel()
		h.sink.wg.Wait()
	})
	return nil
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	if err := h.sink.ctx.Err(); err != nil {
		return err
	}
	line, err := h.encode(r)
	if err != nil {
		return err
	}
	select {
	case h.sink.ch <- line:
		return nil
	case <-h.sink.ctx.Done():
		return h.sink.ctx.Err()
	}
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = append(append([]slog.Attr{}, h.attrs...), h.qualified(attrs)...)
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(append([]string{}, h.groups...), name)
	return &h2
}

// qualified nests attrs under the handler's open groups.
func (h *Handler) qualified(attrs []slog.Attr) []slog.Attr {
	for i := len(h.groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: h.groups[i], Value: slog.GroupValue(attrs...)}}
	}
	return attrs
}

func (h *Handler) encode(r slog.Record) ([]byte, error) {
	ev := make(map[string]any, r.NumAttrs()+len(h.attrs)+3)
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	ev["ts"] = ts.UTC().Format(time.RFC3339Nano)
	ev["level"] = r.Level.String()
	ev["msg"] = r.Message

	record := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		record = append(record, a)
		return true
	})
	for _, a := range append(append([]slog.Attr{}, h.attrs...), h.qualified(record)...) {
		addAttr(ev, a)
	}

	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ev); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func addAttr(m map[string]any, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	switch {
	case a.Value.Kind() == slog.KindGroup:
		group, ok := m[a.Key].(map[string]any)
		if !ok {
			group = map[string]any{}
		}
		for _, ga := range a.Value.Group() {
			addAttr(group, ga)
		}
		if len(group) > 0 {
			m[a.Key] = group
		}
	case a.Value.Kind() == slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			m[a.Key] = err.Error()
			return
		}
		m[a.Key] = a.Value.Any()
	default:
		m[a.Key] = a.Value.Any()
	}
}

func (s *sink) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	var buf []byte
	flush := func() {
		if len(buf) == 0 {
			return
		}
		// The sink's own context may already be cancelled during shutdown.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), 10*time.Second)
		defer cancel()
		if _, err := s.ab.AppendBlock(ctx, readSeekNopCloser{bytes.NewReader(buf)}, nil); err != nil {
			fmt.Fprintf(os.Stderr, "logsink: append failed, dropping %d bytes: %v\n", len(buf), err)
		}
		buf = buf[:0]
	}

	for {
		select {
		case <-s.ctx.Done():
			for {
				select {
				case line := <-s.ch:
					buf = append(buf, line...)
				default:
					flush()
					return
				}
			}
		case line := <-s.ch:
			buf = append(buf, line...)
		case <-ticker.C:
			flush()
		}
	}
}

type readSeekNopCloser struct{ io.ReadSeeker }

func (r readSeekNopCloser) Close() error { return nil }
