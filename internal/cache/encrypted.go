package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"filippo.io/age"
)

// ageHeader starts every age file. Documents without it were written before
// encryption was turned on.
var ageHeader = []byte("age-encryption.org/v1\n")

// EncryptedCache seals documents with age before handing them to the inner
// backend. Plaintext documents are still readable and get encrypted on their
// next write.
type EncryptedCache struct {
	inner    Cache
	identity *age.X25519Identity
}

var _ Cache = (*EncryptedCache)(nil)
var _ Readyable = (*EncryptedCache)(nil)

func NewEncryptedCache(inner Cache, identity string) (*EncryptedCache, error) {
	id, err := age.ParseX25519Identity(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to parse age identity: %w", err)
	}
	return &EncryptedCache{inner: inner, identity: id}, nil
}

func (e *EncryptedCache) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := e.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(raw, ageHeader) {
		return io.NopCloser(bytes.NewReader(raw)), nil
	}
	r, err := age.Decrypt(bytes.NewReader(raw), e.identity)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s: %w", key, err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s: %w", key, err)
	}
	return io.NopCloser(bytes.NewReader(plain)), nil
}

func (e *EncryptedCache) Put(ctx context.Context, key string, value []byte) error {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, e.identity.Recipient())
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", key, err)
	}
	if _, err := w.Write(value); err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", key, err)
	}
	return e.inner.Put(ctx, key, buf.Bytes())
}

func (e *EncryptedCache) Ready(ctx context.Context) error {
	return ready(ctx, e.inner)
}

func ready(ctx context.Context, c Cache) error {
	if r, ok := c.(Readyable); ok {
		return r.Ready(ctx)
	}
	return nil
}
