package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/iudanet/keepsake/internal/server/storage"
)

// PutBlob stores blob under blob.Key. Checksum, Size and CreatedAt are filled in.
func (s *Storage) PutBlob(ctx context.Context, scope, idempotencyKey string, blob *storage.Blob) (replayed bool, err error) {
	sum := sha256.Sum256(blob.Data)
	blob.Checksum = hex.EncodeToString(sum[:])
	blob.Size = int64(len(blob.Data))
	blob.CreatedAt = s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	replayed, err = s.claimKey(ctx, tx, scope, idempotencyKey, "blob\x00"+blob.Key+"\x00"+blob.Checksum)
	if err != nil || replayed {
		return replayed, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO blobs (key, scope, content_type, checksum, size, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE
		SET content_type = excluded.content_type, checksum = excluded.checksum,
		    size = excluded.size, data = excluded.data, created_at = excluded.created_at
	`, blob.Key, scope, blob.ContentType, blob.Checksum, blob.Size, blob.Data, blob.CreatedAt.UnixNano())
	if err != nil {
		return false, fmt.Errorf("failed to store blob: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit blob: %w", err)
	}
	return false, nil
}

// GetBlob retrieves a blob by key
func (s *Storage) GetBlob(ctx context.Context, key string) (*storage.Blob, error) {
	blob := &storage.Blob{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT key, content_type, checksum, size, data, created_at
		FROM blobs
		WHERE key = ?
	`, key).Scan(&blob.Key, &blob.ContentType, &blob.Checksum, &blob.Size, &blob.Data, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to get blob: %w", err)
	}

	blob.CreatedAt = unixToTime(createdAt)
	return blob, nil
}
