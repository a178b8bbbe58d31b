package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"

	"github.com/iudanet/keepsake/internal/models"
	"github.com/iudanet/keepsake/internal/server/storage"
	"github.com/iudanet/keepsake/internal/validation"
)

var fieldNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,63}$`)

// Query returns the documents of a collection ordered by q.OrderBy, ties broken by id
func (s *Storage) Query(ctx context.Context, q storage.Query) ([]models.Record, error) {
	order, args, err := orderClause(q.OrderBy, q.Descending)
	if err != nil {
		return nil, err
	}

	limit := -1
	if q.Limit > 0 {
		limit = q.Limit
	}

	query := `
		SELECT id, fields, created_at, updated_at
		FROM documents
		WHERE collection = ?
		ORDER BY ` + order + `
		LIMIT ?
	`
	args = append([]any{q.Collection}, append(args, limit)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]models.Record, 0)
	for rows.Next() {
		var (
			rec                  models.Record
			fields               string
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&rec.ID, &fields, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		if rec.Fields, err = decodeFields(fields); err != nil {
			return nil, fmt.Errorf("document %s/%s: %w", q.Collection, rec.ID, err)
		}
		rec.CreatedAt = unixToTime(createdAt)
		rec.UpdatedAt = unixToTime(updatedAt)

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// Apply performs one write inside a transaction together with its idempotency key
func (s *Storage) Apply(ctx context.Context, w storage.Write) (replayed bool, err error) {
	fingerprint, err := writeFingerprint(w)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	replayed, err = s.claimKey(ctx, tx, w.Scope, w.IdempotencyKey, fingerprint)
	if err != nil || replayed {
		return replayed, err
	}

	switch w.Action {
	case models.WriteCreate:
		err = s.upsert(ctx, tx, w)
	case models.WriteUpdate:
		err = s.merge(ctx, tx, w)
	case models.WriteDelete:
		_, err = tx.ExecContext(ctx,
			`DELETE FROM documents WHERE collection = ? AND id = ?`, w.Collection, w.ID)
		if err != nil {
			err = fmt.Errorf("failed to delete document: %w", err)
		}
	default:
		err = fmt.Errorf("%w: %q", storage.ErrUnknownAction, w.Action)
	}
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit write: %w", err)
	}
	return false, nil
}

// upsert creates the document or replaces its fields, keeping created_at
func (s *Storage) upsert(ctx context.Context, tx *sql.Tx, w storage.Write) error {
	fields, err := encodeFields(w.Fields)
	if err != nil {
		return err
	}

	now := s.now().UnixNano()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (collection, id, scope, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE
		SET fields = excluded.fields, updated_at = excluded.updated_at
	`, w.Collection, w.ID, validation.ScopeOf(w.Collection), fields, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// merge overwrites the given top-level fields of an existing document
func (s *Storage) merge(ctx context.Context, tx *sql.Tx, w storage.Write) error {
	var raw string
	err := tx.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE collection = ? AND id = ?`, w.Collection, w.ID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s/%s", storage.ErrDocumentNotFound, w.Collection, w.ID)
		}
		return fmt.Errorf("failed to get document: %w", err)
	}

	current, err := decodeFields(raw)
	if err != nil {
		return err
	}
	maps.Copy(current, w.Fields)

	fields, err := encodeFields(current)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET fields = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		fields, s.now().UnixNano(), w.Collection, w.ID)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

func orderClause(orderBy string, desc bool) (string, []any, error) {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}

	switch orderBy {
	case "", "id":
		return "id " + dir, nil, nil
	case "created_at", "updated_at":
		return orderBy + " " + dir + ", id ASC", nil, nil
	}

	if !fieldNamePattern.MatchString(orderBy) {
		return "", nil, fmt.Errorf("%w: %q", storage.ErrInvalidOrderBy, orderBy)
	}
	return "json_extract(fields, ?) " + dir + ", id ASC", []any{"$." + orderBy}, nil
}

func writeFingerprint(w storage.Write) (string, error) {
	fields, err := encodeFields(w.Fields)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(string(w.Action) + "\x00" + w.Collection + "\x00" + w.ID + "\x00" + fields))
	return hex.EncodeToString(sum[:]), nil
}

func encodeFields(fields map[string]any) (string, error) {
	if fields == nil {
		return "{}", nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode fields: %w", err)
	}
	return string(data), nil
}

func decodeFields(raw string) (map[string]any, error) {
	fields := make(map[string]any)
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields: %w", err)
	}
	if fields == nil {
		fields = make(map[string]any)
	}
	return fields, nil
}
