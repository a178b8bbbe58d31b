package cli

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/keepsake/internal/models"
)

const maxFileNameLength = 128

func (c *Cli) runUpload(ctx context.Context, args []string) error {
	fs := c.newFlagSet("upload")
	folderID := fs.String("folder", "", "Folder id to file the upload under")
	collection := fs.String("collection", models.CollectionMemories, "Collection to write the metadata document into")
	contentType := fs.String("type", "", "Content type (detected when empty)")
	title := fs.String("title", "", "Title stored with the upload")
	positional, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("missing file. Usage: keepsake upload <file> [--folder ID] [--collection NAME]")
	}
	path := positional[0]

	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if *contentType == "" {
		*contentType = detectContentType(path, data)
	}

	var fields map[string]any
	if *title != "" {
		fields = map[string]any{"title": *title}
	}

	op := models.ContentUpload{
		Fields:      fields,
		Scope:       session.Scope,
		Collection:  models.UserCollection(session.Scope, *collection),
		DocID:       uuid.NewString(),
		FolderID:    *folderID,
		FileName:    sanitizeFileName(path),
		ContentType: *contentType,
		Data:        data,
	}

	id, err := c.engine.EnqueueUpload(ctx, op)
	if err != nil {
		return fmt.Errorf("failed to queue upload: %w", err)
	}

	c.io.Println("✓ Upload queued")
	c.io.Printf("Document: %s/%s\n", op.Collection, op.DocID)
	c.io.Printf("File:     %s (%s, %d bytes)\n", op.FileName, op.ContentType, len(data))
	c.io.Printf("Queue id: %s\n", id)

	return nil
}

// detectContentType prefers the file extension and falls back to sniffing
// the first bytes
func detectContentType(path string, data []byte) string {
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}

// sanitizeFileName turns a local path into a name usable as a blob key
// segment: letters, digits, '_', '.' and '-', at most 128 characters
func sanitizeFileName(path string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, filepath.Base(path))

	if len(name) > maxFileNameLength {
		ext := filepath.Ext(name)
		if len(ext) >= maxFileNameLength/2 {
			ext = ""
		}
		name = name[:maxFileNameLength-len(ext)] + ext
	}

	if strings.Trim(name, ".") == "" {
		return "file"
	}
	return name
}
