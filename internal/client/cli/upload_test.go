package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/keepsake/internal/models"
)

func enqueueUploadEngine() *EngineMock {
	return &EngineMock{
		EnqueueUploadFunc: func(ctx context.Context, op models.UploadOp) (string, error) {
			if err := op.Validate(); err != nil {
				return "", err
			}
			return "01HQ0000000000000000000000", nil
		},
	}
}

func TestCli_runUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Beach day (1).jpg")
	require.NoError(t, os.WriteFile(path, []byte("\xff\xd8\xff\xe0jpeg"), 0600))

	engine := enqueueUploadEngine()
	cli, _, out := newTestCli(engine, loggedIn("alice"))

	err := cli.runUpload(context.Background(), []string{path, "--folder", "f1", "--title", "Beach"})
	require.NoError(t, err)

	calls := engine.EnqueueUploadCalls()
	require.Len(t, calls, 1)
	op, ok := calls[0].Op.(models.ContentUpload)
	require.True(t, ok)

	assert.Equal(t, "alice", op.Scope)
	assert.Equal(t, "users/alice/memories", op.Collection)
	assert.NotEmpty(t, op.DocID)
	assert.Equal(t, "f1", op.FolderID)
	assert.Equal(t, "Beach_day__1_.jpg", op.FileName)
	assert.Equal(t, "image/jpeg", op.ContentType)
	assert.Equal(t, map[string]any{"title": "Beach"}, op.Fields)
	assert.Equal(t, []byte("\xff\xd8\xff\xe0jpeg"), op.Data)

	assert.Contains(t, out.String(), "Upload queued")
	assert.Contains(t, out.String(), "Queue id: 01HQ0000000000000000000000")
}

func TestCli_runUpload_ExplicitTypeAndCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0600))

	engine := enqueueUploadEngine()
	cli, _, _ := newTestCli(engine, loggedIn("alice"))

	require.NoError(t, cli.runUpload(context.Background(), []string{"--type", "video/mp4", "--collection", "videos", path}))

	op := engine.EnqueueUploadCalls()[0].Op.(models.ContentUpload)
	assert.Equal(t, "video/mp4", op.ContentType)
	assert.Equal(t, "users/alice/videos", op.Collection)
	assert.Nil(t, op.Fields)
}

func TestCli_runUpload_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0600))

	tests := []struct {
		name    string
		args    []string
		session Session
		wantErr string
	}{
		{name: "missing file argument", session: loggedIn("alice"), wantErr: "missing file"},
		{name: "not authenticated", args: []string{empty}, session: loggedOut(), wantErr: "not authenticated"},
		{name: "unreadable file", args: []string{filepath.Join(dir, "absent.png")}, session: loggedIn("alice"), wantErr: "failed to read file"},
		{name: "empty file", args: []string{empty}, session: loggedIn("alice"), wantErr: "has no content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _, _ := newTestCli(enqueueUploadEngine(), tt.session)

			err := cli.runUpload(context.Background(), tt.args)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "plain", path: "/tmp/photo.jpg", want: "photo.jpg"},
		{name: "spaces and brackets", path: "My Photo (2).HEIC", want: "My_Photo__2_.HEIC"},
		{name: "unicode", path: "море.png", want: "____.png"},
		{name: "dots only", path: "..", want: "file"},
		{name: "long name keeps extension", path: strings.Repeat("a", 200) + ".mp4", want: strings.Repeat("a", 124) + ".mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeFileName(tt.path)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxFileNameLength)
		})
	}
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/png", detectContentType("a.png", nil))
	assert.Equal(t, "image/gif", detectContentType("noext", []byte("GIF89a....")))
	assert.Equal(t, "text/plain", detectContentType("notes", []byte("hello")))
}

func TestCli_runFolder(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantAction models.WriteAction
		wantID     string
		wantName   string
	}{
		{name: "create", args: []string{"create", "Summer"}, wantAction: models.WriteCreate, wantName: "Summer"},
		{name: "rename", args: []string{"rename", "f1", "Winter"}, wantAction: models.WriteUpdate, wantID: "f1", wantName: "Winter"},
		{name: "delete", args: []string{"delete", "f1"}, wantAction: models.WriteDelete, wantID: "f1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := enqueueUploadEngine()
			cli, _, out := newTestCli(engine, loggedIn("alice"))

			require.NoError(t, cli.runFolder(context.Background(), tt.args))

			require.Len(t, engine.EnqueueUploadCalls(), 1)
			op, ok := engine.EnqueueUploadCalls()[0].Op.(models.FolderOp)
			require.True(t, ok)
			assert.Equal(t, "alice", op.Scope)
			assert.Equal(t, tt.wantAction, op.Action)
			assert.Equal(t, tt.wantName, op.Name)
			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, op.FolderID)
			} else {
				assert.NotEmpty(t, op.FolderID)
			}
			assert.Contains(t, out.String(), "Folder "+string(tt.wantAction)+" queued")
		})
	}
}

func TestCli_runFolder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no subcommand", wantErr: "missing folder command"},
		{name: "unknown subcommand", args: []string{"move", "f1"}, wantErr: "unknown folder command: move"},
		{name: "create without name", args: []string{"create"}, wantErr: "missing folder name"},
		{name: "rename without name", args: []string{"rename", "f1"}, wantErr: "missing folder id or name"},
		{name: "delete without id", args: []string{"delete"}, wantErr: "missing folder id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := enqueueUploadEngine()
			cli, _, _ := newTestCli(engine, loggedIn("alice"))

			assert.ErrorContains(t, cli.runFolder(context.Background(), tt.args), tt.wantErr)
			assert.Empty(t, engine.EnqueueUploadCalls())
		})
	}
}

func TestCli_runFolder_EnqueueFails(t *testing.T) {
	engine := &EngineMock{
		EnqueueUploadFunc: func(ctx context.Context, op models.UploadOp) (string, error) {
			return "", errors.New("database not open")
		},
	}
	cli, _, _ := newTestCli(engine, loggedIn("alice"))

	err := cli.runFolder(context.Background(), []string{"delete", "f1"})
	assert.ErrorContains(t, err, "failed to queue folder delete: database not open")
}
