package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/iudanet/keepsake/internal/validation"
)

// ErrUnknownKind is returned when a stored payload carries a kind no variant handles.
var ErrUnknownKind = errors.New("unknown operation kind")

// Mutation queue kinds
const (
	KindContentUpload = "content_upload"
	KindFolderOp      = "folder_op"
	KindCollectionOp  = "collection_op"
)

// Action queue kinds
const (
	KindAddComment  = "add_comment"
	KindAddReaction = "add_reaction"
	KindUpdateField = "update_field"
)

// WriteAction is the remote mutation a folder or collection operation performs.
type WriteAction string

const (
	WriteCreate WriteAction = "create"
	WriteUpdate WriteAction = "update"
	WriteDelete WriteAction = "delete"
)

// UploadOp is the closed set of Mutation Queue payloads: ContentUpload,
// FolderOp and CollectionOp.
type UploadOp interface {
	Kind() string
	Validate() error
	isUploadOp()
}

// ActionOp is the closed set of Action Queue payloads: AddComment,
// AddReaction and UpdateField.
type ActionOp interface {
	Kind() string
	Validate() error
	// Target returns the collection and document the action applies to.
	Target() (collection, id string)
	isActionOp()
}

// ContentUpload uploads a binary (photo, video) and then writes its metadata
// document into Collection.
type ContentUpload struct {
	Fields      map[string]any `json:"fields,omitempty"`
	Scope       string         `json:"scope"`
	Collection  string         `json:"collection"`
	DocID       string         `json:"doc_id"`
	FolderID    string         `json:"folder_id,omitempty"`
	FileName    string         `json:"file_name"`
	ContentType string         `json:"content_type"`
	Data        []byte         `json:"data"`
}

func (ContentUpload) Kind() string { return KindContentUpload }
func (ContentUpload) isUploadOp()  {}

// Validate checks the upload before it is queued
func (u ContentUpload) Validate() error {
	if err := validation.ValidateScope(u.Scope); err != nil {
		return err
	}
	if err := validation.ValidateCollectionPath(u.Collection); err != nil {
		return err
	}
	if err := validation.ValidateDocumentID(u.DocID); err != nil {
		return err
	}
	if err := validation.ValidateDocumentID(u.FileName); err != nil {
		return fmt.Errorf("invalid file name: %w", err)
	}
	if len(u.Data) == 0 {
		return fmt.Errorf("upload %s has no content", u.DocID)
	}
	return nil
}

// BlobKey is where the binary lives in the remote blob store.
func (u ContentUpload) BlobKey() string {
	return path.Join("users", u.Scope, "blobs", u.DocID, u.FileName)
}

// FolderOp creates, renames or deletes a folder under the user's scope.
type FolderOp struct {
	Fields   map[string]any `json:"fields,omitempty"`
	Scope    string         `json:"scope"`
	Action   WriteAction    `json:"action"`
	FolderID string         `json:"folder_id"`
	Name     string         `json:"name,omitempty"`
}

func (FolderOp) Kind() string { return KindFolderOp }
func (FolderOp) isUploadOp()  {}

// Validate checks the folder operation before it is queued
func (f FolderOp) Validate() error {
	if err := validation.ValidateScope(f.Scope); err != nil {
		return err
	}
	if err := validation.ValidateDocumentID(f.FolderID); err != nil {
		return err
	}
	switch f.Action {
	case WriteCreate, WriteUpdate:
		if f.Name == "" {
			return fmt.Errorf("folder %s: name cannot be empty", f.FolderID)
		}
	case WriteDelete:
	default:
		return fmt.Errorf("folder %s: unsupported action %q", f.FolderID, f.Action)
	}
	return nil
}

// Collection returns the folders collection path of the scope.
func (f FolderOp) Collection() string {
	return UserCollection(f.Scope, CollectionFolders)
}

// CollectionOp is a generic create/update/delete of one document.
type CollectionOp struct {
	Fields     map[string]any `json:"fields,omitempty"`
	Collection string         `json:"collection"`
	DocID      string         `json:"doc_id"`
	Action     WriteAction    `json:"action"`
}

func (CollectionOp) Kind() string { return KindCollectionOp }
func (CollectionOp) isUploadOp()  {}

// Validate checks the collection operation before it is queued
func (c CollectionOp) Validate() error {
	if err := validation.ValidateCollectionPath(c.Collection); err != nil {
		return err
	}
	if err := validation.ValidateDocumentID(c.DocID); err != nil {
		return err
	}
	switch c.Action {
	case WriteCreate, WriteUpdate, WriteDelete:
		return nil
	default:
		return fmt.Errorf("document %s: unsupported action %q", c.DocID, c.Action)
	}
}

// AddComment appends a comment to a document.
type AddComment struct {
	CreatedAt        time.Time `json:"created_at"`
	TargetCollection string    `json:"target_collection"`
	TargetID         string    `json:"target_id"`
	CommentID        string    `json:"comment_id"`
	Author           string    `json:"author"`
	Text             string    `json:"text"`
}

func (AddComment) Kind() string                      { return KindAddComment }
func (AddComment) isActionOp()                       {}
func (c AddComment) Target() (collection, id string) { return c.TargetCollection, c.TargetID }

// Validate checks the comment before it is queued
func (c AddComment) Validate() error {
	if err := validateTarget(c.TargetCollection, c.TargetID); err != nil {
		return err
	}
	if err := validation.ValidateDocumentID(c.CommentID); err != nil {
		return err
	}
	if c.Text == "" {
		return fmt.Errorf("comment text cannot be empty")
	}
	return nil
}

// AddReaction sets the author's reaction on a document.
type AddReaction struct {
	TargetCollection string `json:"target_collection"`
	TargetID         string `json:"target_id"`
	Author           string `json:"author"`
	Emoji            string `json:"emoji"`
}

func (AddReaction) Kind() string                      { return KindAddReaction }
func (AddReaction) isActionOp()                       {}
func (r AddReaction) Target() (collection, id string) { return r.TargetCollection, r.TargetID }

// Validate checks the reaction before it is queued
func (r AddReaction) Validate() error {
	if err := validateTarget(r.TargetCollection, r.TargetID); err != nil {
		return err
	}
	// author становится id документа реакции
	if err := validation.ValidateDocumentID(r.Author); err != nil {
		return fmt.Errorf("invalid author: %w", err)
	}
	if r.Emoji == "" {
		return fmt.Errorf("emoji cannot be empty")
	}
	return nil
}

// UpdateField sets a single field of a document.
type UpdateField struct {
	Value            any    `json:"value"`
	TargetCollection string `json:"target_collection"`
	TargetID         string `json:"target_id"`
	Field            string `json:"field"`
}

func (UpdateField) Kind() string                      { return KindUpdateField }
func (UpdateField) isActionOp()                       {}
func (u UpdateField) Target() (collection, id string) { return u.TargetCollection, u.TargetID }

// Validate checks the field update before it is queued
func (u UpdateField) Validate() error {
	if err := validateTarget(u.TargetCollection, u.TargetID); err != nil {
		return err
	}
	if u.Field == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	return nil
}

func validateTarget(collection, id string) error {
	if err := validation.ValidateCollectionPath(collection); err != nil {
		return err
	}
	return validation.ValidateDocumentID(id)
}

// DecodeUploadOp restores a Mutation Queue payload from its kind tag and JSON body.
func DecodeUploadOp(kind string, raw json.RawMessage) (UploadOp, error) {
	switch kind {
	case KindContentUpload:
		return decodeAs[ContentUpload](raw)
	case KindFolderOp:
		return decodeAs[FolderOp](raw)
	case KindCollectionOp:
		return decodeAs[CollectionOp](raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// DecodeActionOp restores an Action Queue payload from its kind tag and JSON body.
func DecodeActionOp(kind string, raw json.RawMessage) (ActionOp, error) {
	switch kind {
	case KindAddComment:
		return decodeAs[AddComment](raw)
	case KindAddReaction:
		return decodeAs[AddReaction](raw)
	case KindUpdateField:
		return decodeAs[UpdateField](raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func decodeAs[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return v, nil
}
