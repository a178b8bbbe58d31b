package models

import (
	"path"
	"time"
)

// Record представляет один документ удалённого хранилища.
type Record struct {
	CreatedAt time.Time      `json:"created_at"` // CreatedAt время создания документа на сервере
	UpdatedAt time.Time      `json:"updated_at"` // UpdatedAt время последнего изменения на сервере
	Fields    map[string]any `json:"fields"`     // Fields произвольные поля документа
	ID        string         `json:"id"`         // ID идентификатор документа внутри коллекции
}

// Well-known collection names under a user scope
const (
	CollectionMemories = "memories"
	CollectionFolders  = "folders"
)

// UserCollection returns the collection path "users/<scope>/<name>".
func UserCollection(scope, name string) string {
	return path.Join("users", scope, name)
}

// SubCollection returns the path of a collection nested under a document.
func SubCollection(collection, docID, name string) string {
	return path.Join(collection, docID, name)
}
