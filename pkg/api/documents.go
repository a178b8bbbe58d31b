package api

import "time"

// HeaderIdempotencyKey carries the client key a write is deduplicated on
const HeaderIdempotencyKey = "Idempotency-Key"

// Document представляет один документ коллекции
type Document struct {
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Fields    map[string]any `json:"fields"`
	ID        string         `json:"id"`
}

// QueryRequest представляет запрос на чтение коллекции
type QueryRequest struct {
	Collection string `json:"collection"`         // путь коллекции, например users/alice/folders
	OrderBy    string `json:"order_by,omitempty"` // id, created_at, updated_at или имя поля
	Descending bool   `json:"descending,omitempty"`
	Limit      int    `json:"limit,omitempty"` // 0 - без ограничения
}

// QueryResponse представляет ответ с документами коллекции
type QueryResponse struct {
	Documents []Document `json:"documents"`
}

// WriteRequest представляет запрос на изменение одного документа
type WriteRequest struct {
	Fields     map[string]any `json:"fields,omitempty"`
	Action     string         `json:"action"` // create, update или delete
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
}

// WriteResponse представляет ответ на запись
type WriteResponse struct {
	ID string `json:"id"`
	// Replayed is true when the idempotency key had already been applied
	Replayed bool `json:"replayed,omitempty"`
}

// BlobResponse представляет ответ на загрузку бинарных данных
type BlobResponse struct {
	Ref  string `json:"ref"`  // ссылка на загруженный blob
	Size int64  `json:"size"` // размер в байтах
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
