package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// ScopeKey ключ для хранения scope пользователя в контексте
const ScopeKey contextKey = "scope"

// WithScope returns ctx carrying the authenticated scope
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, ScopeKey, scope)
}

// GetScope извлекает scope из контекста запроса
func GetScope(ctx context.Context) (string, bool) {
	scope, ok := ctx.Value(ScopeKey).(string)
	return scope, ok && scope != ""
}
