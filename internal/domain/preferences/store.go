package preferences

import "context"

// Store es un KV de strings. El service ya namespacea las claves por usuario.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
