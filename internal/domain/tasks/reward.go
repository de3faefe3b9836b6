package tasks

import "context"

// Rewarder acredita monedas al inventario del usuario (lo crea si no existe).
// Lo implementa inventory.Service; se define acá para no importar inventory.
type Rewarder interface {
	Credit(ctx context.Context, userID string, amount int) error
}

// ShouldReward decide el pago a partir del valor almacenado ANTES del update.
// Sólo false→true paga; true→true y true→false no.
func ShouldReward(storedCompleted, nextCompleted bool) bool {
	return !storedCompleted && nextCompleted
}
