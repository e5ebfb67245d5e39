package interfaces

import "github.com/acch-2/toy-pay/internal/models"

// AccountSource yields the final state of every account for rendering.
type AccountSource interface {
	Snapshots() []models.AccountSnapshot
}
