package history

import "github.com/JZhaGuo/trafico/core/model"

// Store persists the observation history. Implementations guarantee
// append-only durability; serializing concurrent appends is the store's
// responsibility (single writer is assumed).
type Store interface {
	// Load reads the full history. A missing backing file yields an empty
	// history, not an error.
	Load() (*History, error)
	// Append durably adds observations to the log.
	Append(obs []model.Observation) error
	// Persist rewrites the backing storage from the given history.
	Persist(h *History) error
}
