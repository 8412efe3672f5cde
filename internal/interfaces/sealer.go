package interfaces

import "github.com/AbhayRathi/TinyWindow/internal/types"

// Sealer is the encryption-at-rest boundary. Implementations stand in for the
// post-quantum layer; only the call contract matters to this core.
type Sealer interface {
	Seal(plain []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
	Status() types.SealStatus
}
