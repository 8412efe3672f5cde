package seal

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/sha3"

	"github.com/AbhayRathi/TinyWindow/internal/interfaces"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Box seals history payloads at rest. It stands in for the post-quantum
// layer: keys are derived with SHA3-512 from a random seed and payloads are
// sealed with XChaCha20-Poly1305. The algorithm label and key size are
// reported as configured, not as implemented.
type Box struct {
	algorithm string
	keySize   int
	aead      cipher.AEAD
}

var _ interfaces.Sealer = (*Box)(nil)

func New(algorithm string, keySize int) (*Box, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("seal: seed generation: %w", err)
	}

	h := sha3.New512()
	h.Write(seed)
	h.Write([]byte("private"))
	key := h.Sum(nil)[:chacha20poly1305.KeySize]

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("seal: cipher init: %w", err)
	}
	return &Box{algorithm: algorithm, keySize: keySize, aead: aead}, nil
}

// Seal encrypts plain and prepends the random nonce.
func (b *Box) Seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("seal: nonce generation: %w", err)
	}
	return b.aead.Seal(nonce, nonce, plain, nil), nil
}

func (b *Box) Open(sealed []byte) ([]byte, error) {
	ns := b.aead.NonceSize()
	if len(sealed) < ns {
		return nil, errors.New("seal: payload shorter than nonce")
	}
	plain, err := b.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("seal: open: %w", err)
	}
	return plain, nil
}

func (b *Box) Status() types.SealStatus {
	return types.SealStatus{Algorithm: b.algorithm, KeySize: b.keySize, Enabled: true}
}

// Noop passes payloads through unchanged, used when encryption is disabled.
type Noop struct{}

var _ interfaces.Sealer = Noop{}

func (Noop) Seal(plain []byte) ([]byte, error)  { return plain, nil }
func (Noop) Open(sealed []byte) ([]byte, error) { return sealed, nil }
func (Noop) Status() types.SealStatus           { return types.SealStatus{Algorithm: "none"} }
