package service

import (
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost apunta a ~100ms+ por hash en hardware comun.
	DefaultBcryptCost = 12

	// bcrypt solo procesa los primeros 72 bytes de la contraseña.
	bcryptMaxPasswordBytes = 72

	dummyPassword = "todo-api-timing-equalizer"
)

// PasswordHasher hashea y verifica contraseñas con bcrypt.
//
// Las contraseñas de mas de 72 bytes se truncan sobre su representacion en
// bytes antes de hashear y antes de verificar. Es una politica con perdida
// pero consistente: dos contraseñas que comparten los primeros 72 bytes
// verifican contra el mismo hash.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	h := &PasswordHasher{cost: cost}
	// Hash de referencia con el mismo costo, usado cuando el email no existe.
	h.dummy, _ = bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	return h
}

// Hash devuelve un hash modular-crypt ($2a$<cost>$<salt+digest>).
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword(truncatePassword(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify compara en tiempo constante. Un hash corrupto nunca verifica.
func (h *PasswordHasher) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(password)) == nil
}

// CompareDummy consume el mismo tiempo que Verify sin un usuario real.
func (h *PasswordHasher) CompareDummy(password string) {
	if len(h.dummy) == 0 {
		return
	}
	_ = bcrypt.CompareHashAndPassword(h.dummy, truncatePassword(password))
}

// NeedsRehash reporta si el hash fue generado con otro costo.
func (h *PasswordHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}
	return cost != h.cost
}

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxPasswordBytes {
		b = b[:bcryptMaxPasswordBytes]
	}
	return b
}
