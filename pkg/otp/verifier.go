// Package otp abstracts login-challenge delivery. The production build would
// plug an SMS gateway in behind Verifier; the static verifier ships a fixed
// code and logs it instead of sending anything.
package otp

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Verifier issues a challenge for a phone number and later checks the token
// the caller presents.
type Verifier interface {
	SendChallenge(phone string) error
	Verify(phone, token string) bool
}

type challenge struct {
	hash      []byte
	expiresAt time.Time
}

// StaticVerifier hands out one configured code for every phone. Challenges
// are held in memory as bcrypt hashes with a TTL and consumed on first
// successful verification.
type StaticVerifier struct {
	code string
	ttl  time.Duration
	log  *zap.Logger

	mu         sync.Mutex
	challenges map[string]challenge
}

// NewStaticVerifier creates a verifier with a fixed code and challenge TTL.
func NewStaticVerifier(code string, ttl time.Duration, log *zap.Logger) *StaticVerifier {
	return &StaticVerifier{
		code:       code,
		ttl:        ttl,
		log:        log,
		challenges: make(map[string]challenge),
	}
}

// SendChallenge records a pending challenge for the phone. Delivery is a log
// line; not production-grade, the interface is the contract.
func (v *StaticVerifier) SendChallenge(phone string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(v.code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.challenges[phone] = challenge{hash: hash, expiresAt: time.Now().Add(v.ttl)}
	v.mu.Unlock()

	v.log.Info("OTP challenge issued",
		zap.String("phone", phone),
		zap.String("otp", v.code))
	return nil
}

// Verify checks the presented token against the pending challenge and
// consumes the challenge on success.
func (v *StaticVerifier) Verify(phone, token string) bool {
	v.mu.Lock()
	ch, ok := v.challenges[phone]
	v.mu.Unlock()

	if !ok || time.Now().After(ch.expiresAt) {
		return false
	}

	if bcrypt.CompareHashAndPassword(ch.hash, []byte(token)) != nil {
		return false
	}

	v.mu.Lock()
	delete(v.challenges, phone)
	v.mu.Unlock()
	return true
}
