// Package auth implements password hashing and signed session tokens.
package auth

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Recorder receives auth measurements. *metrics.Collector implements it.
type Recorder interface {
	RecordTokenVerification(outcome string)
	ObservePasswordHash(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordTokenVerification(string)    {}
func (nopRecorder) ObservePasswordHash(time.Duration) {}

// Hasher hashes passwords with bcrypt. At most `concurrency` hash or
// compare operations run at once; the rest wait for a slot.
type Hasher struct {
	cost     int
	sem      chan struct{}
	recorder Recorder
}

func NewHasher(cost, concurrency int, recorder Recorder) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Hasher{
		cost:     cost,
		sem:      make(chan struct{}, concurrency),
		recorder: recorder,
	}
}

// Hash returns a salted bcrypt hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	start := time.Now()
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	h.recorder.ObservePasswordHash(time.Since(start))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash under the salt and cost
// embedded in hash.
func (h *Hasher) Verify(plaintext, hash string) bool {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
