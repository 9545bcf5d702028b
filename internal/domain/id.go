package domain

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// posterSeedRange bounds the random fallback-poster seed.
const posterSeedRange = 100000

// NewID returns a fresh record identifier. IDs are assigned once at
// creation and never reused.
func NewID() string { return uuid.NewString() }

// NewPosterSeed draws the random seed used for fallback poster images.
// Drawn once at record creation, stable thereafter. Never zero, so zero
// marks a record that predates seeds.
func NewPosterSeed() int { return 1 + rand.Intn(posterSeedRange-1) }

// NowMillis returns the current time in epoch milliseconds, the unit
// records use for AddedAt.
func NowMillis() int64 { return time.Now().UnixMilli() }
