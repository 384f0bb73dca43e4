// Package uuid hands out identifiers for drafts, characters and advance records
package uuid

//go:generate mockgen -destination=mock/mock.go -package=mockuuid -source=uuid.go

import (
	"github.com/google/uuid"
)

// Generator returns a new unique ID on every call
type Generator interface {
	New() string
}

// GoogleUUIDGenerator returns random v4 UUIDs
type GoogleUUIDGenerator struct{}

func (g *GoogleUUIDGenerator) New() string {
	return uuid.NewString()
}

func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// GeneratorFunc adapts a plain function to a Generator
type GeneratorFunc func() string

func (f GeneratorFunc) New() string {
	return f()
}
