//go:build nocgo
// +build nocgo

package audio

import (
	"errors"
	"io"
)

// Stub implementations for builds without CGO.

// ProductionContext stub for nocgo builds.
type ProductionContext struct{}

// NewProductionContext always fails in nocgo builds.
func NewProductionContext(cfg Config) (*ProductionContext, error) {
	return nil, errors.New("audio not available in nocgo build")
}

func (pc *ProductionContext) NewPlayer(r io.Reader) (Player, error) {
	return nil, errors.New("audio not available in nocgo build")
}

func (pc *ProductionContext) Close() error {
	return nil
}

func (pc *ProductionContext) IsReady() bool {
	return false
}

func (pc *ProductionContext) SampleRate() int {
	return DefaultSampleRate
}

func (pc *ProductionContext) ChannelCount() int {
	return DefaultChannels
}
