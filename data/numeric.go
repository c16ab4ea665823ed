package data

import (
	"fmt"
	"strconv"
)

// OutOfBounds reports a bounded numeric constructed outside its domain.
type OutOfBounds struct {
	Field    string
	Value    int
	Min, Max int
}

func (e OutOfBounds) Error() string {
	return fmt.Sprintf("%s: value %d out of bounds [%d,%d]", e.Field, e.Value, e.Min, e.Max)
}

// Volume is a player or group volume level, 0..=100.
type Volume int

// NewVolume validates n is within 0..=100.
func NewVolume(n int) (Volume, error) {
	if n < 0 || n > 100 {
		return 0, OutOfBounds{Field: "Volume", Value: n, Min: 0, Max: 100}
	}
	return Volume(n), nil
}

// Add returns v+delta, saturated to [0,100].
func (v Volume) Add(delta int) Volume {
	n := int(v) + delta
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return Volume(n)
}

func (v Volume) String() string { return strconv.Itoa(int(v)) }

func (v Volume) EncodeHeosValue() (string, bool) { return v.String(), true }

func ParseVolume(s string) (Volume, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse volume %q: %w", s, err)
	}
	return NewVolume(n)
}

// VolumeStep sizes a volume_up/volume_down increment, 0..=10, default 5.
type VolumeStep int

// DefaultVolumeStep is used when a caller omits an explicit step.
const DefaultVolumeStep VolumeStep = 5

// NewVolumeStep validates n is within 0..=10.
func NewVolumeStep(n int) (VolumeStep, error) {
	if n < 0 || n > 10 {
		return 0, OutOfBounds{Field: "VolumeStep", Value: n, Min: 0, Max: 10}
	}
	return VolumeStep(n), nil
}

func (s VolumeStep) String() string { return strconv.Itoa(int(s)) }

func (s VolumeStep) EncodeHeosValue() (string, bool) { return s.String(), true }

func ParseVolumeStep(s string) (VolumeStep, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse volume step %q: %w", s, err)
	}
	return NewVolumeStep(n)
}
