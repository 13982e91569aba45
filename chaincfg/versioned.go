package chaincfg

import (
	"github.com/smileycoin/smlypow/errors"
)

// Activation is a consensus value that takes effect at Height.
type Activation[T any] struct {
	Height int32
	Value  T
}

// Versioned is the history of a consensus constant, ordered by activation height.
// The first entry must activate at height 0.
type Versioned[T any] []Activation[T]

// Fixed returns a constant that never changes.
func Fixed[T any](value T) Versioned[T] {
	return Versioned[T]{{Height: 0, Value: value}}
}

// Forked returns a constant that switches from before to after at height.
func Forked[T any](before T, height int32, after T) Versioned[T] {
	if height <= 0 {
		return Fixed(after)
	}

	return Versioned[T]{
		{Height: 0, Value: before},
		{Height: height, Value: after},
	}
}

// At returns the value active at height.
func (v Versioned[T]) At(height int32) T {
	for i := len(v) - 1; i > 0; i-- {
		if height >= v[i].Height {
			return v[i].Value
		}
	}

	if len(v) == 0 {
		var zero T
		return zero
	}

	return v[0].Value
}

func (v Versioned[T]) validate(name string, forkHeights ...int32) error {
	if len(v) == 0 {
		return errors.NewConfigurationError("%s has no values", name)
	}

	if v[0].Height != 0 {
		return errors.NewConfigurationError("%s must start at height 0, starts at %d", name, v[0].Height)
	}

	for i := 1; i < len(v); i++ {
		if v[i].Height <= v[i-1].Height {
			return errors.NewConfigurationError("%s activation heights are not ascending at index %d", name, i)
		}

		if !containsHeight(forkHeights, v[i].Height) {
			return errors.NewConfigurationError("%s activates at %d which is not one of its fork heights %v", name, v[i].Height, forkHeights)
		}
	}

	return nil
}

func containsHeight(heights []int32, height int32) bool {
	for _, h := range heights {
		if h == height {
			return true
		}
	}

	return false
}
