package chaincfg

import (
	"strings"

	"github.com/smileycoin/smlypow/errors"
)

// Algo identifies the proof-of-work hash function a block was mined with. Each
// algorithm has its own difficulty lane once multi-algo mining is active.
type Algo int32

const (
	AlgoUnknown Algo = -1
	AlgoSHA256D Algo = 0
	AlgoScrypt  Algo = 1
	AlgoGroestl Algo = 2
	AlgoSkein   Algo = 3
	AlgoQubit   Algo = 4

	// NumAlgos is the number of algorithms defined above.
	NumAlgos = 5
)

// Block version bits carrying the algorithm. Scrypt is the zero value so blocks
// mined before the multi-algo fork decode as Scrypt.
const (
	BlockVersionAlgo    int32 = 7 << 9
	BlockVersionScrypt  int32 = 0
	BlockVersionSHA256D int32 = 1 << 9
	BlockVersionGroestl int32 = 2 << 9
	BlockVersionSkein   int32 = 3 << 9
	BlockVersionQubit   int32 = 4 << 9
)

var algoNames = map[Algo]string{
	AlgoSHA256D: "sha256d",
	AlgoScrypt:  "scrypt",
	AlgoGroestl: "groestl",
	AlgoSkein:   "skein",
	AlgoQubit:   "qubit",
}

func (a Algo) String() string {
	if name, ok := algoNames[a]; ok {
		return name
	}

	return "unknown"
}

// AlgoFromVersion extracts the algorithm from a block version.
func AlgoFromVersion(version int32) Algo {
	switch version & BlockVersionAlgo {
	case BlockVersionScrypt:
		return AlgoScrypt
	case BlockVersionSHA256D:
		return AlgoSHA256D
	case BlockVersionGroestl:
		return AlgoGroestl
	case BlockVersionSkein:
		return AlgoSkein
	case BlockVersionQubit:
		return AlgoQubit
	default:
		return AlgoUnknown
	}
}

// VersionBits returns the version bits that select a.
func (a Algo) VersionBits() int32 {
	switch a {
	case AlgoSHA256D:
		return BlockVersionSHA256D
	case AlgoGroestl:
		return BlockVersionGroestl
	case AlgoSkein:
		return BlockVersionSkein
	case AlgoQubit:
		return BlockVersionQubit
	default:
		return BlockVersionScrypt
	}
}

// ParseAlgo parses an algorithm name, case insensitive.
func ParseAlgo(name string) (Algo, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for algo, algoName := range algoNames {
		if algoName == name {
			return algo, nil
		}
	}

	return AlgoUnknown, errors.NewInvalidArgumentError("unknown algorithm %q", name)
}
