package util

import (
	"slices"

	"github.com/smileycoin/smlypow/errors"
)

// MedianTimeBlocks is the number of timestamps, the block's own included, that
// make up its median time past.
const MedianTimeBlocks = 11

// CalcPastMedianTime returns the median of up to MedianTimeBlocks timestamps.
// For an even count the upper middle element is returned, matching the
// consensus rules. The input slice is not modified.
//
// This function is safe for concurrent access.
func CalcPastMedianTime(timestamps []int64) (int64, error) {
	if len(timestamps) == 0 {
		return 0, errors.NewProcessingError("no timestamps for median time calculation")
	}

	if len(timestamps) > MedianTimeBlocks {
		return 0, errors.NewProcessingError("too many timestamps for median time calculation")
	}

	sorted := slices.Clone(timestamps)
	slices.Sort(sorted)

	return sorted[len(sorted)/2], nil
}
