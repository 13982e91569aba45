package difficulty

import (
	"context"
	"time"

	"github.com/smileycoin/smlypow/errors"
	"github.com/smileycoin/smlypow/pow"
	"github.com/smileycoin/smlypow/stores/headers/memory"
	"golang.org/x/sync/errgroup"
)

// replayCancelCheck is how many blocks a worker checks between context checks.
const replayCancelCheck = 1024

// Replay recomputes the required bits of every block in view from its parent
// and compares them with the stored bits. With checkPow, blocks carrying a
// proof-of-work hash must also meet their target. The error describes the
// lowest offending height.
//
// The view is split into concurrency contiguous ranges checked in parallel.
func (d *Difficulty) Replay(ctx context.Context, view memory.View, concurrency int, checkPow bool) error {
	start := time.Now()
	defer func() {
		prometheusDifficultyReplay.Observe(time.Since(start).Seconds())
	}()

	count := view.Len()
	if count == 0 {
		return nil
	}

	if concurrency < 1 {
		concurrency = 1
	}

	chunk := (count + int32(concurrency) - 1) / int32(concurrency) //nolint:gosec // concurrency is small

	// one slot per range so the lowest failure wins regardless of timing
	failures := make([]error, concurrency)

	g, gCtx := errgroup.WithContext(ctx)

	for i := 0; i < concurrency; i++ {
		from := int32(i) * chunk //nolint:gosec // concurrency is small
		if from >= count {
			break
		}

		to := min(from+chunk, count)

		g.Go(func() error {
			for h := from; h < to; h++ {
				if (h-from)%replayCancelCheck == 0 {
					if err := gCtx.Err(); err != nil {
						return errors.NewContextCanceledError("replay cancelled at height %d", h, err)
					}
				}

				if err := d.replayBlock(view, h, checkPow); err != nil {
					failures[i] = err
					return nil
				}

				prometheusDifficultyReplayBlocks.Inc()
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, err := range failures {
		if err != nil {
			return err
		}
	}

	d.logger.Infof("replayed %d blocks in %s", count, time.Since(start))

	return nil
}

func (d *Difficulty) replayBlock(view memory.View, height int32, checkPow bool) error {
	header := view.At(height).Header()

	if checkPow && header.PowHash != nil && !pow.CheckProofOfWork(header.PowHash, header.Bits.Uint32(), d.params) {
		return errors.NewBlockInvalidError("block %d pow hash %s does not meet bits %s", height, header.PowHash, header.Bits.String())
	}

	// genesis has no parent to retarget from
	if height == 0 {
		return nil
	}

	expected := d.NextWorkRequired(view.At(height-1), header)
	if actual := header.Bits.Uint32(); actual != expected {
		return errors.NewBadDifficultyErr(height, expected, actual)
	}

	return nil
}
