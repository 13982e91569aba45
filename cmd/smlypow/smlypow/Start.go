// Package smlypow is the command line front end of the difficulty rules. It
// reads and writes the configured header store and serves the difficulty
// metrics while a command runs.
package smlypow

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smileycoin/smlypow/chaincfg"
	"github.com/smileycoin/smlypow/difficulty"
	"github.com/smileycoin/smlypow/errors"
	"github.com/smileycoin/smlypow/model"
	"github.com/smileycoin/smlypow/pow"
	"github.com/smileycoin/smlypow/settings"
	"github.com/smileycoin/smlypow/stores/headers"
	"github.com/smileycoin/smlypow/stores/headers/csvfile"
	"github.com/smileycoin/smlypow/ulogger"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Start runs the command line with args, os.Args in production.
func Start(args []string) error {
	return App(settings.NewSettings).Run(args)
}

// App builds the command line. newSettings is called once, before any command
// runs, so tests can supply their own settings.
func App(newSettings func() *settings.Settings) *cli.App {
	r := &runner{newSettings: newSettings}

	return &cli.App{
		Name:  "smlypow",
		Usage: "compute and check multi-algorithm proof-of-work difficulty",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "network", Usage: "network name, overrides the network setting"},
			&cli.StringFlag{Name: "store", Usage: "header store URL, overrides the headers_store setting"},
			&cli.StringFlag{Name: "log-level", Usage: "log level, overrides the logLevel setting"},
			&cli.BoolFlag{Name: "metrics", Usage: "serve prometheus metrics on metrics_listenAddress"},
		},
		Before: r.before,
		After:  r.after,
		Commands: []*cli.Command{
			{
				Name:   "next",
				Usage:  "print the bits required for the block after the store tip",
				Action: r.next,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "algo", Usage: "mining algorithm of the candidate", Value: chaincfg.AlgoScrypt.String()},
					&cli.Int64Flag{Name: "time", Usage: "candidate timestamp in unix seconds, defaults to now"},
				},
			},
			{
				Name:   "check",
				Usage:  "check a proof-of-work hash against compact bits",
				Action: r.check,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hash", Usage: "pow hash in reversed hex", Required: true},
					&cli.StringFlag{Name: "bits", Usage: "compact bits in hex", Required: true},
				},
			},
			{
				Name:   "params",
				Usage:  "print the difficulty parameters in effect at a height",
				Action: r.params,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "height", Usage: "chain height", Required: true},
				},
			},
			{
				Name:   "import",
				Usage:  "append headers from a CSV file to the store",
				Action: r.importHeaders,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "CSV file to read", Required: true},
				},
			},
			{
				Name:   "export",
				Usage:  "write the stored headers to a CSV file",
				Action: r.exportHeaders,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "CSV file to write", Required: true},
					&cli.IntFlag{Name: "from", Usage: "first height"},
					&cli.IntFlag{Name: "to", Usage: "last height, defaults to the tip", Value: -1},
				},
			},
			{
				Name:   "replay",
				Usage:  "recompute and check the bits of every stored header",
				Action: r.replay,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "concurrency", Usage: "number of workers, overrides replay_concurrency"},
					&cli.BoolFlag{Name: "check-pow", Usage: "verify stored pow hashes, overrides replay_checkPow"},
				},
			},
		},
	}
}

type runner struct {
	newSettings func() *settings.Settings
	tSettings   *settings.Settings
	logger      ulogger.Logger
	store       headers.Store
	server      *http.Server
}

func (r *runner) before(c *cli.Context) error {
	r.tSettings = r.newSettings()

	if network := c.String("network"); network != "" {
		params, err := chaincfg.GetChainParams(network)
		if err != nil {
			return err
		}

		r.tSettings.ChainCfgParams = params
	}

	if rawURL := c.String("store"); rawURL != "" {
		storeURL, err := url.Parse(rawURL)
		if err != nil {
			return errors.NewConfigurationError("invalid store URL %s", rawURL, err)
		}

		r.tSettings.HeaderStore.StoreURL = storeURL
	}

	if level := c.String("log-level"); level != "" {
		r.tSettings.LogLevel = level
	}

	r.logger = ulogger.New("smlypow", ulogger.WithLevel(r.tSettings.LogLevel), ulogger.WithWriter(c.App.ErrWriter))

	if c.Bool("metrics") || r.tSettings.Metrics.Enabled {
		r.serveMetrics()
	}

	return nil
}

func (r *runner) after(_ *cli.Context) error {
	var errs []error

	if r.store != nil {
		errs = append(errs, r.store.Close())
	}

	if r.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		errs = append(errs, r.server.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

func (r *runner) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	r.server = &http.Server{
		Addr:              r.tSettings.Metrics.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		r.logger.Infof("serving metrics on %s", r.server.Addr)

		if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Errorf("metrics server: %v", err)
		}
	}()
}

func (r *runner) openStore(ctx context.Context) (headers.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	store, err := headers.NewStore(ctx, r.logger, r.tSettings.HeaderStore.StoreURL, r.tSettings)
	if err != nil {
		return nil, err
	}

	r.store = store

	return store, nil
}

func (r *runner) difficulty() (*difficulty.Difficulty, error) {
	return difficulty.NewDifficulty(r.logger.New("diff"), r.tSettings.ChainCfgParams)
}

func (r *runner) next(c *cli.Context) error {
	algo, err := chaincfg.ParseAlgo(c.String("algo"))
	if err != nil {
		return err
	}

	timestamp := c.Int64("time")
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}

	if timestamp < 0 || timestamp > int64(^uint32(0)) {
		return errors.NewInvalidArgumentError("timestamp %d out of range", timestamp)
	}

	store, err := r.openStore(c.Context)
	if err != nil {
		return err
	}

	tip, err := store.Tip(c.Context)
	if err != nil {
		return err
	}

	d, err := r.difficulty()
	if err != nil {
		return err
	}

	candidate := &model.BlockHeader{
		Version:   algo.VersionBits(),
		Timestamp: uint32(timestamp),
	}

	bits := model.NewNBitFromUint32(d.NextWorkRequired(tip, candidate))

	_, _ = fmt.Fprintf(c.App.Writer, "height: %d\nalgo: %s\nbits: %s\ntarget: %064x\ndifficulty: %s\n",
		tip.Height()+1, algo, bits.String(), bits.CalculateTarget(), bits.CalculateDifficulty().Text('f', 8))

	return nil
}

func (r *runner) check(c *cli.Context) error {
	hash, err := chainhash.NewHashFromStr(c.String("hash"))
	if err != nil {
		return errors.NewInvalidArgumentError("invalid hash", err)
	}

	bits, err := model.NewNBitFromString(c.String("bits"))
	if err != nil {
		return err
	}

	if !pow.CheckProofOfWork(hash, bits.Uint32(), r.tSettings.ChainCfgParams) {
		return errors.NewBlockInvalidError("hash %s does not meet bits %s on %s", hash, bits.String(), r.tSettings.ChainCfgParams.Name)
	}

	_, _ = fmt.Fprintf(c.App.Writer, "ok: hash %s meets bits %s\n", hash, bits.String())

	return nil
}

type legacyParams struct {
	TargetSpacing                int64 `yaml:"target_spacing"`
	TargetTimespan               int64 `yaml:"target_timespan"`
	DifficultyAdjustmentInterval int64 `yaml:"difficulty_adjustment_interval"`
	ReduceMinDifficulty          bool  `yaml:"reduce_min_difficulty"`
	NoDifficultyAdjustment       bool  `yaml:"no_difficulty_adjustment"`
}

type multiAlgoParams struct {
	AlgoCount               int64 `yaml:"algo_count"`
	Timespan                int64 `yaml:"timespan"`
	TargetSpacing           int64 `yaml:"target_spacing"`
	AveragingInterval       int64 `yaml:"averaging_interval"`
	AveragingTargetTimespan int64 `yaml:"averaging_target_timespan"`
	MaxAdjustUp             int64 `yaml:"max_adjust_up"`
	MaxAdjustDown           int64 `yaml:"max_adjust_down"`
	MinActualTimespan       int64 `yaml:"min_actual_timespan"`
	MaxActualTimespan       int64 `yaml:"max_actual_timespan"`
}

type resolvedParams struct {
	Network      string          `yaml:"network"`
	Height       int32           `yaml:"height"`
	Engine       string          `yaml:"engine"`
	PowLimitBits string          `yaml:"pow_limit_bits"`
	Legacy       legacyParams    `yaml:"legacy"`
	MultiAlgo    multiAlgoParams `yaml:"multi_algo"`
}

func resolve(p *chaincfg.Params, height int32) *resolvedParams {
	engine := "multialgo"
	if height < p.MultiAlgoForkHeight {
		engine = "legacy"
	}

	return &resolvedParams{
		Network:      p.Name,
		Height:       height,
		Engine:       engine,
		PowLimitBits: fmt.Sprintf("%08x", p.PowLimitBits),
		Legacy: legacyParams{
			TargetSpacing:                p.TargetTimePerBlockSeconds(),
			TargetTimespan:               p.TargetTimespanAt(height),
			DifficultyAdjustmentInterval: p.DifficultyAdjustmentInterval(height),
			ReduceMinDifficulty:          p.ReduceMinDifficulty,
			NoDifficultyAdjustment:       p.NoDifficultyAdjustment,
		},
		MultiAlgo: multiAlgoParams{
			AlgoCount:               p.AlgoCount,
			Timespan:                p.MultiAlgoTimespanAt(height),
			TargetSpacing:           p.MultiAlgoTargetSpacing(height),
			AveragingInterval:       p.MultiAlgoAveragingIntervalAt(height),
			AveragingTargetTimespan: p.MultiAlgoAveragingTargetTimespan(height),
			MaxAdjustUp:             p.MultiAlgoMaxAdjustUpAt(height),
			MaxAdjustDown:           p.MultiAlgoMaxAdjustDownAt(height),
			MinActualTimespan:       p.MultiAlgoMinActualTimespan(height),
			MaxActualTimespan:       p.MultiAlgoMaxActualTimespan(height),
		},
	}
}

func (r *runner) params(c *cli.Context) error {
	height := c.Int("height")
	if height < 0 || height > 1<<31-1 {
		return errors.NewInvalidArgumentError("height %d out of range", height)
	}

	enc := yaml.NewEncoder(c.App.Writer)
	enc.SetIndent(2)

	if err := enc.Encode(resolve(r.tSettings.ChainCfgParams, int32(height))); err != nil {
		return errors.NewProcessingError("error encoding params", err)
	}

	return enc.Close()
}

func (r *runner) importHeaders(c *cli.Context) error {
	store, err := r.openStore(c.Context)
	if err != nil {
		return err
	}

	view, err := store.Snapshot(c.Context)
	if err != nil {
		return err
	}

	f, err := os.Open(c.String("file"))
	if err != nil {
		return errors.NewInvalidArgumentError("error opening %s", c.String("file"), err)
	}
	defer f.Close()

	hdrs, err := csvfile.ReadHeaders(f, view.Len())
	if err != nil {
		return err
	}

	for _, header := range hdrs {
		if _, err = store.Append(c.Context, header); err != nil {
			return err
		}
	}

	r.logger.Infof("imported %d headers from %s", len(hdrs), c.String("file"))
	_, _ = fmt.Fprintf(c.App.Writer, "imported %d headers, tip height %d\n", len(hdrs), view.Len()+int32(len(hdrs))-1) //nolint:gosec // file sizes fit in int32

	return nil
}

func (r *runner) exportHeaders(c *cli.Context) error {
	store, err := r.openStore(c.Context)
	if err != nil {
		return err
	}

	view, err := store.Snapshot(c.Context)
	if err != nil {
		return err
	}

	from, to := int32(c.Int("from")), int32(c.Int("to")) //nolint:gosec // heights fit in int32
	if to < 0 {
		to = view.Len() - 1
	}

	hdrs, err := view.Headers(from, to)
	if err != nil {
		return err
	}

	f, err := os.Create(c.String("file"))
	if err != nil {
		return errors.NewProcessingError("error creating %s", c.String("file"), err)
	}

	if err = csvfile.WriteHeaders(f, from, hdrs); err != nil {
		_ = f.Close()
		return err
	}

	if err = f.Close(); err != nil {
		return errors.NewProcessingError("error closing %s", c.String("file"), err)
	}

	_, _ = fmt.Fprintf(c.App.Writer, "exported headers %d..%d\n", from, to)

	return nil
}

func (r *runner) replay(c *cli.Context) error {
	store, err := r.openStore(c.Context)
	if err != nil {
		return err
	}

	view, err := store.Snapshot(c.Context)
	if err != nil {
		return err
	}

	d, err := r.difficulty()
	if err != nil {
		return err
	}

	concurrency := r.tSettings.Difficulty.ReplayConcurrency
	if c.IsSet("concurrency") {
		concurrency = c.Int("concurrency")
	}

	checkPow := r.tSettings.Difficulty.CheckPow
	if c.IsSet("check-pow") {
		checkPow = c.Bool("check-pow")
	}

	if err = d.Replay(c.Context, view, concurrency, checkPow); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.App.Writer, "ok: %d headers follow the %s difficulty rules\n", view.Len(), r.tSettings.ChainCfgParams.Name)

	return nil
}
