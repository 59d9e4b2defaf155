package optimizer

import (
	"io"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"quantcore/internal/engine"
	"quantcore/strategies/macross"
)

// GeneratorFactory builds the signal generator for one (short, long) combo.
type GeneratorFactory func(short, long int) engine.SignalGenerator

func movingAverageCross(short, long int) engine.SignalGenerator {
	return macross.New(short, long)
}

// Optimizer evaluates parameter combos in parallel. Every combo and fold runs
// on its own simulation state; only the input series is shared.
type Optimizer struct {
	simulator    *engine.Simulator
	workers      int
	logger       *zap.Logger
	progress     io.Writer
	newGenerator GeneratorFactory
}

type Option func(*Optimizer)

// WithWorkers bounds the number of simulations running at once. Values below
// one select runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.workers = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Optimizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress renders a progress bar to w while a batch runs.
func WithProgress(w io.Writer) Option {
	return func(o *Optimizer) {
		o.progress = w
	}
}

func WithGeneratorFactory(f GeneratorFactory) Option {
	return func(o *Optimizer) {
		if f != nil {
			o.newGenerator = f
		}
	}
}

func New(cfg engine.Config, opts ...Option) (*Optimizer, error) {
	sim, err := engine.NewSimulator(cfg)
	if err != nil {
		return nil, err
	}
	o := &Optimizer{
		simulator:    sim,
		workers:      runtime.NumCPU(),
		logger:       zap.NewNop(),
		newGenerator: movingAverageCross,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Combo is one (short, long) window pair.
type Combo struct {
	Short int
	Long  int
}

// Combos enumerates shorts (outer) by longs (inner) in the order given and
// drops pairs where short >= long.
func Combos(shorts, longs []int) []Combo {
	combos := make([]Combo, 0, len(shorts)*len(longs))
	for _, s := range shorts {
		for _, l := range longs {
			if s >= l {
				continue
			}
			combos = append(combos, Combo{Short: s, Long: l})
		}
	}
	return combos
}

func (o *Optimizer) newProgressBar(maxTicks int, description string) *progressbar.ProgressBar {
	if o.progress == nil {
		return nil
	}
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionSetWriter(o.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func tick(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Add(1)
	}
}

func finish(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
