package genetic

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/mazega/parameter"
)

// ErrConfiguration is wrapped by every rejected engine configuration
var ErrConfiguration = errors.New("invalid configuration")

// ConfigurationError names the offending field
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Config holds the run parameters. Out-of-range values are rejected, never clamped.
type Config struct {
	// PopulationSize is the number of individuals per generation
	PopulationSize int
	// MutationRate is the per-gene reset probability (0-1)
	MutationRate float64
	// Selection picks the parent selection policy
	Selection SelectionPolicy
	// TournamentSize is the draw count for tournament selection
	TournamentSize int
	// Fitness picks the scoring policy
	Fitness FitnessPolicy
	// MaxGenerations caps the run; 0 runs until stopped or converged
	MaxGenerations int
	// StopOnOptimum converges as soon as the best score reaches the evaluator's optimum
	StopOnOptimum bool
	// Axes maps moves to grid deltas
	Axes AxisConvention
	// Parallelism bounds concurrent evaluations; 0 or 1 evaluates inline
	Parallelism int
	// Seed for the engine's random source (0 for random seed)
	Seed uint64
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() Config {
	return Config{
		PopulationSize: parameter.GAPopulationSize,
		MutationRate:   parameter.GAMutationRate,
		Selection:      SelectTournament,
		TournamentSize: parameter.GATournamentSize,
		Fitness:        FitnessDistance,
		MaxGenerations: parameter.GAMaxGenerations,
		StopOnOptimum:  true,
		Axes:           AxesCompass,
		Parallelism:    parameter.GAParallelism,
	}
}

// WindowConfig reproduces the windowed solver: uniform parents, distance scoring, no cap
func WindowConfig() Config {
	return Config{
		PopulationSize: parameter.GAWindowPopulationSize,
		MutationRate:   parameter.GAWindowMutationRate,
		Selection:      SelectUniform,
		TournamentSize: parameter.GATournamentSize,
		Fitness:        FitnessDistance,
		MaxGenerations: parameter.GAWindowMaxGenerations,
		StopOnOptimum:  true,
		Axes:           AxesTransposed,
		Parallelism:    parameter.GAParallelism,
	}
}

// ConsoleConfig reproduces the console solver: tournament parents, step counting
func ConsoleConfig() Config {
	return Config{
		PopulationSize: parameter.GAConsolePopulationSize,
		MutationRate:   parameter.GAConsoleMutationRate,
		Selection:      SelectTournament,
		TournamentSize: parameter.GAConsoleTournamentSize,
		Fitness:        FitnessSteps,
		MaxGenerations: parameter.GAConsoleMaxGenerations,
		Axes:           AxesCompass,
		Parallelism:    parameter.GAParallelism,
	}
}

// Validate reports the first invalid field
func (c Config) Validate() error {
	if c.PopulationSize <= 0 {
		return configErrorf("population_size", "must be > 0 (got %d)", c.PopulationSize)
	}
	if math.IsNaN(c.MutationRate) || c.MutationRate < 0 || c.MutationRate > 1 {
		return configErrorf("mutation_rate", "must be in [0,1] (got %v)", c.MutationRate)
	}
	switch c.Selection {
	case SelectUniform:
	case SelectTournament:
		if c.TournamentSize <= 0 {
			return configErrorf("tournament_size", "must be > 0 (got %d)", c.TournamentSize)
		}
	default:
		return configErrorf("selection", "unknown selection policy %d", c.Selection)
	}
	if c.Fitness != FitnessDistance && c.Fitness != FitnessSteps {
		return configErrorf("fitness", "unknown fitness policy %d", c.Fitness)
	}
	if c.MaxGenerations < 0 {
		return configErrorf("max_generations", "must be >= 0 (got %d)", c.MaxGenerations)
	}
	if !c.Axes.Valid() {
		return configErrorf("axes", "unknown axis convention %d", c.Axes)
	}
	if c.Parallelism < 0 {
		return configErrorf("parallelism", "must be >= 0 (got %d)", c.Parallelism)
	}
	return nil
}
