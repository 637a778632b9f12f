// Package config loads run files: a base preset, engine overrides and a maze source.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/mazega/genetic"
	"github.com/lixenwraith/mazega/maze"
)

// ErrInvalid is wrapped by every rejected run file
var ErrInvalid = errors.New("invalid run file")

// Run presets
const (
	PresetWindow  = "window"
	PresetConsole = "console"
)

// File is the decoded form of a run file. Engine fields left unset keep the preset's value.
type File struct {
	Preset string `toml:"preset" yaml:"preset" validate:"omitempty,oneof=window console"`
	Engine Engine `toml:"engine" yaml:"engine"`
	Maze   Maze   `toml:"maze" yaml:"maze"`
}

// Engine overrides genetic.Config fields
type Engine struct {
	PopulationSize *int     `toml:"population_size" yaml:"population_size" validate:"omitempty,gt=0"`
	MutationRate   *float64 `toml:"mutation_rate" yaml:"mutation_rate" validate:"omitempty,gte=0,lte=1"`
	Selection      *string  `toml:"selection" yaml:"selection" validate:"omitempty,oneof=uniform tournament"`
	TournamentSize *int     `toml:"tournament_size" yaml:"tournament_size" validate:"omitempty,gt=0"`
	Fitness        *string  `toml:"fitness" yaml:"fitness" validate:"omitempty,oneof=distance steps"`
	MaxGenerations *int     `toml:"max_generations" yaml:"max_generations" validate:"omitempty,gte=0"`
	StopOnOptimum  *bool    `toml:"stop_on_optimum" yaml:"stop_on_optimum"`
	Axes           *string  `toml:"axes" yaml:"axes" validate:"omitempty,oneof=compass transposed"`
	Parallelism    *int     `toml:"parallelism" yaml:"parallelism" validate:"omitempty,gte=0"`
	Seed           *uint64  `toml:"seed" yaml:"seed"`
}

// Maze names at most one maze source. With none, the preset's maze is used.
type Maze struct {
	Preset   string    `toml:"preset" yaml:"preset" validate:"omitempty,mazepreset"`
	Layout   string    `toml:"layout" yaml:"layout"`
	File     string    `toml:"file" yaml:"file"`
	Generate *Generate `toml:"generate" yaml:"generate"`
}

// Generate parameterises maze.Generate
type Generate struct {
	Width       int     `toml:"width" yaml:"width" validate:"gte=3,lte=1001"`
	Height      int     `toml:"height" yaml:"height" validate:"gte=3,lte=1001"`
	Braiding    float64 `toml:"braiding" yaml:"braiding" validate:"gte=0,lte=1"`
	OpenBorders bool    `toml:"open_borders" yaml:"open_borders"`
	Seed        uint64  `toml:"seed" yaml:"seed"`
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("mazepreset", func(fl validator.FieldLevel) bool {
		_, err := maze.Preset(fl.Field().String())
		return err == nil
	})
}

// Load reads and validates a run file; the format follows the extension
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read run file: %w", err)
	}
	f, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	// Relative maze files resolve against the run file
	if f.Maze.File != "" && !filepath.IsAbs(f.Maze.File) {
		f.Maze.File = filepath.Join(filepath.Dir(path), f.Maze.File)
	}
	return f, nil
}

// Decode parses data as TOML (".toml") or YAML (".yaml", ".yml") and validates it
func Decode(data []byte, ext string) (File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
		if err != nil {
			return File{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return File{}, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return File{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	default:
		return File{}, fmt.Errorf("%w: unsupported format %q (want .toml, .yaml or .yml)", ErrInvalid, ext)
	}

	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks field ranges and that at most one maze source is given
func (f File) Validate() error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if n := f.Maze.sources(); n > 1 {
		return fmt.Errorf("%w: maze: %d sources given, want at most one of preset, layout, file, generate", ErrInvalid, n)
	}
	return nil
}

func (m Maze) sources() int {
	n := 0
	for _, set := range []bool{m.Preset != "", m.Layout != "", m.File != "", m.Generate != nil} {
		if set {
			n++
		}
	}
	return n
}

// EngineConfig resolves the preset and applies overrides
func (f File) EngineConfig() (genetic.Config, error) {
	var cfg genetic.Config
	switch f.Preset {
	case PresetWindow:
		cfg = genetic.WindowConfig()
	case PresetConsole:
		cfg = genetic.ConsoleConfig()
	case "":
		cfg = genetic.DefaultConfig()
	default:
		return cfg, fmt.Errorf("%w: unknown preset %q", ErrInvalid, f.Preset)
	}

	e := f.Engine
	if e.PopulationSize != nil {
		cfg.PopulationSize = *e.PopulationSize
	}
	if e.MutationRate != nil {
		cfg.MutationRate = *e.MutationRate
	}
	if e.Selection != nil {
		p, err := genetic.ParseSelectionPolicy(*e.Selection)
		if err != nil {
			return cfg, err
		}
		cfg.Selection = p
	}
	if e.TournamentSize != nil {
		cfg.TournamentSize = *e.TournamentSize
	}
	if e.Fitness != nil {
		p, err := genetic.ParseFitnessPolicy(*e.Fitness)
		if err != nil {
			return cfg, err
		}
		cfg.Fitness = p
	}
	if e.MaxGenerations != nil {
		cfg.MaxGenerations = *e.MaxGenerations
	}
	if e.StopOnOptimum != nil {
		cfg.StopOnOptimum = *e.StopOnOptimum
	}
	if e.Axes != nil {
		a, err := genetic.ParseAxisConvention(*e.Axes)
		if err != nil {
			return cfg, err
		}
		cfg.Axes = a
	}
	if e.Parallelism != nil {
		cfg.Parallelism = *e.Parallelism
	}
	if e.Seed != nil {
		cfg.Seed = *e.Seed
	}

	return cfg, cfg.Validate()
}

// BuildMaze constructs the maze named by the run file
func (f File) BuildMaze() (*maze.Maze, error) {
	src := f.Maze
	switch {
	case src.Generate != nil:
		g, err := maze.Generate(maze.GeneratorConfig{
			Width:       src.Generate.Width,
			Height:      src.Generate.Height,
			Braiding:    src.Generate.Braiding,
			OpenBorders: src.Generate.OpenBorders,
			Seed:        src.Generate.Seed,
		})
		if err != nil {
			return nil, fmt.Errorf("generate maze: %w", err)
		}
		return g.Maze, nil
	case src.Layout != "":
		return maze.Parse(src.Layout)
	case src.File != "":
		data, err := os.ReadFile(src.File)
		if err != nil {
			return nil, fmt.Errorf("read maze file: %w", err)
		}
		m, err := maze.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.File, err)
		}
		return m, nil
	case src.Preset != "":
		return maze.Preset(src.Preset)
	case f.Preset == PresetConsole:
		return maze.Preset(maze.PresetConsole)
	default:
		return maze.Preset(maze.PresetWindow)
	}
}
