// Package scenes holds the explainer scripts and the registry the CLI and
// the engine look them up in.
package scenes

import (
	"errors"
	"fmt"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/scene"
)

// ErrUnknownScene is returned by Lookup for a name that is not registered.
var ErrUnknownScene = errors.New("unknown scene")

// registry maps scene names to factories. Factories take the config so
// scenes can pull assets and contact details from it.
var registry = map[string]func(cfg *config.Config) scene.Script{
	"repo-intro":             repoIntro,
	"gradient-descent":       func(*config.Config) scene.Script { return gradientDescent() },
	"photons-pion-decay":     func(*config.Config) scene.Script { return photonsPionDecay() },
	"gravitational-redshift": func(*config.Config) scene.Script { return gravitationalRedshift() },
	"spiderman-physics":      func(*config.Config) scene.Script { return spidermanPhysics() },
	"polar-poles-zeros":      func(*config.Config) scene.Script { return polarPolesZeros() },
}

// order is the running order of a full render.
var order = []string{
	"repo-intro",
	"gradient-descent",
	"photons-pion-decay",
	"gravitational-redshift",
	"spiderman-physics",
	"polar-poles-zeros",
}

// Names returns the registered scene names in running order.
func Names() []string { return append([]string(nil), order...) }

// Lookup builds the named scene.
func Lookup(cfg *config.Config, name string) (scene.Script, error) {
	f, ok := registry[name]
	if !ok {
		return scene.Script{}, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return f(cfg), nil
}

// Select builds the named scenes, or every scene when names is empty.
func Select(cfg *config.Config, names []string) ([]scene.Script, error) {
	if len(names) == 0 {
		return All(cfg), nil
	}
	out := make([]scene.Script, 0, len(names))
	for _, n := range names {
		sc, err := Lookup(cfg, n)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// All builds every scene in running order.
func All(cfg *config.Config) []scene.Script {
	names := Names()
	out := make([]scene.Script, len(names))
	for i, n := range names {
		out[i] = registry[n](cfg)
	}
	return out
}
