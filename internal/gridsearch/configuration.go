// Package gridsearch finds the nearest-neighbour configuration with the best
// cross-validated weighted F-measure.
package gridsearch

import (
	"fmt"
	"iter"

	"github.com/IbaiO/weka-lab/internal/models"
)

// Configuration is one point of the search grid.
type Configuration struct {
	K         int
	Structure models.SearchStructure
	Weighting models.Weighting
}

func (c Configuration) String() string {
	return fmt.Sprintf("k=%d structure=%s weighting=%s", c.K, c.Structure, c.Weighting)
}

// DefaultConfiguration is reported when no configuration could be scored.
var DefaultConfiguration = Configuration{
	K:         1,
	Structure: models.SearchStructures[0],
	Weighting: models.Weightings[0],
}

// Configurations yields every configuration with k in 1..maxK, ordered by k,
// then search structure, then weighting.
func Configurations(maxK int) iter.Seq[Configuration] {
	return func(yield func(Configuration) bool) {
		for k := 1; k <= maxK; k++ {
			for _, s := range models.SearchStructures {
				for _, w := range models.Weightings {
					if !yield(Configuration{K: k, Structure: s, Weighting: w}) {
						return
					}
				}
			}
		}
	}
}

// GridSize is the number of configurations Configurations(maxK) yields.
func GridSize(maxK int) int {
	if maxK < 1 {
		return 0
	}
	return maxK * len(models.SearchStructures) * len(models.Weightings)
}
