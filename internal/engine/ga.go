package engine

import (
	"cmp"
	cryptorand "crypto/rand"
	"image"
	"math/rand/v2"
	"slices"
)

// Params configures the evolutionary search of spec.md §4.6.
type Params struct {
	PopulationSize   int
	GenerationLimit  int
	SelectionRatio   float64 // fraction of the population entered into the mating pool each generation
	ReinsertionRatio float64 // fraction of the next generation preserved from the current elite

	// CheckpointEvery, when positive, makes Run invoke Checkpoint every
	// that many generations, handing it the current population's
	// blueprints so a host can persist a long search's progress. Run
	// always starts from a freshly generated population; it does not
	// take a saved one back. Zero disables checkpointing regardless of
	// whether Checkpoint is set.
	CheckpointEvery int
	Checkpoint      func(generation int, population []Blueprint) error
}

// DefaultParams returns the production tuning from spec.md §4.6.
func DefaultParams() Params {
	return Params{PopulationSize: 75, GenerationLimit: 4000, SelectionRatio: 0.7, ReinsertionRatio: 0.7}
}

// DebugParams returns the reduced tuning used for fast iteration.
func DebugParams() Params {
	return Params{PopulationSize: 50, GenerationLimit: 200, SelectionRatio: 0.7, ReinsertionRatio: 0.7}
}

// Result is the outcome of a completed search.
type Result struct {
	Layout      *Layout
	Cost        float64
	Generations int
}

// NewRandom returns a ChaCha8-backed random source, the stream-cipher
// PRNG spec.md §5 calls for whenever a reproducible run is required. A
// nil seed draws fresh entropy instead of reusing a fixed sequence.
func NewRandom(seed *[32]byte) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewChaCha8(*seed))
	}
	var s [32]byte
	if _, err := cryptorand.Read(s[:]); err != nil {
		panic("engine: failed to seed random source: " + err.Error())
	}
	return rand.New(rand.NewChaCha8(s))
}

type individual struct {
	layout *Layout
	cost   float64
}

func newIndividual(l *Layout) individual {
	return individual{layout: l, cost: l.Cost()}
}

// Run performs the evolutionary search of spec.md §4.6: population
// initialization, tournament selection, crossover and mutation, and
// elitist reinsertion, terminating when a zero-cost layout is found or
// the generation limit is reached. If params.Checkpoint is set, it is
// called every params.CheckpointEvery generations with that
// generation's population, so a host can persist progress
// (internal/checkpoint supplies the on-disk encoding); the initial
// population is always generated afresh. Run stops early and returns
// the checkpoint error if that callback fails.
func Run(images []image.Image, params Params, rng *rand.Rand) (Result, error) {
	population := make([]individual, params.PopulationSize)
	for i := range population {
		population[i] = newIndividual(New(images, rng))
	}
	sortByCost(population)

	generationsRun := 0
	for ; generationsRun < params.GenerationLimit; generationsRun++ {
		if population[0].cost == 0 {
			break
		}

		if params.Checkpoint != nil && params.CheckpointEvery > 0 && generationsRun%params.CheckpointEvery == 0 {
			if err := checkpointGeneration(params.Checkpoint, generationsRun, population); err != nil {
				best := population[0]
				return Result{Layout: best.layout, Cost: best.cost, Generations: generationsRun}, err
			}
		}

		matingPool := tournamentSelect(population, params.SelectionRatio, rng)
		offspring := make([]individual, 0, len(matingPool))
		for i := 0; i+1 < len(matingPool); i += 2 {
			child1, child2 := Crossover(matingPool[i].layout, matingPool[i+1].layout, rng)
			child1 = Mutate(child1, rng)
			child2 = Mutate(child2, rng)
			offspring = append(offspring, newIndividual(child1), newIndividual(child2))
		}

		population = reinsert(population, offspring, params.ReinsertionRatio, params.PopulationSize)
		sortByCost(population)
	}

	best := population[0]
	return Result{Layout: best.layout, Cost: best.cost, Generations: generationsRun}, nil
}

func checkpointGeneration(checkpoint func(int, []Blueprint) error, generation int, population []individual) error {
	blueprints := make([]Blueprint, len(population))
	for i, ind := range population {
		blueprints[i] = ToBlueprint(ind.layout)
	}
	return checkpoint(generation, blueprints)
}

// sortByCost orders the population ascending by cost (best first). This
// plays the role the Rust implementation's FitnessFloat wrapper and
// total_cmp play when adapting a minimize-cost model onto a
// maximize-fitness selection framework: cmp.Compare already gives cost
// a total order (including NaN), so no maximize/minimize adapter type
// is needed — the comparator itself is the adapter.
func sortByCost(population []individual) {
	slices.SortFunc(population, func(a, b individual) int {
		return cmp.Compare(a.cost, b.cost)
	})
}

// tournamentSelect builds a mating pool sized to selectionRatio of the
// population by repeatedly running 2-contestant tournaments — mirroring
// genevo's num_individuals_per_parents=2 — and keeping the lower-cost
// contestant each time.
func tournamentSelect(population []individual, selectionRatio float64, rng *rand.Rand) []individual {
	poolSize := int(selectionRatio * float64(len(population)))
	if poolSize%2 != 0 {
		poolSize++ // keep an even pool so every individual pairs off for crossover
	}
	pool := make([]individual, poolSize)
	for i := range pool {
		a := population[rng.IntN(len(population))]
		b := population[rng.IntN(len(population))]
		if a.cost <= b.cost {
			pool[i] = a
		} else {
			pool[i] = b
		}
	}
	return pool
}

// reinsert forms the next generation by keeping the fittest
// reinsertionRatio share of the current population (elitism) and
// filling the remaining slots with the fittest offspring.
func reinsert(population, offspring []individual, reinsertionRatio float64, targetSize int) []individual {
	sortByCost(population)
	sortByCost(offspring)

	numElites := int(reinsertionRatio * float64(targetSize))
	if numElites > len(population) {
		numElites = len(population)
	}
	if numElites > targetSize {
		numElites = targetSize
	}

	next := make([]individual, 0, targetSize)
	next = append(next, population[:numElites]...)

	remaining := targetSize - len(next)
	if remaining > len(offspring) {
		remaining = len(offspring)
	}
	next = append(next, offspring[:remaining]...)

	// Pad with remaining elites if offspring ran short (e.g. no eligible
	// crossover pair existed in this generation).
	for i := numElites; len(next) < targetSize && i < len(population); i++ {
		next = append(next, population[i])
	}

	return next
}
