package engine

import (
	"errors"
	"testing"
)

func TestRunTerminatesOnGenerationLimit(t *testing.T) {
	rng := newTestRNG()
	images := fakeImages(rng, 4)

	params := Params{PopulationSize: 10, GenerationLimit: 5, SelectionRatio: 0.7, ReinsertionRatio: 0.7}
	result, err := Run(images, params, rng)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}

	if result.Generations > params.GenerationLimit {
		t.Errorf("ran %d generations, exceeding the limit of %d", result.Generations, params.GenerationLimit)
	}
	if result.Layout == nil {
		t.Fatalf("Run returned a nil layout")
	}
	result.Layout.assertInvariants()
	if result.Layout.LeafCount() != len(images) {
		t.Errorf("result layout has %d leaves, want %d", result.Layout.LeafCount(), len(images))
	}
	if result.Cost != result.Layout.Cost() {
		t.Errorf("reported cost %v does not match the result layout's own cost %v", result.Cost, result.Layout.Cost())
	}
}

func TestRunNeverRegressesBestCost(t *testing.T) {
	rng := newTestRNG()
	images := fakeImages(rng, 5)

	// Both runs start from the same random state, so the longer one passes
	// through the shorter one's final population, and elitist reinsertion
	// keeps its best individual from then on.
	shortRun, err := Run(images, Params{PopulationSize: 12, GenerationLimit: 3, SelectionRatio: 0.7, ReinsertionRatio: 0.7}, newTestRNG())
	if err != nil {
		t.Fatalf("short run returned an error: %v", err)
	}
	longerRun, err := Run(images, Params{PopulationSize: 12, GenerationLimit: 15, SelectionRatio: 0.7, ReinsertionRatio: 0.7}, newTestRNG())
	if err != nil {
		t.Fatalf("longer run returned an error: %v", err)
	}

	if longerRun.Cost > shortRun.Cost+1e-9 {
		t.Errorf("a longer search produced a worse best cost (%v) than a shorter one (%v)", longerRun.Cost, shortRun.Cost)
	}
}

func TestRunInvokesCheckpointEveryNGenerationsAndPropagatesItsError(t *testing.T) {
	rng := newTestRNG()
	images := fakeImages(rng, 5)

	var seenGenerations []int
	params := Params{
		PopulationSize:   10,
		GenerationLimit:  7,
		SelectionRatio:   0.7,
		ReinsertionRatio: 0.7,
		CheckpointEvery:  2,
		Checkpoint: func(generation int, population []Blueprint) error {
			seenGenerations = append(seenGenerations, generation)
			if len(population) != 10 {
				t.Errorf("checkpoint saw %d blueprints, want %d", len(population), 10)
			}
			return nil
		},
	}
	if _, err := Run(images, params, rng); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if len(seenGenerations) == 0 {
		t.Fatalf("checkpoint callback was never invoked")
	}
	for _, g := range seenGenerations {
		if g%2 != 0 {
			t.Errorf("checkpoint invoked on generation %d, want only multiples of CheckpointEvery=2", g)
		}
	}

	wantErr := errors.New("disk full")
	failingParams := params
	failingParams.Checkpoint = func(int, []Blueprint) error { return wantErr }
	if _, err := Run(images, failingParams, rng); !errors.Is(err, wantErr) {
		t.Errorf("Run did not propagate the checkpoint callback's error, got %v", err)
	}
}

func TestDefaultAndDebugParamsDiffer(t *testing.T) {
	prod := DefaultParams()
	debug := DebugParams()

	if prod.PopulationSize <= debug.PopulationSize {
		t.Errorf("production population size should exceed the debug size")
	}
	if prod.GenerationLimit <= debug.GenerationLimit {
		t.Errorf("production generation limit should exceed the debug limit")
	}
}

func TestNewRandomIsDeterministicForAFixedSeed(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i)
	}

	a := NewRandom(&seed)
	b := NewRandom(&seed)

	for i := 0; i < 100; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatalf("two ChaCha8 sources seeded identically diverged at draw %d", i)
		}
	}
}
