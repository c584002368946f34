package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"

	"github.com/ravicious/collage/internal/checkpoint"
	"github.com/ravicious/collage/internal/collage"
	"github.com/ravicious/collage/internal/container"
	"github.com/ravicious/collage/internal/engine"
	"github.com/ravicious/collage/internal/imagestore"
	"github.com/ravicious/collage/internal/orientation"
)

func main() {
	var (
		outPath        string
		debug          bool
		seedHex        string
		checkpointDir  string
		checkpointGens int
		listImages     bool
	)
	flag.StringVar(&outPath, "out", "collage.jpg", "path to write the rendered JPEG to")
	flag.BoolVar(&debug, "debug", false, "use reduced population/generation limits for fast iteration")
	flag.StringVar(&seedHex, "seed", "", "64 hex-char ChaCha8 seed, for a reproducible search")
	flag.StringVar(&checkpointDir, "checkpoint-dir", "", "directory to write periodic LZF-compressed generation checkpoints to (disabled if empty)")
	flag.IntVar(&checkpointGens, "checkpoint-every", 50, "write a checkpoint every this many generations, when -checkpoint-dir is set")
	flag.BoolVar(&listImages, "list-images", false, "log every loaded image's content hash before running the search")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	paths := flag.Args()
	if len(paths) < 2 {
		logger.Fatalf("need at least 2 input images, got %d", len(paths))
	}

	store := imagestore.New()
	sniffer := container.New()

	images := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := loadImage(store, sniffer, p)
		if err != nil {
			logger.Fatalf("loading %s: %v", p, err)
		}
		images = append(images, img)
	}
	logger.Printf("loaded %d distinct images into the store (%d input paths)", store.Len(), len(paths))
	if listImages {
		for _, hash := range store.Hashes() {
			logger.Printf("  image %s", hash)
		}
	}

	rng := engine.NewRandom(parseSeed(seedHex, logger))

	var out image.Image
	if len(images) == 2 {
		logger.Println("two images given, using the fast path")
		out = collage.TwoImageFastPath(images[0], images[1])
	} else {
		params := engine.DefaultParams()
		if debug {
			params = engine.DebugParams()
		}
		if checkpointDir != "" {
			params.CheckpointEvery = checkpointGens
			params.Checkpoint = checkpointWriter(checkpointDir, logger)
		}
		rendered, result, err := collage.GenerateLayout(images, params, rng)
		if err != nil {
			logger.Fatalf("generating layout: %v", err)
		}
		logger.Printf("search finished after %d generations, cost=%v", result.Generations, result.Cost)
		out = rendered
	}

	if err := writeJPEG(outPath, out); err != nil {
		logger.Fatalf("writing %s: %v", outPath, err)
	}
	logger.Printf("wrote %s", outPath)
}

func loadImage(store *imagestore.Store, sniffer *container.Sniffer, path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if format := sniffer.Sniff(data); format == container.Unknown {
		return nil, errUnrecognizedFormat
	}

	_, decoded, err := store.Put(data)
	if err != nil {
		return nil, err
	}
	return orientation.FixIfNeeded(data, decoded), nil
}

var errUnrecognizedFormat = errors.New("unrecognized container format")

// checkpointWriter returns an engine.Params.Checkpoint callback that
// LZF-compresses each generation's population (internal/checkpoint) and
// writes it to dir, so a long search's progress is kept on disk.
func checkpointWriter(dir string, logger *log.Logger) func(int, []engine.Blueprint) error {
	return func(generation int, population []engine.Blueprint) error {
		data, err := checkpoint.Encode(checkpoint.Snapshot{Generation: generation, Blueprints: population})
		if err != nil {
			return fmt.Errorf("encoding checkpoint for generation %d: %w", generation, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("gen-%05d.checkpoint", generation))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing checkpoint %s: %w", path, err)
		}
		logger.Printf("wrote checkpoint %s (%d bytes)", path, len(data))
		return nil
	}
}

func parseSeed(seedHex string, logger *log.Logger) *[32]byte {
	if seedHex == "" {
		return nil
	}
	raw, err := hex.DecodeString(seedHex)
	if err != nil || len(raw) != 32 {
		logger.Fatalf("-seed must be 64 hex characters (32 bytes)")
	}
	var seed [32]byte
	copy(seed[:], raw)
	return &seed
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}
