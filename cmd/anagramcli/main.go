package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"crosswarped.com/anagram"
	"crosswarped.com/anagram/internal/config"
	"crosswarped.com/anagram/internal/wordsource"
)

func main() {
	configFile := flag.String("config", "", "YAML or JSON config file")
	envFile := flag.String("env", ".env", "Optional .env file with ANAGRAM_* overrides")
	file := flag.String("file", "", "The file to load words from")
	phrase := flag.String("anagram", "", "The phrase to find an anagram of")
	checksum := flag.String("checksum", "", "Hex checksum of the phrase to find")
	digest := flag.String("digest", "", "Checksum algorithm: md5, sha1 or sha256")
	maxWords := flag.Int("max_words", 0, "The maximum number of words in the phrase")
	foldAccents := flag.Bool("fold_accents", false, "Strip accents from loaded words")
	verbose := flag.Bool("v", false, "Log search progress")

	timeout := flag.Duration("timeout", 0, "Give up after this long (0 means never)")

	profile := flag.Bool("profile", false, "Profile the solver")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")
	memoryProfileFile := flag.String("memory-profile-file", "mem.pprof", "The file to write the memory profile to")

	flag.Parse()

	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	if *file != "" {
		cfg.WordListFilePath = *file
	}
	if *phrase != "" {
		cfg.Anagram = *phrase
	}
	if *checksum != "" {
		cfg.Checksum = *checksum
	}
	if *digest != "" {
		cfg.Digest = *digest
	}
	if *maxWords > 0 {
		cfg.MaximumWordCount = *maxWords
	}
	if *foldAccents {
		cfg.FoldAccents = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Println("Error creating logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	fmt.Println("Generating a list of candidate words...")
	words, err := loadWords(ctx, cfg)
	if err != nil {
		fmt.Println("Error getting the word list:", err)
		os.Exit(1)
	}
	fmt.Printf("Got %d words.\n", len(words))

	var mf *os.File
	if *profile {
		f, err := os.Create(*profileFile)
		if err != nil {
			fmt.Println("Error creating profile file:", err)
			os.Exit(1)
		}
		defer f.Close()

		mf, err = os.Create(*memoryProfileFile)
		if err != nil {
			fmt.Println("Error creating memory profile file:", err)
			os.Exit(1)
		}
		defer mf.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Println("Error starting CPU profile:", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	solver, err := anagram.CreateSolver(cfg.Anagram, cfg.Checksum, words, anagram.SolverParams{
		MaxWordCount: cfg.MaximumWordCount,
		Digest:       anagram.Digest(cfg.Digest),
		Logger:       logger,
	})
	if err != nil {
		fmt.Println("Error creating solver:", err)
		os.Exit(1)
	}

	res, err := solver.Solve(ctx)
	fmt.Printf("Solve anagram: %v\n", res.Elapsed.Round(time.Millisecond))

	if mf != nil {
		pprof.WriteHeapProfile(mf)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		color.Yellow("Gave up after %v (%d combinations, %d phrases checked).", *timeout, res.Nodes, res.Verified)
	case err != nil:
		fmt.Println("Context error:", err)
	case res.Found:
		fmt.Println("-----------")
		color.Green("Got %q as a match.", res.Phrase)
	default:
		color.Red("Could not find anagram!")
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func loadWords(ctx context.Context, cfg *config.Config) ([]string, error) {
	opts := wordsource.Options{FoldAccents: cfg.FoldAccents}
	if cfg.WordListFilePath != "" {
		return wordsource.LoadFile(ctx, cfg.WordListFilePath, opts)
	}
	return wordsource.LoadBigQuery(ctx, wordsource.BigQueryParams{
		Project: cfg.BigQueryProject,
		Table:   cfg.BigQueryTable,
		Column:  cfg.BigQueryColumn,
	}, opts)
}
