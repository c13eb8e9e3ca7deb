// vssexport walks one or more VSS databases and streams every
// reconstructed Action as newline-delimited JSON, for a downstream
// migration pipeline to consume.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/alitto/pond"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/vsscue/vsscue/config"
	"github.com/vsscue/vsscue/internal/codepage"
	"github.com/vsscue/vsscue/internal/version"
	"github.com/vsscue/vsscue/record"
	"github.com/vsscue/vsscue/vssdb"
	"github.com/vsscue/vsscue/walk"
)

func main() {
	var (
		configFile = kingpin.Flag(
			"config",
			"Config file for vssexport.",
		).Default("vsscue.yaml").Short('c').String()
		logFile = kingpin.Flag(
			"log",
			"Write logging to this file instead of stderr.",
		).String()
		encodingName = kingpin.Flag(
			"encoding",
			"Code page used to decode short/long names and comments (overrides config).",
		).String()
		rootProjectFile = kingpin.Flag(
			"root-project-file",
			"Physical name of the database's root project (overrides config).",
		).String()
		lenient = kingpin.Flag(
			"lenient",
			"Treat unknown revision action codes as unstructured revisions instead of failing (overrides config).",
		).Bool()
		ignoreUnknown = kingpin.Flag(
			"ignore-unknown",
			"Skip unrecognized record signatures instead of aborting (overrides config).",
		).Bool()
		profileMode = kingpin.Flag(
			"profile",
			"Enable CPU or memory profiling (cpu|mem).",
		).Enum("cpu", "mem", "")
		roots = kingpin.Flag(
			"root",
			"Root directory of a VSS database to export; may be repeated.",
		).Required().Strings()
		out = kingpin.Flag(
			"out",
			"Write output to this file instead of stdout.",
		).String()
		debug = kingpin.Flag(
			"debug",
			"Enable debugging level.",
		).Bool()
	)
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version(version.Print("vssexport")).Author("vsscue")
	kingpin.CommandLine.Help = "Reconstructs chronological VSS project/file history as newline-delimited JSON.\n"
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := logrus.New()
	logger.Level = logrus.InfoLevel
	if *debug {
		logger.Level = logrus.DebugLevel
	}
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			logger.Errorf("error creating log file: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	cfg, err := config.LoadConfigFile(*configFile)
	if err != nil {
		logger.Errorf("error loading config file: %v", err)
		os.Exit(1)
	}
	if *encodingName != "" {
		cfg.Encoding = *encodingName
	}
	if *rootProjectFile != "" {
		cfg.RootProjectFile = *rootProjectFile
	}
	if *lenient {
		cfg.Lenient = true
	}
	if *ignoreUnknown {
		cfg.IgnoreUnknown = true
	}

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile).Stop()
	}

	logger.Infof("%v", version.Print("vssexport"))
	logger.Infof("Options: encoding=%s root-project-file=%s lenient=%v ignore-unknown=%v roots=%v",
		cfg.Encoding, cfg.RootProjectFile, cfg.Lenient, cfg.IgnoreUnknown, *roots)

	enc, err := codepage.Resolve(cfg.Encoding)
	if err != nil {
		logger.Errorf("error resolving encoding: %v", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Errorf("error creating output file: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	var writeMu sync.Mutex
	exit := 0

	pondSize := runtime.NumCPU()
	pool := pond.New(pondSize, 0, pond.MinWorkers(1))

	var wg sync.WaitGroup
	for _, root := range *roots {
		root := root
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			if err := exportRoot(logger, root, enc, cfg, bw, &writeMu); err != nil {
				logger.Errorf("error exporting %s: %v", root, err)
				writeMu.Lock()
				exit = 1
				writeMu.Unlock()
			}
		})
	}
	wg.Wait()
	pool.StopAndWait()

	if err := bw.Flush(); err != nil {
		logger.Errorf("error flushing output: %v", err)
		exit = 1
	}
	os.Exit(exit)
}

func exportRoot(logger *logrus.Logger, root string, enc encoding.Encoding, cfg *config.Config, w *bufio.Writer, mu *sync.Mutex) error {
	opts := record.Options{LenientRevisionActions: cfg.Lenient}
	db, err := vssdb.Open(root, enc, opts)
	if err != nil {
		return fmt.Errorf("opening database at %s: %w", root, err)
	}
	db.IgnoreUnknown = cfg.IgnoreUnknown

	actions, err := walk.Walk(db, record.PhysicalName(cfg.RootProjectFile), enc)
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	mu.Lock()
	defer mu.Unlock()
	enc2 := json.NewEncoder(w)
	for _, a := range actions {
		if err := enc2.Encode(a); err != nil {
			return fmt.Errorf("encoding action from %s: %w", root, err)
		}
	}
	logger.Infof("exported %d actions from %s", len(actions), root)
	return nil
}
