// vssdump is the forensic dumper: it prints a VSS project's
// reconstructed history in chronological order, optionally emitting a
// graphviz tree of the project/file structure, full Go-syntax struct
// dumps of each action, and unified diffs between successive file
// revisions.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/emicklei/dot"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/vsscue/vsscue/config"
	"github.com/vsscue/vsscue/internal/codepage"
	"github.com/vsscue/vsscue/internal/version"
	"github.com/vsscue/vsscue/itemfile"
	"github.com/vsscue/vsscue/record"
	"github.com/vsscue/vsscue/revision"
	"github.com/vsscue/vsscue/vssdb"
	"github.com/vsscue/vsscue/walk"
)

func main() {
	var (
		configFile = kingpin.Flag(
			"config",
			"Config file for vssdump.",
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
			"Physical name of the project to dump (overrides config and PROJECT-PATH).",
		).String()
		graphFile = kingpin.Flag(
			"graph",
			"Graphviz dot file to write the project/file tree to.",
		).String()
		verboseStruct = kingpin.Flag(
			"verbose-struct",
			"Dump the full Go-syntax representation of each action.",
		).Bool()
		diff = kingpin.Flag(
			"diff",
			"Show a unified diff between successive revisions of each named file.",
		).Bool()
		path = kingpin.Arg(
			"PATH",
			"Root directory of the VSS database.",
		).Required().String()
		projectPath = kingpin.Arg(
			"PROJECT-PATH",
			"Physical name of the project to dump (default: the database's root project).",
		).String()
	)
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version(version.Print("vssdump")).Author("vsscue")
	kingpin.CommandLine.Help = "Dumps a VSS project's reconstructed history for inspection.\n"
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := logrus.New()
	logger.Level = logrus.InfoLevel
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
	if *projectPath != "" {
		cfg.RootProjectFile = *projectPath
	}
	if *rootProjectFile != "" {
		cfg.RootProjectFile = *rootProjectFile
	}

	logger.Infof("%v", version.Print("vssdump"))
	logger.Infof("Starting dump of %s, project %s", *path, cfg.RootProjectFile)

	enc, err := codepage.Resolve(cfg.Encoding)
	if err != nil {
		logger.Errorf("error resolving encoding: %v", err)
		os.Exit(1)
	}

	db, err := vssdb.Open(*path, enc, record.Options{LenientRevisionActions: cfg.Lenient})
	if err != nil {
		logger.Errorf("error opening database: %v", err)
		os.Exit(1)
	}
	db.IgnoreUnknown = cfg.IgnoreUnknown

	root := record.PhysicalName(cfg.RootProjectFile)

	if *graphFile != "" {
		g := dot.NewGraph(dot.Directed)
		if err := buildGraph(db, enc, root, g, nil); err != nil {
			logger.Errorf("error building graph: %v", err)
			os.Exit(1)
		}
		f, err := os.OpenFile(*graphFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			logger.Errorf("error creating graph file: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		f.Write([]byte(g.String()))
	}

	actions, err := walk.Walk(db, root, enc)
	if err != nil {
		logger.Errorf("error walking database: %v", err)
		os.Exit(1)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	prior := make(map[string][]byte)
	for _, a := range actions {
		fmt.Fprintln(w, a.Description)
		for _, warning := range a.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
		if *verboseStruct {
			spew.Fdump(w, a)
		}
		if *diff && a.Content != nil {
			printDiff(w, a, prior)
		}
	}
}

// printDiff shows a unified diff between a.Content and the last
// content seen for a.Name, tracked by name since Action does not carry
// the underlying physical name.
func printDiff(w *bufio.Writer, a *revision.Action, prior map[string][]byte) {
	old, ok := prior[a.Name]
	prior[a.Name] = a.Content
	if !ok {
		return
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(old)),
		B:        difflib.SplitLines(string(a.Content)),
		FromFile: fmt.Sprintf("%s#%d", a.Name, a.Version-1),
		ToFile:   fmt.Sprintf("%s#%d", a.Name, a.Version),
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		fmt.Fprintf(w, "  diff error: %v\n", err)
		return
	}
	fmt.Fprint(w, text)
}

// buildGraph recursively adds a node for physical (and, for projects,
// an edge to every live child) to g.
func buildGraph(db *vssdb.Database, enc encoding.Encoding, physical record.PhysicalName, g *dot.Graph, parentNode *dot.Node) error {
	rf, err := db.OpenRecordsFile(physical)
	if err != nil {
		return err
	}
	headerClass := record.ClassItemHeader
	rec, err := rf.GetRecord(0, &headerClass)
	if err != nil {
		return err
	}
	header := rec.Value.(*record.ItemHeaderRecord)

	node := g.Node(string(physical))
	if parentNode != nil {
		g.Edge(*parentNode, node)
	}
	if !header.Flags.IsProject() {
		return nil
	}

	proj, err := itemfile.OpenProject(db, physical, enc)
	if err != nil {
		return err
	}
	for _, child := range proj.State.Entries() {
		if err := buildGraph(db, enc, child.PhysicalName, g, &node); err != nil {
			return err
		}
	}
	return nil
}
