// Package vssdb implements the database layer (component design §4.7):
// root directory plus srcsafe.ini, physical-name-to-on-disk-path
// mapping, a record-file cache keyed by physical name, and delegation
// to the names-overflow file for long-name resolution.
package vssdb

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"

	"github.com/vsscue/vsscue/namefile"
	"github.com/vsscue/vsscue/recfile"
	"github.com/vsscue/vsscue/record"
)

// ErrFileNotFound mirrors the VssFileNotFound error kind: an expected
// on-disk file (data file, item file, names.dat) is missing.
var ErrFileNotFound = errors.New("vssdb: file not found")

// DefaultDataPath is used when srcsafe.ini has no Data_Path key.
const DefaultDataPath = "data"

// RootProjectPhysicalName is the conventional physical name of the
// database's root project, used unless overridden by the caller.
const RootProjectPhysicalName = record.PhysicalName("AAAAAAAA")

// Database is an opened VSS database rooted at RootPath.
type Database struct {
	RootPath string
	DataPath string
	Encoding encoding.Encoding
	opts     record.Options

	// IgnoreUnknown, when true, makes item-file readers skip
	// unrecognized record signatures instead of aborting the walk.
	IgnoreUnknown bool

	names *namefile.File

	recfiles map[record.PhysicalName]*recfile.File
}

// Open reads root/srcsafe.ini (if present; a missing file simply leaves
// DataPath at its default) and opens the names-overflow file.
func Open(root string, enc encoding.Encoding, opts record.Options) (*Database, error) {
	dataPath, err := readDataPath(filepath.Join(root, "srcsafe.ini"))
	if err != nil {
		return nil, err
	}
	db := &Database{
		RootPath: root,
		DataPath: dataPath,
		Encoding: enc,
		opts:     opts,
		recfiles: make(map[record.PhysicalName]*recfile.File),
	}
	names, err := namefile.Open(filepath.Join(root, dataPath, "names.dat"), enc, opts)
	if err != nil {
		return nil, err
	}
	db.names = names
	return db, nil
}

// readDataPath parses srcsafe.ini's trivial sectionless key=value
// format, per spec.md §6: whitespace-trimmed, '#' and ';' introduce
// line comments, only Data_Path is consumed.
func readDataPath(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDataPath, nil
		}
		return "", errors.Wrapf(err, "vssdb: reading %s", path)
	}
	defer f.Close()

	dataPath := DefaultDataPath
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if strings.EqualFold(key, "Data_Path") && value != "" {
			dataPath = value
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrapf(err, "vssdb: scanning %s", path)
	}
	return dataPath, nil
}

func stripComment(line string) string {
	if i := strings.IndexAny(line, "#;"); i >= 0 {
		return line[:i]
	}
	return line
}

// DataFilePath joins the database's Data_Path, the optional single
// letter bucket subdirectory (physical_name[0] lowercased), and
// physical_name, matching spec.md §4.7 data_path.
func (db *Database) DataFilePath(physical record.PhysicalName, bucket bool) string {
	if !bucket {
		return filepath.Join(db.RootPath, db.DataPath, string(physical))
	}
	return filepath.Join(db.RootPath, db.DataPath, physical.Bucket(), string(physical))
}

// OpenDataFile reads the content data file (item file's sibling, its
// extension letter alternating on each update) for physical into
// memory, or fails with ErrFileNotFound.
func (db *Database) OpenDataFile(physical record.PhysicalName, extension byte) ([]byte, error) {
	path := db.DataFilePath(physical, true) + "." + string(extension)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrFileNotFound, "%s: %v", path, err)
	}
	return data, nil
}

// OpenRecordsFile returns the cached record file for physical's item
// file, loading it from disk on first access. Item files have no
// extension and, by convention, sit in their bucket subdirectory.
func (db *Database) OpenRecordsFile(physical record.PhysicalName) (*recfile.File, error) {
	if rf, ok := db.recfiles[physical]; ok {
		return rf, nil
	}
	path := db.DataFilePath(physical, true)
	rf, err := recfile.Open(path, db.Encoding, db.opts)
	if err != nil {
		return nil, errors.Wrapf(ErrFileNotFound, "%s: %v", path, err)
	}
	db.recfiles[physical] = rf
	return rf, nil
}

// LongName delegates to the names-overflow file.
func (db *Database) LongName(n record.VssName) (string, error) {
	return db.names.LongName(n, record.NameKindLong)
}

// RootProjectName returns the physical name the database should open
// as its root project: override if non-empty, else the conventional
// default.
func (db *Database) RootProjectName(override record.PhysicalName) record.PhysicalName {
	if override != "" {
		return override
	}
	return RootProjectPhysicalName
}
