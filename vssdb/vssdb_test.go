package vssdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vsscue/vsscue/record"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestReadDataPathDefaultsWhenIniMissing(t *testing.T) {
	dir := t.TempDir()
	got, err := readDataPath(filepath.Join(dir, "srcsafe.ini"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultDataPath, got)
}

func TestReadDataPathParsesKeyValueWithComments(t *testing.T) {
	dir := t.TempDir()
	ini := "; a comment line\nData_Path = mydata  # trailing comment\nUnused_Key=ignored\n"
	writeFile(t, filepath.Join(dir, "srcsafe.ini"), []byte(ini))
	got, err := readDataPath(filepath.Join(dir, "srcsafe.ini"))
	assert.NoError(t, err)
	assert.Equal(t, "mydata", got)
}

func TestDataFilePathAppliesBucket(t *testing.T) {
	db := &Database{RootPath: "/root", DataPath: "data"}
	path := db.DataFilePath(record.PhysicalName("AAAAAAAA"), true)
	assert.Equal(t, filepath.Join("/root", "data", "a", "AAAAAAAA"), path)
}

func TestDataFilePathNoBucket(t *testing.T) {
	db := &Database{RootPath: "/root", DataPath: "data"}
	path := db.DataFilePath(record.PhysicalName("names.dat"), false)
	assert.Equal(t, filepath.Join("/root", "data", "names.dat"), path)
}

func TestOpenDataFileMissingFailsWithFileNotFound(t *testing.T) {
	dir := t.TempDir()
	db := &Database{RootPath: dir, DataPath: "data"}
	_, err := db.OpenDataFile(record.PhysicalName("AAAAAAAA"), 'A')
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestRootProjectNameDefaultsToConventionalName(t *testing.T) {
	db := &Database{}
	assert.Equal(t, RootProjectPhysicalName, db.RootProjectName(""))
	assert.Equal(t, record.PhysicalName("BBBBBBBB"), db.RootProjectName("BBBBBBBB"))
}
