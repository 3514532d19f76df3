package migrations

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/suite"
)

type MigratorTestSuite struct {
	suite.Suite
	db *sql.DB
}

func TestMigratorSuite(t *testing.T) {
	suite.Run(t, new(MigratorTestSuite))
}

func (s *MigratorTestSuite) SetupTest() {
	db, err := sql.Open("sqlite3", filepath.Join(s.T().TempDir(), "test.db"))
	s.Require().NoError(err)
	s.db = db
}

func (s *MigratorTestSuite) TearDownTest() {
	s.db.Close()
}

func (s *MigratorTestSuite) TestEmbeddedMigrationsApplyOnce() {
	// Setup
	migrator := NewMigrator(s.db, Embedded())

	// Execute
	first, err := migrator.MigrateUp()
	s.Require().NoError(err)
	second, err := migrator.MigrateUp()
	s.Require().NoError(err)

	// Assert
	s.Equal(2, first, "Both embedded migrations should run")
	s.Equal(0, second, "Nothing should run twice")

	var count int
	s.NoError(s.db.QueryRow("SELECT COUNT(*) FROM round_results").Scan(&count))
	s.NoError(s.db.QueryRow("SELECT COUNT(*) FROM ledger_entries").Scan(&count))
}

func (s *MigratorTestSuite) TestLoadMigrationsSortsAndParses() {
	// Setup
	source := fstest.MapFS{
		"002_add_index.sql":   {Data: []byte("SELECT 1;")},
		"001_first_table.sql": {Data: []byte("SELECT 1;")},
		"README.md":           {Data: []byte("ignored")},
	}

	// Execute
	migrations, err := NewMigrator(s.db, source).LoadMigrations()

	// Assert
	s.Require().NoError(err)
	s.Require().Len(migrations, 2)
	s.Equal("001", migrations[0].Version)
	s.Equal("first table", migrations[0].Description)
	s.Equal("002", migrations[1].Version)
}

func (s *MigratorTestSuite) TestInvalidFilename() {
	source := fstest.MapFS{
		"nounderscore.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := NewMigrator(s.db, source).LoadMigrations()

	s.Error(err)
}

func (s *MigratorTestSuite) TestFailedMigrationRollsBack() {
	// Setup
	source := fstest.MapFS{
		"001_broken.sql": {Data: []byte("CREATE TABLE oops (")},
	}

	// Execute
	count, err := NewMigrator(s.db, source).MigrateUp()

	// Assert
	s.Error(err)
	s.Equal(0, count)
	var recorded int
	s.NoError(s.db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&recorded))
	s.Equal(0, recorded)
}

func (s *MigratorTestSuite) TestCreateMigration() {
	// Setup
	dir := s.T().TempDir()
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "001_existing.sql"), []byte("-- x"), 0644))

	// Execute
	path, err := CreateMigration(dir, "add player notes")

	// Assert
	s.Require().NoError(err)
	s.Equal(filepath.Join(dir, "002_add_player_notes.sql"), path)
	s.FileExists(path)
}
