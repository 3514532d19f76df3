package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/relancina/pkg/db/migrations"
)

const sqlDir = "pkg/db/migrations/sql"

func main() {
	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)

	migrationsDir := createCmd.String("dir", sqlDir, "Directory to store migrations")

	dbPath := migrateCmd.String("db", "data/relancina.db", "Path to SQLite database")
	migrateDir := migrateCmd.String("dir", "", "Directory containing migrations (default: the ones built into the binary)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create":
		createCmd.Parse(os.Args[2:])
		if createCmd.NArg() < 1 {
			fmt.Println("Error: Missing migration description")
			createCmd.Usage()
			os.Exit(1)
		}
		createNewMigration(*migrationsDir, createCmd.Arg(0))

	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		applyMigrations(*dbPath, *migrateDir)

	case "help":
		printUsage()

	default:
		fmt.Printf("Error: Unknown command '%s'\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/migration create DESCRIPTION  - Create a new migration")
	fmt.Println("  go run ./cmd/migration migrate             - Apply pending migrations")
	fmt.Println("  go run ./cmd/migration help                - Show this help")
	fmt.Println("\nExamples:")
	fmt.Println("  go run ./cmd/migration create \"add player notes\"")
	fmt.Println("  go run ./cmd/migration migrate -db data/relancina.db")
}

func createNewMigration(dir, description string) {
	filePath, err := migrations.CreateMigration(dir, description)
	if err != nil {
		log.Fatalf("Error creating migration: %v", err)
	}

	fmt.Printf("Created migration file: %s\n", filePath)
	fmt.Println("Edit this file to add your schema changes. Files in " + sqlDir + " are built into the server.")
}

func applyMigrations(dbPath, dir string) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Error creating database directory: %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	var source fs.FS = migrations.Embedded()
	if dir != "" {
		source = os.DirFS(dir)
	}

	applied, err := migrations.NewMigrator(db, source).MigrateUp()
	if err != nil {
		log.Fatalf("Error applying migrations: %v", err)
	}

	fmt.Printf("Applied %d migrations\n", applied)
}
