package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"blog/app/config"
	"blog/app/repositories"
	"blog/app/services"

	"go.uber.org/zap"
)

// Usage lists the commands HandleCommand understands.
const Usage = `Usage: blog <command> [options]

Commands:
  serve                Run the blog web server
  init                 Initialize a new empty database
  clean                Remove the database
  backup               Create a backup of the database
  restore <file>       Restore the database from a backup
  load <fixtures.yml>  Create authors, tags and posts from a YAML file
  version              Show version information
  help                 Display this help message
`

// HandleCommand runs a subcommand and returns its exit code.
func HandleCommand(args []string, cfg *config.Config, logger *zap.Logger) int {
	if len(args) < 1 {
		printHelp()
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := RunAppServer(ctx, cfg, logger); err != nil {
			logger.Error("server stopped", zap.Error(err))
			return 1
		}
		return 0
	case "clean":
		clean(cfg)
		return 0
	case "init":
		initDb(cfg)
		return 0
	case "backup":
		backup(cfg)
		return 0
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			return 1
		}
		return restore(cfg, args[1])
	case "load":
		if len(args) < 2 {
			fmt.Println("Error: fixtures file path required for load")
			return 1
		}
		return load(cfg, logger, args[1])
	case "help":
		printHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printHelp()
		return 1
	}
}

func printHelp() {
	fmt.Print(Usage)
}

// clean removes the database.
func clean(cfg *config.Config) {
	path := dbPath(cfg)
	if !exists(path) {
		fmt.Println("Database is already clean (does not exist)")
		return
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return
	}

	if err := os.RemoveAll(path); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return
	}
	fmt.Println("Database cleaned successfully")
}

// initDb initializes a new empty database.
func initDb(cfg *config.Config) {
	path := dbPath(cfg)
	if exists(path) {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return
	}

	repo, err := repositories.NewRepository(path)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return
	}
	defer repo.Close()

	fmt.Println("Database initialized successfully")
}

// backup writes a timestamped backup file and returns its path.
func backup(cfg *config.Config) string {
	path := dbPath(cfg)
	if !exists(path) {
		fmt.Println("No database exists to backup")
		return ""
	}

	dir := backupDir(cfg)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return ""
	}

	repo, err := repositories.NewRepository(path)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return ""
	}
	defer repo.Close()

	backupFile := filepath.Join(dir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return ""
	}
	defer f.Close()

	if err := repo.Backup(f); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return ""
	}

	fmt.Printf("Database backed up successfully to %s\n", backupFile)
	return backupFile
}

// restore replaces the database with the contents of a backup file.
func restore(cfg *config.Config, backupFile string) int {
	f, err := os.Open(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	path := dbPath(cfg)
	if exists(path) {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(path); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	repo, err := repositories.NewRepository(path)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer repo.Close()

	if err := repo.Load(f); err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}

// load creates the entities of a fixtures file in the database.
func load(cfg *config.Config, logger *zap.Logger, fixturesFile string) int {
	f, err := os.Open(fixturesFile)
	if err != nil {
		fmt.Printf("Failed to open fixtures file: %v\n", err)
		return 1
	}
	defer f.Close()

	repo, err := repositories.NewRepository(dbPath(cfg))
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer repo.Close()

	posts := services.NewPostService(repo.Posts, repo.Authors, repo.Tags)
	summary, err := LoadFixtures(f, posts)
	logger.Info("fixtures loaded",
		zap.String("file", fixturesFile),
		zap.Int("authors", summary.Authors),
		zap.Int("tags", summary.Tags),
		zap.Int("posts", summary.Posts))
	if err != nil {
		fmt.Printf("Failed to load fixtures: %v\n", err)
		return 1
	}

	fmt.Printf("Loaded %d authors, %d tags and %d posts\n", summary.Authors, summary.Tags, summary.Posts)
	return 0
}
