package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blog/app/config"
)

// dbPath is where the Badger database lives under the data directory.
func dbPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "badger")
}

func backupDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "backups")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// confirm asks a yes/no question on stdin. Anything but y or Y is a no.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	var response string
	fmt.Scanln(&response)
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}
