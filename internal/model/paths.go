package model

import (
	"os"
	"path/filepath"
)

// HomeDirName is the per-user directory holding config, cache and state
const HomeDirName = ".degreeplan"

func defaultDir(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(HomeDirName, name)
	}
	return filepath.Join(home, HomeDirName, name)
}
