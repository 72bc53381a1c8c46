package repo

import (
	"os"

	"github.com/odvcencio/twig/pkg/object"
)

// modeFromFileInfo maps a regular file's permission bits to a tree mode.
// Any execute bit selects the executable mode.
func modeFromFileInfo(info os.FileInfo) string {
	if info.Mode().Perm()&0o111 != 0 {
		return object.TreeModeExecutable
	}
	return object.TreeModeFile
}
