package imgzip

import (
	"os"
	"path/filepath"
)

// CollectFiles expands paths into a flat list of regular files, preserving
// the order of the arguments. Directories are walked recursively in
// directory order. Entries that are neither regular files nor directories
// are skipped; symbolic links are followed. The first stat or read error
// aborts the walk.
func CollectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		if err := collect(path, &files); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func collect(path string, files *[]string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	switch {
	case info.Mode().IsRegular():
		*files = append(*files, path)
	case info.IsDir():
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := collect(filepath.Join(path, entry.Name()), files); err != nil {
				return err
			}
		}
	}
	return nil
}
