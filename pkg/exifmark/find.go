package exifmark

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// isJPEG reports whether path has a JPEG file extension.
func isJPEG(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// Find returns every JPEG beneath root along with its metadata.
func Find(root string, r MetadataReader) ([]*Photo, error) {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoInput
		}
		return nil, fmt.Errorf("stat: %w", err)
	}

	found := []*Photo{}
	clean := filepath.Clean(root)

	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != clean && strings.HasPrefix(filepath.Base(path), ".") {
				klog.V(1).Infof("skipping hidden %s", path)
				return godirwalk.SkipThis
			}

			if de.IsDir() || !isJPEG(path) {
				return nil
			}

			klog.V(1).Infof("found %s", path)
			t, err := r.Read(path)
			if err != nil {
				klog.Errorf("read failure: %v", err)
				return fmt.Errorf("read %s: %w", path, err)
			}

			p := &Photo{InPath: path, Tags: t}
			p.RelPath, err = filepath.Rel(root, path)
			if err != nil {
				return err
			}

			fi, err := os.Stat(path)
			if err != nil {
				klog.Errorf("stat failure: %v", err)
				return err
			}
			p.ModTime = fi.ModTime()

			found = append(found, p)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].RelPath < found[j].RelPath
	})
	return found, nil
}
