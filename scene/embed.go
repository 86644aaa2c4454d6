package scene

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scenes/*.yaml
var ScenesFS embed.FS

// DefaultScene is the embedded scene used when none is configured.
const DefaultScene = "cube.yaml"

// Dir is where on-disk copies of the embedded scenes live, relative to the
// repository root.
const Dir = "scene/scenes"

// Load reads a scene file. A path that exists on disk wins, then the copy
// under Dir, then the embedded copy.
func Load(name string) ([]byte, error) {
	if name == "" {
		name = DefaultScene
	}
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	clean := cleanScenePath(name)
	if data, err := os.ReadFile(diskScenePath(clean)); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile("scenes/" + clean)
}

// ModTime reports when the on-disk copy of a scene last changed. Embedded
// scenes report false.
func ModTime(name string) (time.Time, bool) {
	for _, path := range []string{name, diskScenePath(cleanScenePath(name))} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return info.ModTime(), true
		}
	}
	return time.Time{}, false
}

func cleanScenePath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "scene/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "scenes/"); ok {
		s = after
	}
	return s
}

func diskScenePath(clean string) string {
	return filepath.Join(filepath.FromSlash(Dir), filepath.FromSlash(clean))
}
