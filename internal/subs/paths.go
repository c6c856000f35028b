package subs

import (
	"path/filepath"
	"strings"

	"subedit/internal/ass"
	"subedit/internal/fileutil"
)

const pathSeparator = "|"

// RememberedVideoPaths returns the video files associated with the
// document. Relative entries are resolved against the document directory.
func (a *API) RememberedVideoPaths() []string {
	return a.rememberedPaths(ass.MetaVideoFile)
}

// RememberedAudioPaths returns the audio files associated with the document.
func (a *API) RememberedAudioPaths() []string {
	return a.rememberedPaths(ass.MetaAudioFile)
}

// RememberVideoPath associates path with the document unless an entry
// already names the same file.
func (a *API) RememberVideoPath(path string) bool {
	return a.rememberPath(ass.MetaVideoFile, path)
}

// RememberAudioPath associates path with the document unless an entry
// already names the same file.
func (a *API) RememberAudioPath(path string) bool {
	return a.rememberPath(ass.MetaAudioFile, path)
}

func (a *API) rememberedPaths(key string) []string {
	raw, _ := a.file.Meta.Get(key)
	var out []string
	for _, segment := range strings.Split(raw, pathSeparator) {
		if segment == "" {
			continue
		}
		out = append(out, a.resolve(segment))
	}
	return out
}

func (a *API) rememberPath(key, path string) bool {
	paths := a.rememberedPaths(key)
	for _, existing := range paths {
		if fileutil.SameFile(existing, path) {
			return false
		}
	}
	paths = append(paths, path)
	stored := make([]string, len(paths))
	for i, p := range paths {
		stored[i] = a.relativize(p)
	}
	a.file.Meta.Set(key, strings.Join(stored, pathSeparator))
	return true
}

func (a *API) resolve(segment string) string {
	if a.path == "" || filepath.IsAbs(segment) {
		return segment
	}
	return filepath.Join(filepath.Dir(a.path), segment)
}

// relativize stores paths below the document directory relative to it.
func (a *API) relativize(path string) string {
	if a.path == "" {
		return path
	}
	docDir, err := filepath.Abs(filepath.Dir(a.path))
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(docDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
