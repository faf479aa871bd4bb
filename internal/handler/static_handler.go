package handler

import (
	"net/http"
	"path"
	"strings"
)

// StaticFiles serves uploaded images from a directory. Directory listings
// and dot files (including in-flight .upload-* temp files) are reported as
// not found.
type StaticFiles struct {
	root  http.Dir
	files http.Handler
}

func NewStaticFiles(root string) *StaticFiles {
	dir := http.Dir(root)
	return &StaticFiles{root: dir, files: http.FileServer(dir)}
}

func (s *StaticFiles) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(r.URL.Path, "/") || name == "/" || hasHiddenSegment(name) {
		http.NotFound(w, r)
		return
	}

	f, err := s.root.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	info, err := f.Stat()
	_ = f.Close()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	s.files.ServeHTTP(w, r)
}

func hasHiddenSegment(name string) bool {
	for _, segment := range strings.Split(name, "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
