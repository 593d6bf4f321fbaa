// Package uriutil converts between file:// URIs and file system paths.
package uriutil

import (
	"net/url"
	"path/filepath"
	"strings"
)

// PathToURI returns the file:// URI of path, made absolute first.
// Segments are percent-encoded and Windows drive paths gain a leading slash.
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String()
}

// URIToPath returns the file system path of a file:// URI. Other schemes
// and unparseable input yield "".
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return ""
	}

	path := u.Path
	if u.Host != "" && u.Host != "localhost" {
		// UNC share
		path = "//" + u.Host + path
	}
	if isDrivePath(path) {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}

// isDrivePath matches /C:/...
func isDrivePath(p string) bool {
	return len(p) >= 3 && p[0] == '/' && p[2] == ':' &&
		(p[1] >= 'a' && p[1] <= 'z' || p[1] >= 'A' && p[1] <= 'Z')
}
