package engine

import (
	"os"
	"sort"
	"strings"
)

// ListArtifacts returns the set of file names in dir carrying the given
// extension. A missing directory yields an empty set: the engine creates it
// on first ingestion.
func ListArtifacts(dir, ext string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, err
	}
	out := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ext) {
			out[e.Name()] = struct{}{}
		}
	}
	return out, nil
}

// DiffArtifacts returns the names present in after but not in before,
// sorted. It identifies the artifacts one ingestion job produced in the
// shared chunks directory.
func DiffArtifacts(before, after map[string]struct{}) []string {
	var out []string
	for name := range after {
		if _, ok := before[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
