package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// maxOutputCandidates bounds the free-name search so a pathological
// directory cannot make Start spin forever.
const maxOutputCandidates = 10000

// ResolveOutputPath builds the absolute output path for a recording and
// guarantees it does not collide with an existing file. A base name with a
// trailing integer is incremented ("take1" -> "take2"); otherwise a numeric
// suffix is appended ("jam" -> "jam-1").
func ResolveOutputPath(dir, name, ext string) (string, error) {
	candidate := filepath.Join(dir, name+"."+ext)
	if !fileExists(candidate) {
		return candidate, nil
	}

	stem, next, found := splitTrailingInt(name)
	if found {
		next++
	} else {
		stem = name + "-"
		next = 1
	}

	for i := next; i < next+maxOutputCandidates; i++ {
		candidate = filepath.Join(dir, stem+strconv.Itoa(i)+"."+ext)
		if !fileExists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no free output name for %q in %s", name, dir)
}

// splitTrailingInt splits "take12" into ("take", 12, true). Names without a
// trailing integer report found=false.
func splitTrailingInt(name string) (stem string, n int, found bool) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return name, 0, false
	}

	n, err := strconv.Atoi(name[i:])
	if err != nil {
		// Digit run too long to fit an int; treat as no suffix.
		return name, 0, false
	}
	return name[:i], n, true
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
