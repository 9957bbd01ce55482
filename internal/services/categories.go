package services

import (
	"bufio"
	"os"
	"strings"

	"expenses/internal/core"
)

// LoadCategories reads one category per line; blank lines and # comments are
// skipped. A missing or empty file yields core.DefaultCategories.
func LoadCategories(path string) []string {
	if path == "" {
		return append([]string(nil), core.DefaultCategories...)
	}
	cats := readLines(path)
	if len(cats) == 0 {
		return append([]string(nil), core.DefaultCategories...)
	}
	return cats
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and repeats, preserving first-seen order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
