package runtime

import (
	"sort"
	"strings"
)

// listKeys applies prefix/delimiter listing to a flat key set. With a delimiter, keys
// that continue past the prefix with another delimiter collapse into a shared prefix.
func listKeys(keys []string, prefix, delimiter string) *ListResult {
	result := &ListResult{
		Keys:              make([]string, 0),
		DelimitedPrefixes: make([]string, 0),
	}
	seen := make(map[string]bool)
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if delimiter != "" {
			rest := key[len(prefix):]
			if i := strings.Index(rest, delimiter); i >= 0 {
				p := prefix + rest[:i+len(delimiter)]
				if !seen[p] {
					seen[p] = true
					result.DelimitedPrefixes = append(result.DelimitedPrefixes, p)
				}
				continue
			}
		}
		result.Keys = append(result.Keys, key)
	}
	sort.Strings(result.Keys)
	sort.Strings(result.DelimitedPrefixes)
	return result
}
