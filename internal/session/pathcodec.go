package session

import (
	"os"
	"path/filepath"
	"strings"
)

// Claude Code stores each project's sessions under a directory whose name is
// the project path with "/" and "." replaced by "-", e.g.
// /home/ilya.levin/dev/devops -> -home-ilya-levin-dev-devops.
// The transform is lossy: a "-" in the directory name may have been a path
// separator, a dot, or a literal hyphen. Decoding probes the filesystem to
// pick the most plausible reconstruction and flags the rest as ambiguous.

// EncodeProjectPath applies the forward rule.
func EncodeProjectPath(path string) string {
	return strings.NewReplacer("/", "-", ".", "-", "\\", "-").Replace(path)
}

// DecodeProjectDir is the best-effort inverse of EncodeProjectPath.
// ambiguous is true when any component was guessed without filesystem
// confirmation.
func DecodeProjectDir(name string) (path string, ambiguous bool) {
	return decodeProjectDir(name, func(p string) bool {
		_, err := os.Stat(p)
		return err == nil
	})
}

// maxJoin bounds how many consecutive segments are tried as one dotted or
// hyphenated component (usernames like "ilya.levin", dirs like
// "flex-host-agent").
const maxJoin = 5

func decodeProjectDir(name string, exists func(string) bool) (string, bool) {
	name = strings.TrimPrefix(name, "-")
	if name == "" {
		return "/", false
	}

	parts := strings.Split(name, "-")
	current := "/"
	ambiguous := false

	for i := 0; i < len(parts); {
		if p := filepath.Join(current, parts[i]); exists(p) {
			current = p
			i++
			continue
		}

		found := false
		for j := i + 1; j <= len(parts) && j <= i+maxJoin; j++ {
			dotted := filepath.Join(current, strings.Join(parts[i:j], "."))
			if exists(dotted) {
				current = dotted
				i = j
				found = true
				break
			}
			dashed := filepath.Join(current, strings.Join(parts[i:j], "-"))
			if exists(dashed) {
				current = dashed
				i = j
				found = true
				break
			}
		}
		if found {
			continue
		}

		// Nothing on disk matches; take the segment as-is. The result may
		// mis-resolve, so the record carries the ambiguity flag.
		current = filepath.Join(current, parts[i])
		i++
		ambiguous = true
	}

	return current, ambiguous
}
