package promptctx

import (
	"path/filepath"
	"strings"
)

// AbbreviateHome shows home as "~" and paths below it as "~/rest". Other
// paths are returned unchanged. A home of "/" only abbreviates "/" itself.
func AbbreviateHome(path, home string) string {
	if home == "" {
		return path
	}
	home = filepath.Clean(home)
	if path == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}
	return path
}
