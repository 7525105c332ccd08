package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a configured filesystem path such as store.path.
// $VAR and ${VAR} come from the environment, then a leading ~ or ~/ is
// replaced with the home directory. ~name is left alone.
//
// HOME, USER and XDG_DATA_HOME have fallbacks so that paths built on them
// resolve even in a bare service environment.
func ExpandPath(path string) string {
	return expandHome(os.Expand(path, lookupVar))
}

func lookupVar(name string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	switch name {
	case "HOME":
		home, _ := os.UserHomeDir()
		return home
	case "USER":
		if u, err := user.Current(); err == nil {
			return u.Username
		}
	case "XDG_DATA_HOME":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "share")
		}
	}
	return ""
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
