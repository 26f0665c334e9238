package promptctx

import (
	"os"
	"os/user"
)

// Account identifies the user the shell runs as.
type Account struct {
	Name string
	UID  string
	Home string
}

// Environment is the operating system as seen by the context.
type Environment interface {
	Getwd() (string, error)
	User() (Account, error)
	Hostname() (string, error)
	Getenv(key string) string
	Writable(path string) bool
	Exists(path string) bool
}

// OSEnvironment reads the real process environment.
type OSEnvironment struct{}

func (OSEnvironment) Getwd() (string, error) {
	if pwd := os.Getenv("PWD"); pwd != "" {
		if same(pwd, ".") {
			return pwd, nil
		}
	}
	return os.Getwd()
}

func (OSEnvironment) User() (Account, error) {
	u, err := user.Current()
	if err != nil {
		return Account{}, err
	}
	home := os.Getenv("HOME")
	if home == "" {
		home = u.HomeDir
	}
	return Account{Name: u.Username, UID: u.Uid, Home: home}, nil
}

func (OSEnvironment) Hostname() (string, error) { return os.Hostname() }

func (OSEnvironment) Getenv(key string) string { return os.Getenv(key) }

func (OSEnvironment) Writable(path string) bool { return writable(path) }

func (OSEnvironment) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// same reports whether a and b name the same file, so a stale $PWD is not
// trusted.
func same(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
