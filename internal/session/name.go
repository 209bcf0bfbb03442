package session

import (
	"fmt"
	"os"
	"regexp"

	"github.com/matheus3301/weibo/internal/config"
)

// DefaultSessionName is used when nothing else names a session.
const DefaultSessionName = "main"

// EnvSession names the session when no flag is given.
const EnvSession = "WEIBO_SESSION"

var nameRegexp = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidateName checks that name is usable as a directory and socket name.
func ValidateName(name string) error {
	if !nameRegexp.MatchString(name) {
		return fmt.Errorf("invalid session name %q: use 1-64 of a-z, 0-9, '_' and '-'", name)
	}
	return nil
}

// Resolve picks the active session: the flag, then $WEIBO_SESSION, then
// default_session from config.toml, then "main". The result is validated.
func Resolve(flagOverride string) (string, error) {
	name := flagOverride
	if name == "" {
		name = os.Getenv(EnvSession)
	}
	if name == "" {
		if cfg, err := config.Load(ConfigPath()); err == nil {
			name = cfg.DefaultSession
		}
	}
	if name == "" {
		name = DefaultSessionName
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}
