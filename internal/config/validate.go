package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nstake/nstake/internal/errors"
)

// MinPollBase is the shortest allowed poll interval at multiplier 1.
const MinPollBase = time.Second

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try running the command again.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but nstake only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade nstake or lower the version field.")
	}

	if err := validateStore(cfg.Store); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'store' section in your config.yaml.")
	}

	if err := validatePoll(cfg.Poll); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'poll' section in your config.yaml.")
	}

	if cfg.HTTP.Timeout < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("http.timeout can't be negative (got %s)", cfg.HTTP.Timeout),
			"Use 0s for no timeout, or something like 10s.")
	}

	return nil
}

func validateStore(s StoreConfig) error {
	if strings.TrimSpace(s.Path) == "" {
		return fmt.Errorf("store.path is empty - nstake needs somewhere to keep your stakers")
	}
	return nil
}

func validatePoll(p PollConfig) error {
	if p.Base < MinPollBase {
		return fmt.Errorf("poll.base %s is too short (minimum %s)", p.Base, MinPollBase)
	}
	if p.Multiplier < 1 {
		return fmt.Errorf("poll.multiplier must be at least 1 (got %d)", p.Multiplier)
	}
	return nil
}
