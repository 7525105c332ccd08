package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nstake/nstake/internal/config"
	"github.com/nstake/nstake/internal/errors"
	"github.com/nstake/nstake/internal/ui"
)

// targetConfigPath is where config init and set write: --config, else the
// global path.
func targetConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if p := config.GlobalPath(); p != "" {
		return p, nil
	}
	return "", errors.New(errors.ErrConfig,
		"Can't work out where the config file goes",
		"Pass --config with a path")
}

// configInitCommand writes a default config file.
func configInitCommand(out io.Writer, explicit string, force bool) error {
	path, err := targetConfigPath(explicit)
	if err != nil {
		return err
	}
	if err := config.WriteDefault(path, force); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write the config file",
			"Use --force to overwrite an existing file")
	}

	if machineMode {
		return WriteJSONSuccess(out, map[string]string{"file": path})
	}
	fmt.Fprintf(out, "%s Wrote %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), path)
	return nil
}

// configSetCommand sets one key and checks the result still validates.
func configSetCommand(out io.Writer, explicit, key, value string) error {
	path, err := targetConfigPath(explicit)
	if err != nil {
		return err
	}
	if err := config.SetValue(path, key, value); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't set %s", key),
			"Keys are dotted paths like poll.multiplier")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		ui.PrintWarning(os.Stderr, fmt.Sprintf("%s was saved but the config no longer validates", key))
		return err
	}

	if machineMode {
		return WriteJSONSuccess(out, map[string]string{"file": path, "key": key, "value": value})
	}
	fmt.Fprintf(out, "%s Set %s = %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), key, value)
	return nil
}

// configShowCommand prints the resolved config and where it came from.
func configShowCommand(out io.Writer, explicit string) error {
	cfg, path, err := config.LoadOrDefault(explicit)
	if err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(out, map[string]interface{}{"file": path, "config": cfg})
	}

	source := path
	if source == "" {
		source = "defaults"
	}
	fmt.Fprint(out, ui.RenderKeyValues([][2]string{
		{"file", source},
		{"store.path", cfg.Store.Path},
		{"poll.base", cfg.Poll.Base.String()},
		{"poll.multiplier", strconv.Itoa(cfg.Poll.Multiplier)},
		{"http.timeout", cfg.HTTP.Timeout.String()},
		{"notifications.enabled", strconv.FormatBool(cfg.Notifications.Enabled)},
		{"lifecycle.honor_pause", strconv.FormatBool(cfg.Lifecycle.HonorPause)},
	}))
	return nil
}
