package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nstake/nstake/internal/errors"
)

// ExportFormat is the encoding used by export and import.
type ExportFormat string

const (
	FormatYAML ExportFormat = "yaml"
	FormatJSON ExportFormat = "json"
)

// ParseExportFormat parses a --format value. Empty means YAML.
func ParseExportFormat(flag string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrInput,
		fmt.Sprintf("'%s' isn't a format nstake can export", flag),
		"Use --format yaml or --format json.")
}

// FormatForPath guesses the format from a file extension, defaulting to YAML.
func FormatForPath(path string) ExportFormat {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ParseIndex parses a staker index argument as shown by 'nstake list'.
func ParseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrInput,
			fmt.Sprintf("'%s' doesn't look like a staker index", arg),
			"Use the # column from 'nstake list', for example: nstake remove 0")
	}
	if i < 0 {
		return 0, errors.New(errors.ErrIndex,
			fmt.Sprintf("Index can't be negative (got %d)", i),
			"Use the # column from 'nstake list'.")
	}
	return i, nil
}
