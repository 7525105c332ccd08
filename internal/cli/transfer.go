package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nstake/nstake/internal/errors"
	"github.com/nstake/nstake/internal/node"
	"github.com/nstake/nstake/internal/ui"
	"github.com/nstake/nstake/internal/util"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the schema version written by export.
const ExportVersion = 1

// ExportDocument is the file format of export and import. Only identity is
// carried; stats are refetched after import.
type ExportDocument struct {
	Version int           `yaml:"version" json:"version"`
	Stakers []ExportEntry `yaml:"stakers" json:"stakers"`
}

// ExportEntry is one exported staker.
type ExportEntry struct {
	ID   string `yaml:"id,omitempty" json:"id,omitempty"`
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// EncodeExport writes list as an export document.
func EncodeExport(w io.Writer, list []node.Staker, format ExportFormat) error {
	doc := ExportDocument{Version: ExportVersion, Stakers: make([]ExportEntry, len(list))}
	for i, s := range list {
		doc.Stakers[i] = ExportEntry{ID: s.ID, Name: s.Name, URL: s.URL}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
}

// DecodeExport parses an export document. JSON is valid YAML, so one
// decoder reads both formats.
func DecodeExport(data []byte) ([]node.Staker, error) {
	var doc ExportDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInput,
			"Couldn't parse the import file",
			"Import files come from 'nstake export' and are YAML or JSON")
	}
	if doc.Version > ExportVersion {
		return nil, errors.New(errors.ErrInput,
			fmt.Sprintf("Import file is version %d, but nstake only reads up to %d", doc.Version, ExportVersion),
			"Upgrade nstake to import this file")
	}

	list := make([]node.Staker, len(doc.Stakers))
	for i, e := range doc.Stakers {
		list[i] = node.Staker{ID: e.ID, Name: e.Name, URL: e.URL}
	}
	return list, nil
}

// exportCommand writes the staker list to stdout or a file.
func exportCommand(ctx context.Context, out io.Writer, formatFlag, output string) error {
	format := FormatForPath(output)
	if formatFlag != "" {
		f, err := ParseExportFormat(formatFlag)
		if err != nil {
			return err
		}
		format = f
	}

	sess, err := openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	list := sess.Monitor.Stakers()
	if output == "" {
		return EncodeExport(out, list, format)
	}

	f, err := os.Create(output)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrInput,
			"Can't create "+output,
			"Check the directory exists and is writable")
	}
	defer f.Close()

	if err := EncodeExport(f, list, format); err != nil {
		return errors.WrapWithCode(err, errors.ErrInput, "Failed to write "+output, "")
	}

	if machineMode {
		return WriteJSONSuccess(out, map[string]interface{}{"exported": len(list), "file": output})
	}
	fmt.Fprintf(out, "%s Exported %s to %s\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess), util.Stakers(len(list)), output)
	return nil
}

// importCommand appends the stakers in path to the list and waits up to
// wait for their first reports.
func importCommand(ctx context.Context, out io.Writer, path string, wait time.Duration) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrInput,
			"Can't read "+path,
			"Check the path is correct")
	}

	entries, err := DecodeExport(data)
	if err != nil {
		return err
	}

	sess, err := openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	n, err := sess.Monitor.Import(ctx, entries)
	if err != nil {
		return err
	}
	if err := awaitFirstFetch(ctx, sess.Monitor, wait); err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(out, map[string]interface{}{"imported": n, "total": sess.Monitor.Len()})
	}
	fmt.Fprintf(out, "%s Imported %s (%d total)\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess), util.Stakers(n), sess.Monitor.Len())
	return nil
}
