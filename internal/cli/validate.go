package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rwaldren/shuntyard/internal/layout"
)

// ValidationResult holds the outcome of a layout validation.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Layout  string `json:"layout"`
	Nodes   int    `json:"nodes,omitempty"`
	Bays    int    `json:"bays,omitempty"`
	Lines   int    `json:"lines,omitempty"`
	Sidings int    `json:"sidings,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <layout.cue>",
		Short: "Validate a yard layout file",
		Long: `Validate a CUE yard layout without starting a simulation.

Checks syntax, required fields, and structural consistency (node
references, entry/exit presence, duplicate siding numbers).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(path); err != nil {
		if outErr := formatter.Error("layout_not_found", "layout file not found: "+path, nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "layout file not found", err)
	}

	topo, err := layout.LoadFile(path)
	if err != nil {
		details := any(nil)
		var compileErr *layout.CompileError
		if errors.As(err, &compileErr) {
			details = map[string]any{"field": compileErr.Field}
		}
		if outErr := formatter.Error("layout_invalid", err.Error(), details); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "layout invalid", err)
	}

	result := ValidationResult{
		Valid:   true,
		Layout:  topo.Name,
		Nodes:   len(topo.Nodes),
		Bays:    len(topo.InspectionBays),
		Lines:   len(topo.Workshops),
		Sidings: len(topo.Sidings),
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	formatter.VerboseLog("Parsed %s", path)
	cmd.Printf("Layout %q is valid: %d nodes, %d inspection bays, %d workshop lines, %d sidings\n",
		result.Layout, result.Nodes, result.Bays, result.Lines, result.Sidings)
	return nil
}
