package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/arduhome/internal/config"
)

// ValidationError is one problem found in a configuration.
type ValidationError struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [configs...]",
		Short: "Validate configurations without generating code",
		Long: `Check configurations against the schema and verify that every id is
unique and every action targets a declared switch. Nothing is written.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{DefaultConfig}
			}
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, configs []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var all []ValidationError
	for _, path := range configs {
		formatter.VerboseLog("Validating %s", path)
		if _, err := config.Load(path); err != nil {
			errs := config.Errors(err)
			if len(configs) == 1 && (errs[0].Code == config.ErrCodeNotFound || errs[0].Code == config.ErrCodeReadFailed) {
				return formatter.Fail(ExitCommandError, errs[0].Code, errs[0].Message, nil)
			}
			for _, ve := range toValidationErrors(errs) {
				if ve.File == "" {
					ve.File = path
				}
				all = append(all, ve)
			}
		}
	}

	if len(all) > 0 {
		return outputValidationErrors(formatter, len(configs), all)
	}
	return outputValidateSuccess(formatter, len(configs))
}

func toValidationErrors(errs []*config.LoadError) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, e := range errs {
		ve := ValidationError{Code: e.Code, Message: e.Message}
		if e.Pos.IsValid() {
			ve.File = e.Pos.Filename()
			ve.Line = e.Pos.Line()
			ve.Column = e.Pos.Column()
		}
		out = append(out, ve)
	}
	return out
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, files int) error {
	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true, Files: files})
	}

	fmt.Fprintln(formatter.Writer, "✓ All configurations valid")
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, files int, errs []ValidationError) error {
	if formatter.JSON() {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Files:  files,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", err.File, err.Line, err.Column)
		} else {
			fmt.Fprintln(formatter.Writer, err.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
