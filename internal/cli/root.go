// Package cli implements the passgen command line.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/service"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// Deps are the collaborators shared by every subcommand.
type Deps struct {
	In            io.Reader
	Out           io.Writer
	History       *service.HistoryService
	DefaultLength int
	Build         BuildInfo
}

func NewRootCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "passgen",
		Short:         "Generate passwords and keep a short history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(deps.In)
	cmd.SetOut(deps.Out)
	cmd.SetErr(deps.Out)

	cmd.AddCommand(newGenerateCommand(deps))
	cmd.AddCommand(newHistoryCommand(deps))
	cmd.AddCommand(newHashPassphraseCommand(deps))
	cmd.AddCommand(newVersionCommand(deps))
	return cmd
}

// Message renders err the way it should be shown to a person.
func Message(err error) string {
	switch {
	case errors.Is(err, crypto.ErrNoCharacterClassSelected):
		return "Please select at least one character type."
	case errors.Is(err, crypto.ErrInvalidLength):
		return "Password length must be a whole number of zero or more."
	default:
		return err.Error()
	}
}

func newVersionCommand(deps Deps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(deps.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(deps.Build)
			}

			_, err := fmt.Fprintf(deps.Out, "version=%s commit=%s build_time=%s\n",
				deps.Build.Version, deps.Build.Commit, deps.Build.BuildTime)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}
