package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultpass/passgen-go/internal/crypto"
)

var errCountTooSmall = errors.New("count must be at least 1")

func newGenerateCommand(deps Deps) *cobra.Command {
	var (
		length  string
		count   int
		numbers bool
		letters bool
		symbols bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate passwords and add them to the history",
		Example: "  passgen generate\n" +
			"  passgen generate -l 16 --symbols=false\n" +
			"  passgen generate -l 10 --letters=false --symbols=false -c 3",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := crypto.GeneratorOptions{
				Numbers: numbers,
				Letters: letters,
				Symbols: symbols,
			}
			if opts.Charset() == "" {
				return crypto.ErrNoCharacterClassSelected
			}

			n, err := crypto.ParseLength(length)
			if err != nil {
				return err
			}
			if count < 1 {
				return errCountTooSmall
			}
			opts.Length = n

			for i := 0; i < count; i++ {
				password, err := crypto.Generate(opts)
				if err != nil {
					return err
				}
				deps.History.Record(cmd.Context(), password)
				if _, err := fmt.Fprintln(deps.Out, password); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&length, "length", "l", strconv.Itoa(deps.DefaultLength), "Password length")
	cmd.Flags().IntVarP(&count, "count", "c", 1, "Number of passwords to generate")
	cmd.Flags().BoolVar(&numbers, "numbers", true, "Include digits (0-9)")
	cmd.Flags().BoolVar(&letters, "letters", true, "Include letters (a-z, A-Z)")
	cmd.Flags().BoolVar(&symbols, "symbols", true, "Include special characters")
	return cmd
}

func newHistoryCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recently generated passwords, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := deps.History.Entries(cmd.Context())
			if len(entries) == 0 {
				_, err := fmt.Fprintln(deps.Out, "No passwords generated yet.")
				return err
			}
			for i, pw := range entries {
				if _, err := fmt.Fprintf(deps.Out, "%d. %s\n", i+1, pw); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newHashPassphraseCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-passphrase",
		Short: "Read a passphrase from stdin and print its OWNER_PASSPHRASE_HASH value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(deps.In).ReadString('\n')
			if err != nil && line == "" {
				return crypto.ErrEmptyPassphrase
			}

			hash, err := crypto.HashPassphrase(strings.TrimRight(line, "\r\n"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(deps.Out, hash)
			return err
		},
	}
}
