package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/probe/internal/suite"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <suite.yaml>",
		Short: "Check a suite file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := validateFilePath("suite", path); err != nil {
				return err
			}

			s, err := suite.Load(path)
			if err != nil {
				return err
			}
			if _, err := suite.Build(s); err != nil {
				return err
			}

			methods := 0
			for _, class := range s.Classes {
				methods += len(class.Methods)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "suite %q is valid: %d classes, %d methods\n", s.Name, len(s.Classes), methods)
			return nil
		},
	}

	return cmd
}
