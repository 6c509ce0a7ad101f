// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/textfile-editor/internal/transform"
)

var padCmd = &cobra.Command{
	Use:   "pad [file]",
	Short: "Insert a blank line after every line",
	Long: `Pad doubles every line break so each line is followed by an empty one,
which makes dense logs easier to read. With no file, or "-", text is read
from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		doc, err := loadInput(cmd, args)
		if err != nil {
			return err
		}
		padded, err := transform.Pad(&doc.Content)
		if err != nil {
			return err
		}
		return writeOutput(cmd, output, padded)
	},
}

func init() {
	padCmd.Flags().StringP("output", "o", "", "write the result to this file instead of stdout")

	rootCmd.AddCommand(padCmd)
}
