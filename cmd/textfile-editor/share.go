// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/textfile-editor/internal/share"
	"github.com/pdiddy/textfile-editor/internal/source"
)

// --- share subcommand ---

var shareCmd = &cobra.Command{
	Use:   "share [file]",
	Short: "Encode a document into a URL for the browser editor",
	Long: `Share compresses a document and prints a URL that opens it in the browser
editor. The content travels in the query string, so no server-side storage
is involved. File statistics go to stderr and the URL to stdout.

URLs longer than share.warn_length (2048 by default) may be cut off by some
browsers; a warning is printed when that limit is exceeded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShare,
}

func runShare(cmd *cobra.Command, args []string) error {
	baseURL, _ := cmd.Flags().GetString("base-url")
	extract, _ := cmd.Flags().GetBool("extract")
	name, _ := cmd.Flags().GetString("name")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if baseURL == "" {
		baseURL = cfg.Share.BaseURL
	}

	doc, err := loadInput(cmd, args)
	if err != nil {
		return err
	}
	content := doc.Content
	if extract {
		extractor, err := newExtractor(cmd, cfg)
		if err != nil {
			return err
		}
		if content, err = extractor.Transform(&doc.Content); err != nil {
			return err
		}
	}
	if name == "" {
		name = doc.Name
	}

	info, err := share.Describe(content)
	if err != nil {
		return err
	}
	link, err := share.BuildURL(baseURL, name, content)
	if err != nil {
		return err
	}

	errw := cmd.ErrOrStderr()
	fmt.Fprintf(errw, "File: %s\n", name)
	if doc.Latin1 {
		fmt.Fprintln(errw, "Encoding: latin-1")
	}
	fmt.Fprintf(errw, "Size: %s (%s bytes)\n", humanize.Bytes(uint64(info.Size)), humanize.Comma(int64(info.Size)))
	fmt.Fprintf(errw, "Lines: %s\n", humanize.Comma(int64(info.Lines)))
	fmt.Fprintf(errw, "Compressed: %s bytes (%.1f%% smaller)\n", humanize.Comma(int64(info.CompressedSize)), info.Ratio)
	fmt.Fprintf(errw, "URL length: %s\n", humanize.Comma(int64(len(link))))
	if cfg.Share.WarnLength > 0 && len(link) > cfg.Share.WarnLength {
		fmt.Fprintf(errw, "warning: URL is %d characters, longer than %d; some browsers may truncate it\n",
			len(link), cfg.Share.WarnLength)
	}

	fmt.Fprintln(cmd.OutOrStdout(), link)
	return nil
}

// --- open subcommand ---

var openCmd = &cobra.Command{
	Use:   "open <url>",
	Short: "Recover the document carried by a share URL",
	Long: `Open decodes a URL produced by share and prints the document it carries.
Use --extract to run extraction on the recovered text, and --output to
write it to a file; pass --output . to write into the current directory
under the shared file name.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	extract, _ := cmd.Flags().GetBool("extract")

	shared, err := share.Decode(args[0])
	if err != nil {
		return err
	}
	logger.Debug("decoded share URL", "filename", shared.Filename, "bytes", len(shared.Content))

	content := shared.Content
	if extract {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		extractor, err := newExtractor(cmd, cfg)
		if err != nil {
			return err
		}
		if content, err = extractor.Transform(&shared.Content); err != nil {
			return err
		}
	}

	if output == "." {
		if shared.Filename == "" {
			return fmt.Errorf("share URL has no filename; pass --output with a path")
		}
		output = filepath.Base(shared.Filename)
	}
	if output != "" {
		if err := source.Save(output, content); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%s)\n", output, humanize.Bytes(uint64(len(content))))
		return nil
	}
	return writeOutput(cmd, "", content)
}

func init() {
	shareCmd.Flags().String("base-url", "", "browser editor address (default from config)")
	shareCmd.Flags().Bool("extract", false, "share the extracted text instead of the original")
	shareCmd.Flags().String("name", "", "file name shown by the editor (default: input file name)")
	addModeFlag(shareCmd)

	openCmd.Flags().StringP("output", "o", "", `write the document to this file ("." uses the shared file name)`)
	openCmd.Flags().Bool("extract", false, "run extraction on the recovered text")
	addModeFlag(openCmd)

	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(openCmd)
}
