package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"estate-listing-be/pkg/richtext"
	"estate-listing-be/pkg/richtext/render"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "descfmt",
		Short:         "Inspect and convert listing description documents.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(
		validateCmd(),
		normalizeCmd(),
		renderCmd(),
		toMarkdownCmd(),
		fromMarkdownCmd(),
	)
	return cmd
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", name, err)
	}
	return data, nil
}

func readDocument(cmd *cobra.Command, name string) (richtext.Document, error) {
	data, err := readInput(cmd, name)
	if err != nil {
		return nil, err
	}
	return richtext.DeserializeBytes(data)
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|->...",
		Short: "Report whether each input is a well-formed description.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := color.New(color.FgGreen)
			bad := color.New(color.FgRed)
			failed := 0
			for _, name := range args {
				doc, err := readDocument(cmd, name)
				if err != nil {
					failed++
					bad.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, err)
					continue
				}
				ok.Fprintf(cmd.OutOrStdout(), "%s: valid (%d blocks, %d characters)\n",
					name, len(doc), len([]rune(richtext.PlainText(doc))))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d inputs are malformed", failed, len(args))
			}
			return nil
		},
	}
}

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <file|->",
		Short: "Print the normalized serialized form.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			out, err := richtext.Serialize(richtext.Normalize(doc))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func renderCmd() *cobra.Command {
	var locale string
	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render to the HTML shown on the public site.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if _, err := richtext.DeserializeBytes(data); err != nil {
				color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			html := render.New(render.WithLocale(locale)).Render(data)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
			return err
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "id", "language of the error notice (id|en)")
	return cmd
}

func toMarkdownCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "to-markdown <file|->",
		Short: "Export a description as markdown, or plain text with --plain.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			out := richtext.ToMarkdown(doc)
			if plain {
				out = richtext.PlainText(doc) + "\n"
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print plain text without formatting")
	return cmd
}

func fromMarkdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "from-markdown <file|->",
		Short: "Import markdown as a serialized description.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := richtext.FromMarkdown(string(data))
			if err != nil {
				return err
			}
			out, err := richtext.Serialize(doc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(out))
			return err
		},
	}
}
