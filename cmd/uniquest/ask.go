package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/uniquest/uniquest"
	"github.com/uniquest/uniquest/goldmark"
)

func (a *app) askCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:     "ask <question>",
		Short:   "Ask a single question",
		Example: `  $ uniquest ask "What scholarships are available for first-year students?"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.controller().Submit(cmd.Context(), strings.Join(args, " "))
			switch {
			case errors.Is(err, uniquest.ErrValidation):
				return errors.New("question is empty")
			case err != nil:
				return err
			}
			if msg.Failed {
				return errors.New(msg.Content)
			}
			return writeAnswer(a.stdout, msg, width)
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", goldmark.DefaultWidth, "wrap the answer at this many columns")
	return cmd
}

// writeAnswer prints a rendered answer followed by its confidence and
// sources.
func writeAnswer(w io.Writer, msg uniquest.AssistantMessage, width int) error {
	var b strings.Builder
	b.WriteString(goldmark.Render(msg.Content, width, uniquest.DefaultTheme()))
	b.WriteString("\n")
	if msg.Confidence != nil {
		b.WriteString("\n")
		b.WriteString(mutedColor.Sprintf("Confidence: %.0f%%", *msg.Confidence*100))
		b.WriteString("\n")
	}
	if len(msg.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(boldColor.Sprint("SOURCES:"))
		b.WriteString("\n")
		for _, s := range msg.Sources {
			title := s.Title
			if title == "" {
				title = s.DocID
			}
			fmt.Fprintf(&b, "  • %s %s\n", cell(title), mutedColor.Sprintf("%.2f", s.Score))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
