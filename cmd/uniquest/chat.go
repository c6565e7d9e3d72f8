package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uniquest/uniquest"
	bt "github.com/uniquest/uniquest/bubbletea"
	"github.com/uniquest/uniquest/fs"
)

func (a *app) chatCmd() *cobra.Command {
	var question string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat",
		Long: `Start an interactive chat. Type a question and press Enter; answers show
their sources and confidence. Inside the chat, /upload <file.pdf> uploads a
document and /docs lists your documents.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := a.controller()
			if question != "" {
				if _, err := ctrl.Submit(cmd.Context(), question); err != nil && !uniquest.IsRefusal(err) {
					return err
				}
			}
			m := bt.New(bt.Config{
				Controller: ctrl,
				Uploader:   a.uploader(),
				Library:    uniquest.NewLibrary(a.client, a.identity),
				ReadFile:   fs.Read,
				Theme:      uniquest.DefaultTheme(),
			})
			if err := bt.Run(cmd.Context(), m); err != nil {
				return fmt.Errorf("TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&question, "question", "q", "", "ask this question before opening the chat")
	return cmd
}
