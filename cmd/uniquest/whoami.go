package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type userView struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

func (a *app) whoamiCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			u, err := a.identity.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if format != formatTable {
				return writeStructured(a.stdout, format, userView{ID: u.ID, Name: u.Name, Email: u.Email})
			}
			t := newTable("ID", "NAME", "EMAIL")
			t.add(u.ID, u.Name, u.Email)
			if err := t.render(a.stdout); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, mutedColor.Sprintf("backend: %s", a.cfg.Backend.URL))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json, yaml")
	return cmd
}
