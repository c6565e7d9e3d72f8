package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uniquest/uniquest"
)

type documentView struct {
	DocID         string `json:"doc_id" yaml:"doc_id"`
	Title         string `json:"title" yaml:"title"`
	Dept          string `json:"dept" yaml:"dept"`
	DocumentType  string `json:"document_type" yaml:"document_type"`
	Language      string `json:"language" yaml:"language"`
	EffectiveDate string `json:"effective_date" yaml:"effective_date"`
}

func (a *app) docsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"documents"},
		Short:   "List the documents you have uploaded",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			// Listing needs a user; a signed-out library is silently empty.
			if _, err := a.identity.CurrentUser(cmd.Context()); err != nil {
				return err
			}
			docs, err := uniquest.NewLibrary(a.client, a.identity).Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("list documents: %w", err)
			}

			if format != formatTable {
				views := make([]documentView, 0, len(docs))
				for _, d := range docs {
					views = append(views, documentView{
						DocID:         d.DocID,
						Title:         d.Title,
						Dept:          d.Dept,
						DocumentType:  d.DocumentType,
						Language:      d.Language,
						EffectiveDate: d.EffectiveDate,
					})
				}
				return writeStructured(a.stdout, format, views)
			}

			if len(docs) == 0 {
				fmt.Fprintln(a.stdout, "You have not uploaded any documents.")
				return nil
			}
			t := newTable("TITLE", "DEPT", "TYPE", "LANGUAGE", "EFFECTIVE")
			for _, d := range docs {
				t.add(d.Title, d.Dept, d.DocumentType, d.Language, d.EffectiveDate)
			}
			if err := t.render(a.stdout); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, mutedColor.Sprintf("%d document(s)", len(docs)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json, yaml")
	return cmd
}
