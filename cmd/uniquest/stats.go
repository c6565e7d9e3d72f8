package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/uniquest/uniquest"
)

const (
	dashboardFailedTitle  = "Failed to Load Dashboard Data"
	dashboardFailedDetail = "There was a problem connecting to the backend service. Please ensure it's running and try again later."
)

type overviewView struct {
	TotalDocuments        int            `json:"total_documents" yaml:"total_documents"`
	TotalUsers            int            `json:"total_users" yaml:"total_users"`
	TotalSessions         int            `json:"total_sessions" yaml:"total_sessions"`
	TotalTickets          int            `json:"total_tickets" yaml:"total_tickets"`
	DocumentsByType       map[string]int `json:"documents_by_type" yaml:"documents_by_type"`
	DocumentsByDepartment map[string]int `json:"documents_by_department" yaml:"documents_by_department"`
	UsersByChannel        map[string]int `json:"users_by_channel" yaml:"users_by_channel"`
}

func (a *app) statsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"dashboard"},
		Short:   "Show the analytics overview",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ov, err := uniquest.NewDashboard(a.client, a.identity).Load(cmd.Context())
			if err != nil {
				fmt.Fprintln(a.stderr, failureBanner(dashboardFailedTitle, dashboardFailedDetail))
				return fmt.Errorf("load dashboard: %w", err)
			}

			if format != formatTable {
				return writeStructured(a.stdout, format, overviewView{
					TotalDocuments:        ov.TotalDocuments,
					TotalUsers:            ov.TotalUsers,
					TotalSessions:         ov.TotalSessions,
					TotalTickets:          ov.TotalTickets,
					DocumentsByType:       ov.DocumentsByType,
					DocumentsByDepartment: ov.DocumentsByDepartment,
					UsersByChannel:        ov.UsersByChannel,
				})
			}

			name := "User"
			if u, err := a.identity.CurrentUser(cmd.Context()); err == nil {
				if first, _, _ := strings.Cut(strings.TrimSpace(u.Name), " "); first != "" {
					name = first
				}
			}
			boldColor.Fprintf(a.stdout, "Welcome back, %s!\n\n", name)
			return writeOverview(a.stdout, ov)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json, yaml")
	return cmd
}

func writeOverview(w io.Writer, ov *uniquest.Overview) error {
	totals := newTable("METRIC", "VALUE")
	totals.add("Total Documents", strconv.Itoa(ov.TotalDocuments))
	totals.add("Total Users", strconv.Itoa(ov.TotalUsers))
	totals.add("Total Sessions", strconv.Itoa(ov.TotalSessions))
	totals.add("Support Tickets", strconv.Itoa(ov.TotalTickets))
	if err := totals.render(w); err != nil {
		return err
	}

	breakdowns := []struct {
		title  string
		counts map[string]int
	}{
		{"Documents by Department", ov.DocumentsByDepartment},
		{"Documents by Type", ov.DocumentsByType},
		{"Users by Channel", ov.UsersByChannel},
	}
	for _, b := range breakdowns {
		if len(b.counts) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", boldColor.Sprint(b.title))
		t := newTable("NAME", "COUNT")
		for _, bucket := range uniquest.Buckets(b.counts) {
			t.add(bucket.Name, strconv.Itoa(bucket.Count))
		}
		if err := t.render(w); err != nil {
			return err
		}
	}
	return nil
}
