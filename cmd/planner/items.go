package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/tendant/content-planner/pkg/planner"
)

const titleColumnWidth = 48

var listFlags struct {
	userID   string
	platform string
	status   string
	query    string
	limit    int
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's content items",
	RunE:  runList,
}

var exportFlags struct {
	userID  string
	ids     []string
	output  string
	archive bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export content items as CSV",
	Long: `Export writes the CSV to stdout, to --output, or with --archive to the
configured blob store (STORAGE_URL).`,
	RunE: runExport,
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listFlags.userID, "user", "", "owner UUID")
	f.StringVarP(&listFlags.platform, "platform", "p", "", "filter by platform")
	f.StringVarP(&listFlags.status, "status", "s", "", "filter by status")
	f.StringVarP(&listFlags.query, "query", "q", "", "case-insensitive title/notes/tags search")
	f.IntVarP(&listFlags.limit, "limit", "n", 0, "maximum items to show")
	_ = listCmd.MarkFlagRequired("user")

	f = exportCmd.Flags()
	f.StringVar(&exportFlags.userID, "user", "", "owner UUID")
	f.StringSliceVar(&exportFlags.ids, "id", nil, "item UUIDs to export (default all)")
	f.StringVarP(&exportFlags.output, "output", "o", "", "write the CSV to a file")
	f.BoolVar(&exportFlags.archive, "archive", false, "store the CSV in the blob store")
	_ = exportCmd.MarkFlagRequired("user")
}

func runList(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(listFlags.userID)
	if err != nil {
		return fmt.Errorf("invalid --user %q: %w", listFlags.userID, err)
	}

	filter := planner.ItemFilter{Query: listFlags.query, Limit: listFlags.limit}
	if listFlags.platform != "" {
		platform, err := planner.ParsePlatform(listFlags.platform)
		if err != nil {
			return err
		}
		filter.Platform = &platform
	}
	if listFlags.status != "" {
		status, err := planner.ParseStatus(listFlags.status)
		if err != nil {
			return err
		}
		filter.Status = &status
	}

	return withService(cmd.Context(), func(svc planner.Service) error {
		items, err := svc.ListItems(cmd.Context(), planner.ListItemsRequest{UserID: userID, Filter: filter})
		if err != nil {
			return err
		}
		renderItems(cmd.OutOrStdout(), items)
		return nil
	})
}

func renderItems(w io.Writer, items []*planner.ContentItem) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: titleColumnWidth},
	})
	t.AppendHeader(table.Row{"ID", "Title", "Platform", "Status", "Tags", "Updated"})
	for _, item := range items {
		t.AppendRow(table.Row{
			item.ID,
			item.Title,
			item.Platform,
			item.Status,
			strings.Join(planner.ParseTags(planner.StringValue(item.Tags)), ", "),
			item.LastModified().Format("2006-01-02 15:04"),
		})
	}
	t.AppendFooter(table.Row{"Total", len(items)})
	t.Render()
}

func runExport(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(exportFlags.userID)
	if err != nil {
		return fmt.Errorf("invalid --user %q: %w", exportFlags.userID, err)
	}
	ids := make([]uuid.UUID, 0, len(exportFlags.ids))
	for _, raw := range exportFlags.ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid --id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}

	return withService(cmd.Context(), func(svc planner.Service) error {
		if exportFlags.archive {
			archive, err := svc.ArchiveExport(cmd.Context(), userID, ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %d rows to %s:%s\n", archive.Rows, archive.Backend, archive.Key)
			return nil
		}

		data, err := svc.ExportItems(cmd.Context(), userID, ids)
		if err != nil {
			return err
		}
		if exportFlags.output == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(exportFlags.output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportFlags.output, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", exportFlags.output)
		return nil
	})
}
