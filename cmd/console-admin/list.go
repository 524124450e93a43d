package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/mxc-foundation/lpwan-console/internal/listing"
	"github.com/mxc-foundation/lpwan-console/internal/table"
	"github.com/mxc-foundation/lpwan-console/internal/views"
)

const (
	formatText = "text"
	formatCSV  = "csv"
)

// scopeFlags selects the owner a view is listed under.
type scopeFlags struct {
	organizationID string
	applicationID  string
	devEUI         string
	deploymentID   string
}

func (f *scopeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.organizationID, "org", "", "Organization ID")
	cmd.Flags().StringVar(&f.applicationID, "app", "", "Application ID")
	cmd.Flags().StringVar(&f.devEUI, "device", "", "Device EUI")
	cmd.Flags().StringVar(&f.deploymentID, "deployment", "", "FUOTA deployment ID")
}

func (f *scopeFlags) scope() views.Scope {
	return views.Scope{
		OrganizationID: strings.TrimSpace(f.organizationID),
		ApplicationID:  strings.TrimSpace(f.applicationID),
		DevEUI:         strings.TrimSpace(f.devEUI),
		DeploymentID:   strings.TrimSpace(f.deploymentID),
	}
}

// bindView resolves name and binds it to the upstream selected by opts.
func bindView(opts *rootOptions, errOut io.Writer, name string, scope views.Scope, pageSize int) (views.Bound, error) {
	def, ok := views.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown view %q, run \"console-admin views\" for the list", name)
	}
	set, err := opts.stores(errOut)
	if err != nil {
		return nil, err
	}
	return def.Bind(set, scope, listing.Options{PageSize: pageSize, Logger: opts.logger})
}

func newViewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List the available views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(views.Names()))
			for _, name := range views.Names() {
				def, _ := views.Lookup(name)
				meta := def.Describe()
				owner := meta.Owner.String()
				switch {
				case meta.Owner == views.OwnerNone:
					owner = "-"
				case meta.OwnerRequired:
					owner += " (required)"
				}
				rows = append(rows, []string{name, meta.Title, owner})
			}
			return writeRows(out, []string{"VIEW", "TITLE", "OWNER"}, rows)
		},
	}
}

type listOptions struct {
	scope    scopeFlags
	page     int
	pageSize int
	search   string
	format   string
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var lo listOptions

	cmd := &cobra.Command{
		Use:   "list <view>",
		Short: "Print one page of a view",
		Long: `Print one page of a view as a text table or CSV.

Examples:
  # Third page of an organization's gateways
  console-admin list gateways --org 1 --page 3

  # Devices of an application matching "meter", as CSV
  console-admin list devices --app 4 --search meter --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], lo)
		},
	}

	lo.scope.register(cmd)
	cmd.Flags().IntVar(&lo.page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&lo.pageSize, "page-size", 0, "Rows per page (default: the view's page size)")
	cmd.Flags().StringVar(&lo.search, "search", "", "Search text forwarded to the API")
	cmd.Flags().StringVarP(&lo.format, "format", "o", formatText, "Output format: text or csv")

	return cmd
}

func runList(ctx context.Context, opts *rootOptions, out, errOut io.Writer, name string, lo listOptions) error {
	if lo.format != formatText && lo.format != formatCSV {
		return fmt.Errorf("unsupported format %q", lo.format)
	}
	bound, err := bindView(opts, errOut, name, lo.scope.scope(), lo.pageSize)
	if err != nil {
		return err
	}
	if lo.search != "" && !bound.Searchable() {
		_, _ = fmt.Fprintf(errOut, "note: %s does not filter by search text\n", name)
	}

	pageSize := lo.pageSize
	if pageSize <= 0 {
		pageSize = bound.Paging().PageSize
	}
	res := bound.Change(opts.authed(ctx), listing.ChangePagination, listing.TableChange{
		Page:       lo.page,
		PageSize:   pageSize,
		SearchText: lo.search,
	})
	if res.Err != nil {
		return res.Err
	}

	if lo.format == formatCSV {
		return table.WriteCSV(out, res.View)
	}
	return table.WriteText(out, res.View)
}

// writeRows prints a plain aligned table without a pager line.
func writeRows(w io.Writer, headers []string, rows [][]string) error {
	widths := table.ColumnWidths(headers, rows)
	var b strings.Builder
	line := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(cells)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		b.WriteByte('\n')
	}
	line(headers)
	for _, row := range rows {
		line(row)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
