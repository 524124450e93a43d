package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	"github.com/mxc-foundation/lpwan-console/internal/listing"
	"github.com/mxc-foundation/lpwan-console/internal/table"
	"github.com/mxc-foundation/lpwan-console/internal/views"
)

const minTableHeight = 3

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	tableStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

type browseKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Search key.Binding
	Reload key.Binding
	Quit   key.Binding
	Apply  key.Binding
	Cancel key.Binding
}

func defaultBrowseKeys() browseKeys {
	return browseKeys{
		Next:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next page")),
		Prev:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "prev page")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Apply:  key.NewBinding(key.WithKeys("enter")),
		Cancel: key.NewBinding(key.WithKeys("esc")),
	}
}

func (k browseKeys) help(searchable bool) string {
	bindings := []key.Binding{k.Next, k.Prev}
	if searchable {
		bindings = append(bindings, k.Search)
	}
	bindings = append(bindings, k.Reload, k.Quit)
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return strings.Join(parts, " • ")
}

// fetchedMsg carries the result of one fetch back to the event loop.
type fetchedMsg struct {
	res views.Result
}

// browseModel is an interactive pager over one bound view. Fetches run as
// commands; a response superseded by a newer fetch arrives as stale and is
// dropped.
type browseModel struct {
	ctx      context.Context
	bound    views.Bound
	pageSize int
	keys     browseKeys

	table     btable.Model
	search    textinput.Model
	searching bool
	loading   bool
	view      table.View
	err       error
	columns   int
}

func newBrowseModel(ctx context.Context, bound views.Bound, pageSize int) browseModel {
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	search := textinput.New()
	search.Prompt = "search: "
	search.Placeholder = "text forwarded to the API"

	return browseModel{
		ctx:      ctx,
		bound:    bound,
		pageSize: pageSize,
		keys:     defaultBrowseKeys(),
		table: btable.New(
			btable.WithFocused(true),
			btable.WithHeight(pageSize),
		),
		search:  search,
		loading: true,
	}
}

func (m browseModel) Init() tea.Cmd {
	bound, ctx := m.bound, m.ctx
	return func() tea.Msg { return fetchedMsg{res: bound.Mount(ctx)} }
}

func (m browseModel) change(kind listing.ChangeType, change listing.TableChange) tea.Cmd {
	bound, ctx := m.bound, m.ctx
	return func() tea.Msg { return fetchedMsg{res: bound.Change(ctx, kind, change)} }
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-7, minTableHeight))
		return m, nil
	case fetchedMsg:
		if msg.res.Stale {
			return m, nil
		}
		m.loading = false
		m.err = msg.res.Err
		m.apply(msg.res.View)
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Apply):
		m.searching = false
		m.search.Blur()
		m.loading = true
		return m, m.change(listing.ChangeSearch, listing.TableChange{
			PageSize:   m.pageSize,
			SearchText: m.search.Value(),
		})
	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.bound.Paging().SearchText)
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m browseModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pager := m.view.Pager
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		if !pager.HasNext {
			return m, nil
		}
		m.loading = true
		return m, m.change(listing.ChangePagination, listing.TableChange{Page: pager.NextPage(), PageSize: m.pageSize})
	case key.Matches(msg, m.keys.Prev):
		if !pager.HasPrev {
			return m, nil
		}
		m.loading = true
		return m, m.change(listing.ChangePagination, listing.TableChange{Page: pager.PrevPage(), PageSize: m.pageSize})
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.change(listing.ChangePagination, listing.TableChange{Page: m.bound.Paging().Page, PageSize: m.pageSize})
	case key.Matches(msg, m.keys.Search):
		if !m.bound.Searchable() {
			return m, nil
		}
		m.searching = true
		return m, m.search.Focus()
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// apply replaces the table contents with v. Columns are set once; every
// view keeps the same column set for its lifetime.
func (m *browseModel) apply(v table.View) {
	m.view = v
	headers := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		headers[i] = h.Label
	}
	rows := make([][]string, len(v.Rows))
	for r, row := range v.Rows {
		rows[r] = make([]string, len(row))
		for i, cell := range row {
			rows[r][i] = strings.Join(strings.Fields(cell.Text), " ")
		}
	}

	if m.columns != len(headers) {
		m.table.SetRows(nil)
		widths := table.ColumnWidths(headers, rows)
		cols := make([]btable.Column, len(headers))
		for i, h := range headers {
			cols[i] = btable.Column{Title: h, Width: widths[i]}
		}
		m.table.SetColumns(cols)
		m.columns = len(headers)
	}

	tableRows := make([]btable.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = btable.Row(row)
	}
	m.table.SetRows(tableRows)
	m.table.GotoTop()
}

func (m browseModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.bound.Meta().Title))
	if s := m.bound.Paging().SearchText; s != "" {
		b.WriteString(statusStyle.Render(fmt.Sprintf("matching %q", s)))
	}
	b.WriteByte('\n')
	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteByte('\n')

	switch {
	case m.loading:
		b.WriteString(statusStyle.Render("loading…"))
	default:
		b.WriteString(statusStyle.Render(table.PagerSummary(m.view.Pager)))
	}
	b.WriteByte('\n')
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteByte('\n')
	}
	if m.searching {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(statusStyle.Render(m.keys.help(m.bound.Searchable())))
	}
	b.WriteByte('\n')
	return b.String()
}

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var (
		scope    scopeFlags
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "browse <view>",
		Short: "Page through a view interactively",
		Long: `Open a view in a terminal table. Use n and p to change page,
/ to search and q to quit.

Examples:
  console-admin browse gateways --org 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bound, err := bindView(opts, cmd.ErrOrStderr(), args[0], scope.scope(), pageSize)
			if err != nil {
				return err
			}
			if pageSize <= 0 {
				pageSize = bound.Paging().PageSize
			}
			ctx := opts.authed(cmd.Context())
			program := tea.NewProgram(newBrowseModel(ctx, bound, pageSize),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = program.Run()
			return err
		},
	}

	scope.register(cmd)
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (default: the view's page size)")

	return cmd
}
