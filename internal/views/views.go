// Package views defines the console's list views: which store feeds each one,
// how its rows are scoped and which columns it shows. The HTTP handlers and the
// operator CLI share these definitions.
package views

import (
	"context"
	"fmt"
	"sort"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	"github.com/mxc-foundation/lpwan-console/internal/listing"
	"github.com/mxc-foundation/lpwan-console/internal/store"
	"github.com/mxc-foundation/lpwan-console/internal/table"
)

// Owner is the kind of entity a list is scoped to.
type Owner int

const (
	OwnerNone Owner = iota
	OwnerOrganization
	OwnerApplication
	OwnerDevice
	OwnerDeployment
)

func (o Owner) String() string {
	switch o {
	case OwnerOrganization:
		return "organization"
	case OwnerApplication:
		return "application"
	case OwnerDevice:
		return "device"
	case OwnerDeployment:
		return "deployment"
	default:
		return "none"
	}
}

// Scope carries the path identifiers of the page a list is shown on.
type Scope struct {
	OrganizationID string
	ApplicationID  string
	DevEUI         string
	DeploymentID   string
}

// OwnerID returns the identifier the list of kind o is scoped by.
func (s Scope) OwnerID(o Owner) string {
	switch o {
	case OwnerOrganization:
		return s.OrganizationID
	case OwnerApplication:
		return s.ApplicationID
	case OwnerDevice:
		return s.DevEUI
	case OwnerDeployment:
		return s.DeploymentID
	default:
		return ""
	}
}

// Meta describes a view independent of its row type.
type Meta struct {
	// Name identifies the view in URLs, logs, metrics and the CLI.
	Name  string
	Title string
	Owner Owner
	// OwnerRequired rejects the view when the scope lacks its owner.
	OwnerRequired bool
	// KeyField names the column that identifies a row.
	KeyField string
	// InitialLimit replaces the page size for views that show every row at
	// once; see model.MaxDataLimit.
	InitialLimit int
}

// Entity binds a row type to its store source and columns.
type Entity[T any] struct {
	Meta
	Source  func(*store.Set) store.Source[T]
	Columns func(Scope) table.ColumnSet[T]
}

// Describe returns the view metadata.
func (e Entity[T]) Describe() Meta { return e.Meta }

// CheckScope fails when the view needs an owner the scope does not carry.
func (e Entity[T]) CheckScope(scope Scope) error {
	if e.OwnerRequired && scope.OwnerID(e.Owner) == "" {
		return fmt.Errorf("%s view requires %s id", e.Name, e.Owner)
	}
	return nil
}

// NewController creates a controller fetching this view from set within scope.
// opts.Name, OwnerID and InitialLimit are taken from the view.
func (e Entity[T]) NewController(set *store.Set, scope Scope, opts listing.Options) *listing.Controller[T] {
	opts.Name = e.Name
	opts.OwnerID = scope.OwnerID(e.Owner)
	opts.InitialLimit = e.InitialLimit
	return listing.New(e.Source(set).List, opts)
}

// Searchable reports whether the view's endpoint filters by search text.
func (e Entity[T]) Searchable(set *store.Set) bool { return e.Source(set).Search }

// Render turns a controller snapshot into a table view.
func (e Entity[T]) Render(snap listing.Snapshot[T], scope Scope) table.View {
	return table.Render(snap.Page.Rows, e.Columns(scope), snap.Paging, snap.Page.TotalCount)
}

// Bind returns a type-erased list bound to set and scope.
func (e Entity[T]) Bind(set *store.Set, scope Scope, opts listing.Options) (Bound, error) {
	if err := e.CheckScope(scope); err != nil {
		return nil, err
	}
	return &boundEntity[T]{
		entity:     e,
		scope:      scope,
		ctrl:       e.NewController(set, scope, opts),
		searchable: e.Searchable(set),
	}, nil
}

// Result is the rendered outcome of one fetch.
type Result struct {
	View  table.View
	Err   error
	Stale bool
}

// Bound is a list view with its own controller, usable without knowing the row type.
type Bound interface {
	Meta() Meta
	Searchable() bool
	Mount(ctx context.Context) Result
	Change(ctx context.Context, kind listing.ChangeType, change listing.TableChange) Result
	Current() Result
	// Paging returns the current position without fetching.
	Paging() model.PagingState
}

type boundEntity[T any] struct {
	entity     Entity[T]
	scope      Scope
	ctrl       *listing.Controller[T]
	searchable bool
}

func (b *boundEntity[T]) Meta() Meta       { return b.entity.Meta }
func (b *boundEntity[T]) Searchable() bool { return b.searchable }

func (b *boundEntity[T]) Mount(ctx context.Context) Result {
	return b.result(b.ctrl.Mount(ctx))
}

func (b *boundEntity[T]) Change(ctx context.Context, kind listing.ChangeType, change listing.TableChange) Result {
	return b.result(b.ctrl.OnTableChange(ctx, kind, change))
}

func (b *boundEntity[T]) Current() Result {
	snap := b.ctrl.Snapshot()
	return Result{View: b.entity.Render(snap, b.scope), Err: snap.Err}
}

func (b *boundEntity[T]) Paging() model.PagingState { return b.ctrl.Snapshot().Paging }

func (b *boundEntity[T]) result(out listing.Outcome[T]) Result {
	snap := b.ctrl.Snapshot()
	err := out.Err
	if out.Stale {
		err = nil
	}
	return Result{View: b.entity.Render(snap, b.scope), Err: err, Stale: out.Stale}
}

// Definition is implemented by every Entity.
type Definition interface {
	Describe() Meta
	Bind(set *store.Set, scope Scope, opts listing.Options) (Bound, error)
}

var catalog = map[string]Definition{}

func register(defs ...Definition) {
	for _, d := range defs {
		name := d.Describe().Name
		if _, dup := catalog[name]; dup {
			panic("views: duplicate view " + name)
		}
		catalog[name] = d
	}
}

// Lookup returns the view called name.
func Lookup(name string) (Definition, bool) {
	d, ok := catalog[name]
	return d, ok
}

// Names returns all view names, sorted.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
