package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/ctxlog"
	"github.com/specialistvlad/pipegrid/internal/data"
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/zclconf/go-cty/cty"

	_ "modernc.org/sqlite"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the parameters of an SQLiteTable section.
type Input struct {
	Path  string `param:"path"`
	Query string `param:"query"`
}

// Table is a problem whose samples are the rows returned by a query against
// a SQLite database. Every result column becomes a stream of strings named
// after the column; NULLs are served as empty strings.
type Table struct {
	component.Base
	input   Input
	columns []string
	streams []string
	rows    [][]string
}

// New is the constructor registered for the SQLiteTable type. The query is
// run once, at construction.
func New(ctx context.Context, name string, params config.Params) (component.Component, error) {
	base, err := component.NewBase(name, params)
	if err != nil {
		return nil, err
	}
	t := &Table{Base: base}
	if err := params.Decode(&t.input); err != nil {
		return nil, err
	}
	if t.input.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	if err := t.load(ctx); err != nil {
		return nil, err
	}
	for _, col := range t.columns {
		stream := t.DeclareOutput(col, data.NewDefinition([]int{data.AnySize}, []cty.Type{cty.String}, "column "+col))
		t.streams = append(t.streams, stream)
	}

	ctxlog.FromContext(ctx).Debug("SQLite table loaded.", "component", name, "columns", len(t.columns), "rows", len(t.rows))
	return t, nil
}

func (t *Table) load(ctx context.Context) error {
	db, err := sql.Open("sqlite", t.input.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, t.input.Query)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	t.columns, err = rows.Columns()
	if err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(t.columns))
	for _, col := range t.columns {
		if _, dup := seen[col]; dup {
			return fmt.Errorf("query returns column '%s' more than once", col)
		}
		seen[col] = struct{}{}
	}

	for rows.Next() {
		cells := make([]sql.NullString, len(t.columns))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		t.rows = append(t.rows, row)
	}
	return rows.Err()
}

// Len implements component.Problem.
func (t *Table) Len() int {
	return len(t.rows)
}

// Batch implements component.Problem.
func (t *Table) Batch(ctx context.Context, indices []int) (data.DataDict, error) {
	cols := make([][]string, len(t.streams))
	for c := range cols {
		cols[c] = make([]string, 0, len(indices))
	}
	for _, i := range indices {
		if i < 0 || i >= len(t.rows) {
			return nil, fmt.Errorf("sample index %d out of range [0, %d)", i, len(t.rows))
		}
		for c := range cols {
			cols[c] = append(cols[c], t.rows[i][c])
		}
	}

	values := make(map[string]any, len(t.streams))
	for c, stream := range t.streams {
		values[stream] = cols[c]
	}
	dd := data.New()
	if err := dd.Extend(values); err != nil {
		return nil, err
	}
	return dd, nil
}

// Forward implements component.Component; Batch already filled the DataDict.
func (t *Table) Forward(ctx context.Context, dd data.DataDict) error {
	return nil
}

// Register registers the SQLiteTable type.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Registration{
		Name:         registry.Namespace + ".problems.SQLiteTable",
		Alias:        "SQLiteTable",
		Capabilities: component.CapComponent | component.CapProblem,
		New:          New,
		Description:  "Rows of a SQLite query, one stream per column.",
	})
}
