package store

import (
	"context"
	"fmt"
	"strings"
)

// procedure is a single stored procedure invocation.
type procedure struct {
	name   string
	params []*Param
}

func call(name string, params ...*Param) *procedure {
	return &procedure{name: name, params: params}
}

// statement renders the CALL with positional placeholders for inputs and
// session variables for everything else.
func (p *procedure) statement() (string, []any, error) {
	if err := p.validate(); err != nil {
		return "", nil, err
	}
	placeholders := make([]string, 0, len(p.params))
	var args []any
	for _, prm := range p.params {
		if prm.Direction == Input {
			placeholders = append(placeholders, "?")
			args = append(args, prm.Value)
			continue
		}
		placeholders = append(placeholders, prm.Name)
	}
	return "CALL " + p.name + "(" + strings.Join(placeholders, ", ") + ")", args, nil
}

// validate reports the first parameter that failed to bind. Callers run it
// before taking a connection from the pool.
func (p *procedure) validate() error {
	for _, prm := range p.params {
		if prm.err != nil {
			return fmt.Errorf("bind %s: %w", prm.Name, prm.err)
		}
	}
	return nil
}

// exec runs the call and returns the affected row count.
func (p *procedure) exec(ctx context.Context, exec sqlExecutor) (int64, error) {
	stmt, args, err := p.statement()
	if err != nil {
		return 0, err
	}
	if err := p.seed(ctx, exec); err != nil {
		return 0, err
	}

	res, err := exec.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := p.collect(ctx, exec); err != nil {
		return 0, err
	}
	return n, nil
}

// query runs the call and reads its first result set into memory.
func (p *procedure) query(ctx context.Context, exec sqlExecutor) ([]Record, error) {
	stmt, args, err := p.statement()
	if err != nil {
		return nil, err
	}
	if err := p.seed(ctx, exec); err != nil {
		return nil, err
	}

	rows, err := exec.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	records, err := readRecords(rows)
	if err != nil {
		return nil, err
	}
	if err := p.collect(ctx, exec); err != nil {
		return nil, err
	}
	return records, nil
}

// seed assigns the incoming value of every InputOutput parameter. Procedures
// without InputOutput parameters skip it entirely.
func (p *procedure) seed(ctx context.Context, exec sqlExecutor) error {
	for _, prm := range p.params {
		if prm.Direction != InputOutput {
			continue
		}
		if _, err := exec.ExecContext(ctx, "SET "+prm.Name+" = ?", prm.Value); err != nil {
			return fmt.Errorf("seed %s: %w", prm.Name, err)
		}
	}
	return nil
}

// collect reads every non-input parameter back in one round trip.
func (p *procedure) collect(ctx context.Context, exec sqlExecutor) error {
	var (
		outs  []*Param
		names []string
	)
	for _, prm := range p.params {
		if prm.Direction == Input {
			continue
		}
		outs = append(outs, prm)
		names = append(names, prm.Name)
	}
	if len(outs) == 0 {
		return nil
	}

	values := make([]any, len(outs))
	dest := make([]any, len(outs))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := exec.QueryRowContext(ctx, "SELECT "+strings.Join(names, ", ")).Scan(dest...); err != nil {
		return fmt.Errorf("read output parameters: %w", err)
	}
	for i, prm := range outs {
		prm.result = values[i]
	}
	return nil
}
