// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/standards-engine/pkg/types"
)

// QueryOptions holds parameters for row queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over the explanation
	// and description fields.
	Query string

	// StandardIndex filters by standard (e.g. "QI 1").
	StandardIndex string

	// ElementIndex filters by element (e.g. "Element A").
	ElementIndex string

	// MustPass filters by the element must-pass flag when non-nil.
	MustPass *bool

	// Critical filters by the factor critical flag when non-nil.
	Critical *bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.StandardIndex == "" && q.ElementIndex == "" &&
		q.MustPass == nil && q.Critical == nil
}

// QueryResult is a stored row with its stable identifier.
type QueryResult struct {
	ID string `json:"id" yaml:"id"`
	types.Row
}

// Retrieve queries the stored rows with optional full-text search and
// structured filters. Full-text queries rank by relevance; structured
// queries sort by reference for stable output.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	cols := `r.id, r.source, r.functional_area, r.standard_index, r.standard_title,
		r.element_index, r.element_title, r.element_scoring, r.element_data_source,
		r.element_must_pass, r.element_explanation, r.element_num_factors,
		r.element_reference, r.factor_index, r.factor_title, r.factor_description,
		r.factor_explanation, r.factor_critical, r.factor_reference,
		r.effective_date, r.updated_at`

	if useFTS {
		fmt.Fprintf(&qb, `SELECT %s FROM rows_fts
			JOIN standards_rows r ON r.rowid = rows_fts.rowid
			WHERE rows_fts MATCH ?`, cols)
		args = append(args, opts.Query)
	} else {
		fmt.Fprintf(&qb, `SELECT %s FROM standards_rows r WHERE 1=1`, cols)
	}

	if opts.StandardIndex != "" {
		qb.WriteString(` AND r.standard_index = ?`)
		args = append(args, opts.StandardIndex)
	}
	if opts.ElementIndex != "" {
		qb.WriteString(` AND r.element_index = ?`)
		args = append(args, opts.ElementIndex)
	}
	if opts.MustPass != nil {
		qb.WriteString(` AND r.element_must_pass = ?`)
		args = append(args, *opts.MustPass)
	}
	if opts.Critical != nil {
		qb.WriteString(` AND r.factor_critical = ?`)
		args = append(args, *opts.Critical)
	}

	if useFTS {
		qb.WriteString(` ORDER BY rows_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.element_reference, r.factor_index`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResult(rows *sql.Rows) (QueryResult, error) {
	var (
		r        QueryResult
		critical sql.NullBool
	)
	err := rows.Scan(
		&r.ID, &r.Source, &r.FunctionalArea, &r.StandardIndex, &r.StandardTitle,
		&r.ElementIndex, &r.ElementTitle, &r.ElementScoring, &r.ElementDataSource,
		&r.ElementMustPass, &r.ElementExplanation, &r.ElementNumFactors,
		&r.ElementReference, &r.FactorIndex, &r.FactorTitle, &r.FactorDescription,
		&r.FactorExplanation, &critical, &r.FactorReference,
		&r.EffectiveDate, &r.UpdatedAt,
	)
	if err != nil {
		return QueryResult{}, fmt.Errorf("scanning row: %w", err)
	}
	if critical.Valid {
		v := critical.Bool
		r.FactorCritical = &v
	}
	return r, nil
}
