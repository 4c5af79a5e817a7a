// Package repository fetches raw transaction and daily-report rows from
// the relational store. The pipeline depends only on the column contract,
// not on the schema behind it.
package repository

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver
	"github.com/jmoiron/sqlx"

	"github.com/syrlavka/digest/internal/domain/model"
)

// Default connection settings.
const (
	defaultOutletID     = 5
	defaultConnTimeout  = 10 * time.Second
	defaultQueryTimeout = 30 * time.Second
)

// transactionsQuery returns sale line items joined with product and unit
// metadata for one outlet, restricted to balance transactions.
const transactionsQuery = `
SELECT t.transaction_datetime,
       t.transaction_type,
       t.transaction_product_name,
       t.transaction_product_price,
       t.product_qty,
       p.product_unit,
       t.balance_after
FROM public.transactions AS t
JOIN public.stocks AS s ON s.stock_id = t.stock_id
JOIN public.products AS p ON p.product_id = s.product_id
WHERE t.outlet_id = $1
  AND t.transaction_type = 'balance'`

// reportsQuery returns the pre-aggregated daily report rows for one outlet.
const reportsQuery = `
SELECT r.report_datetime,
       r.report_revenue,
       r.report_purchases,
       r.outlet_id
FROM public.reports AS r
WHERE r.outlet_id = $1`

// Store wraps the database handle for the two digest queries.
type Store struct {
	db           *sqlx.DB
	outletID     int64
	connTimeout  time.Duration
	queryTimeout time.Duration
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithOutletID selects the outlet the queries are scoped to.
func WithOutletID(id int64) Option {
	return func(s *Store) {
		if id > 0 {
			s.outletID = id
		}
	}
}

// WithQueryTimeout bounds each query.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

// WithConnTimeout bounds the initial connectivity check.
func WithConnTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.connTimeout = d
		}
	}
}

// Open connects to the store behind the DB link and verifies connectivity.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	s := &Store{
		outletID:     defaultOutletID,
		connTimeout:  defaultConnTimeout,
		queryTimeout: defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, s.connTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	s.db = db
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Transactions fetches the raw sale line items for the outlet.
func (s *Store) Transactions(ctx context.Context) ([]model.TransactionRow, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var rows []model.TransactionRow
	if err := s.db.SelectContext(queryCtx, &rows, transactionsQuery, s.outletID); err != nil {
		return nil, fmt.Errorf("%w: transactions: %v", ErrFetch, err)
	}
	return rows, nil
}

// Reports fetches the raw daily report rows for the outlet.
func (s *Store) Reports(ctx context.Context) ([]model.ReportRow, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var rows []model.ReportRow
	if err := s.db.SelectContext(queryCtx, &rows, reportsQuery, s.outletID); err != nil {
		return nil, fmt.Errorf("%w: reports: %v", ErrFetch, err)
	}
	return rows, nil
}
