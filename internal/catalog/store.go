// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists the product catalog in SQLite and serves it to the
// keyword-fallback and structured retrieval sources.
//
// See docs/ARCHITECTURE.md § Catalog.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/shopsearch/pkg/types"
)

// Store manages the product catalog SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the catalog database at cfg.DBPath and creates
// the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price REAL NOT NULL,
			category TEXT,
			attributes TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
		`CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert inserts or replaces one product.
func (s *Store) Upsert(ctx context.Context, p types.Product) error {
	attrsJSON, err := json.Marshal(p.Attributes)
	if err != nil {
		return fmt.Errorf("encoding attributes for %s: %w", p.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, category, attributes)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, description=excluded.description,
			price=excluded.price, category=excluded.category,
			attributes=excluded.attributes`,
		p.ID, p.Name, p.Description, p.Price, p.Category, string(attrsJSON),
	)
	if err != nil {
		return fmt.Errorf("upserting product %s: %w", p.ID, err)
	}
	return nil
}

// Seed upserts a batch of products and returns the count stored. Products
// without an id are skipped with a warning on w.
func (s *Store) Seed(ctx context.Context, products []types.Product, w io.Writer) (int, error) {
	stored := 0
	for i, p := range products {
		if p.ID == "" {
			if w != nil {
				fmt.Fprintf(w, "warning: skipping product %d: missing id\n", i)
			}
			continue
		}
		if err := s.Upsert(ctx, p); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

// SeedFromYAML reads a YAML list of products from path and upserts them.
func (s *Store) SeedFromYAML(ctx context.Context, path string, w io.Writer) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	var products []types.Product
	if err := yaml.Unmarshal(data, &products); err != nil {
		return 0, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	return s.Seed(ctx, products, w)
}

// ByID fetches one product. Returns sql.ErrNoRows wrapped when absent.
func (s *Store) ByID(ctx context.Context, id string) (types.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, category, attributes
		 FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		return types.Product{}, fmt.Errorf("fetching product %s: %w", id, err)
	}
	return p, nil
}

// All returns every product in the catalog ordered by id.
func (s *Store) All(ctx context.Context) ([]types.Product, error) {
	return s.query(ctx,
		`SELECT id, name, description, price, category, attributes
		 FROM products ORDER BY id`)
}

// Filters narrows a structured catalog lookup. Zero values mean unconstrained.
type Filters struct {
	Category string
	Brand    string
	MinPrice float64
	MaxPrice float64
}

// Filter returns products matching all set filters, ordered by id. The brand
// filter is applied in memory because brand lives inside the attributes JSON.
func (s *Store) Filter(ctx context.Context, f Filters) ([]types.Product, error) {
	clauses := []string{"1=1"}
	var args []any
	if f.Category != "" {
		clauses = append(clauses, "lower(category) = lower(?)")
		args = append(args, f.Category)
	}
	if f.MinPrice > 0 {
		clauses = append(clauses, "price >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		clauses = append(clauses, "price <= ?")
		args = append(args, f.MaxPrice)
	}

	products, err := s.query(ctx,
		`SELECT id, name, description, price, category, attributes
		 FROM products WHERE `+strings.Join(clauses, " AND ")+` ORDER BY id`,
		args...)
	if err != nil {
		return nil, err
	}

	if f.Brand == "" {
		return products, nil
	}
	filtered := products[:0]
	for _, p := range products {
		if strings.EqualFold(p.AttrString("brand"), f.Brand) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Count returns the number of products stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, stmt string, args ...any) ([]types.Product, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []types.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (types.Product, error) {
	var p types.Product
	var attrsJSON string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &attrsJSON); err != nil {
		return types.Product{}, err
	}
	if attrsJSON != "" {
		if err := json.Unmarshal([]byte(attrsJSON), &p.Attributes); err != nil {
			return types.Product{}, fmt.Errorf("decoding attributes for %s: %w", p.ID, err)
		}
	}
	return p, nil
}
