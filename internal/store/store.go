package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/teeworks/internal/estimator"
)

// ErrNotFound is returned when an estimate does not exist.
var ErrNotFound = errors.New("estimate not found")

// ErrInvalidEstimate wraps validation failures of NewEstimate.
var ErrInvalidEstimate = errors.New("invalid estimate")

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// createdAtLayout sorts lexicographically in chronological order.
const createdAtLayout = "2006-01-02 15:04:05.000000"

// NewEstimate is the input for Create.
type NewEstimate struct {
	Title    string            `json:"title"`
	Customer string            `json:"customer"`
	Notes    string            `json:"notes"`
	Groups   []estimator.Group `json:"groups"`
}

// Validate checks the estimate header and every group.
func (n NewEstimate) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEstimate)
	}
	if len(n.Groups) == 0 {
		return fmt.Errorf("%w: at least one group is required", ErrInvalidEstimate)
	}
	for i, g := range n.Groups {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("%w: group %d: %w", ErrInvalidEstimate, i+1, err)
		}
	}
	return nil
}

// GroupLine is a stored group with its priced snapshot.
type GroupLine struct {
	Name string `json:"name"`
	estimator.GroupCost
	estimator.UnitPrices
	Amount int `json:"amount"`
}

// Estimate is a stored, priced estimate.
type Estimate struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Customer  string      `json:"customer"`
	Notes     string      `json:"notes"`
	Subtotal  int         `json:"subtotal"`
	CreatedAt time.Time   `json:"createdAt"`
	Groups    []GroupLine `json:"groups"`
}

// EstimateListItem is the summary row returned by List.
type EstimateListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Customer  string    `json:"customer"`
	Subtotal  int       `json:"subtotal"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository persists estimates in SQLite.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// New returns a Repository backed by db.
func New(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Build prices a NewEstimate into an Estimate without persisting it.
func Build(n NewEstimate, id string, createdAt time.Time) Estimate {
	summary := estimator.Summarize(n.Groups)

	est := Estimate{
		ID:        id,
		Title:     strings.TrimSpace(n.Title),
		Customer:  strings.TrimSpace(n.Customer),
		Notes:     strings.TrimSpace(n.Notes),
		Subtotal:  summary.Subtotal,
		CreatedAt: createdAt.UTC(),
		Groups:    make([]GroupLine, 0, len(n.Groups)),
	}
	for i, g := range n.Groups {
		priced := summary.Groups[i]
		est.Groups = append(est.Groups, GroupLine{
			Name:       strings.TrimSpace(g.Name),
			GroupCost:  g.GroupCost,
			UnitPrices: priced.UnitPrices,
			Amount:     priced.Amount,
		})
	}
	return est
}

// Create validates and prices n, then stores it in a single transaction.
func (r *Repository) Create(ctx context.Context, n NewEstimate) (Estimate, error) {
	if err := n.Validate(); err != nil {
		return Estimate{}, err
	}

	est := Build(n, uuid.NewString(), r.now())

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Estimate{}, fmt.Errorf("begin create estimate transaction: %w", err)
	}
	if err := InsertTx(ctx, tx, est); err != nil {
		_ = tx.Rollback()
		return Estimate{}, err
	}
	if err := tx.Commit(); err != nil {
		return Estimate{}, fmt.Errorf("commit create estimate transaction: %w", err)
	}

	// Round-trip precision of the stored timestamp.
	est.CreatedAt = est.CreatedAt.Truncate(time.Microsecond)
	return est, nil
}

// InsertTx writes an already priced estimate inside tx.
func InsertTx(ctx context.Context, tx *sql.Tx, est Estimate) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO estimates (id, title, customer, notes, subtotal, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, est.ID, est.Title, est.Customer, est.Notes, est.Subtotal, est.CreatedAt.UTC().Format(createdAtLayout)); err != nil {
		return fmt.Errorf("insert estimate: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO estimate_groups (
			estimate_id,
			position,
			name,
			quantity,
			bring_in_quantity,
			tshirt_cost,
			silkscreen_print_cost,
			dtf_print_cost,
			setup_cost,
			additional_options_cost,
			custom_items_cost,
			sample_items_cost,
			labor_unit_price,
			sales_unit_price,
			amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert estimate group: %w", err)
	}
	defer stmt.Close()

	for i, g := range est.Groups {
		if _, err := stmt.ExecContext(ctx,
			est.ID,
			i,
			g.Name,
			g.Quantity,
			g.BringInQuantity,
			g.TshirtCost,
			g.SilkscreenPrintCost,
			g.DtfPrintCost,
			g.SetupCost,
			g.AdditionalOptionsCost,
			g.CustomItemsCost,
			g.SampleItemsCost,
			g.LaborUnitPrice,
			g.SalesUnitPrice,
			g.Amount,
		); err != nil {
			return fmt.Errorf("insert estimate group %d: %w", i+1, err)
		}
	}

	return nil
}

// Get returns the stored estimate. Prices are read from the snapshot taken at
// creation time and are not recalculated.
func (r *Repository) Get(ctx context.Context, id string) (Estimate, error) {
	var (
		est       Estimate
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, customer, notes, subtotal, created_at
		FROM estimates
		WHERE id = ?
	`, id).Scan(&est.ID, &est.Title, &est.Customer, &est.Notes, &est.Subtotal, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Estimate{}, ErrNotFound
		}
		return Estimate{}, fmt.Errorf("query estimate: %w", err)
	}
	if est.CreatedAt, err = parseCreatedAt(createdAt); err != nil {
		return Estimate{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			name,
			quantity,
			bring_in_quantity,
			tshirt_cost,
			silkscreen_print_cost,
			dtf_print_cost,
			setup_cost,
			additional_options_cost,
			custom_items_cost,
			sample_items_cost,
			labor_unit_price,
			sales_unit_price,
			amount
		FROM estimate_groups
		WHERE estimate_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return Estimate{}, fmt.Errorf("query estimate groups: %w", err)
	}
	defer rows.Close()

	est.Groups = make([]GroupLine, 0)
	for rows.Next() {
		var g GroupLine
		if err := rows.Scan(
			&g.Name,
			&g.Quantity,
			&g.BringInQuantity,
			&g.TshirtCost,
			&g.SilkscreenPrintCost,
			&g.DtfPrintCost,
			&g.SetupCost,
			&g.AdditionalOptionsCost,
			&g.CustomItemsCost,
			&g.SampleItemsCost,
			&g.LaborUnitPrice,
			&g.SalesUnitPrice,
			&g.Amount,
		); err != nil {
			return Estimate{}, fmt.Errorf("scan estimate group: %w", err)
		}
		est.Groups = append(est.Groups, g)
	}
	if err := rows.Err(); err != nil {
		return Estimate{}, fmt.Errorf("iterate estimate groups: %w", err)
	}

	return est, nil
}

// List returns estimates newest first. A non-empty query filters on title,
// customer and notes.
func (r *Repository) List(ctx context.Context, query string) ([]EstimateListItem, error) {
	query = strings.TrimSpace(query)
	search := "%" + likeEscaper.Replace(query) + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, customer, subtotal, created_at
		FROM estimates
		WHERE (? = '' OR title LIKE ? ESCAPE '\' OR customer LIKE ? ESCAPE '\' OR notes LIKE ? ESCAPE '\')
		ORDER BY created_at DESC, id DESC
	`, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query estimates: %w", err)
	}
	defer rows.Close()

	items := make([]EstimateListItem, 0)
	for rows.Next() {
		var (
			item      EstimateListItem
			createdAt string
		)
		if err := rows.Scan(&item.ID, &item.Title, &item.Customer, &item.Subtotal, &createdAt); err != nil {
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		if item.CreatedAt, err = parseCreatedAt(createdAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate estimates: %w", err)
	}

	return items, nil
}

// Delete removes an estimate and its groups.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM estimates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete estimate rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func parseCreatedAt(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(createdAtLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", raw, err)
	}
	return t, nil
}
