package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order id already exists")
)

// Conf is the orders table collaborator.
type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

const recordColumns = `
	id, order_id, customer_name, customer_email,
	COALESCE(customer_phone, ''), COALESCE(customer_organization, ''),
	shipping_address::text, order_items::text, order_total,
	COALESCE(notes, ''), order_date, status,
	COALESCE(payment_method, ''), COALESCE(payment_id, ''), COALESCE(paypal_order_id, ''),
	created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec     Record
		address string
		items   string
		status  string
	)
	err := row.Scan(
		&rec.ID, &rec.OrderID, &rec.CustomerName, &rec.CustomerEmail,
		&rec.CustomerPhone, &rec.CustomerOrganization,
		&address, &items, &rec.OrderTotal,
		&rec.Notes, &rec.OrderDate, &status,
		&rec.PaymentMethod, &rec.PaymentID, &rec.PaypalOrderID,
		&rec.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	rec.ShippingAddress = json.RawMessage(address)
	rec.OrderItems = json.RawMessage(items)
	rec.Status = Status(status)
	return rec, nil
}

// CreateOrder inserts the record and returns the stored row.
func (c *Conf) CreateOrder(ctx context.Context, rec Record) (Record, error) {
	var exists bool
	var inserted Record
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1)`, rec.OrderID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check order id: %w", err)
		}
		if exists {
			return ErrDuplicateOrder
		}

		queryInsert := `
			INSERT INTO orders (
				order_id, customer_name, customer_email, customer_phone, customer_organization,
				shipping_address, order_items, order_total, notes, order_date, status,
				payment_method, payment_id, paypal_order_id, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8, $9, $10, $11, $12, $13, $14, NOW())
			RETURNING ` + recordColumns
		row := tx.QueryRowContext(ctx, queryInsert,
			rec.OrderID, rec.CustomerName, rec.CustomerEmail,
			nullable(rec.CustomerPhone), nullable(rec.CustomerOrganization),
			string(rec.ShippingAddress), string(rec.OrderItems), rec.OrderTotal,
			nullable(rec.Notes), rec.OrderDate, string(rec.Status),
			nullable(rec.PaymentMethod), nullable(rec.PaymentID), nullable(rec.PaypalOrderID),
		)
		inserted, err = scanRecord(row)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return inserted, nil
}

// ListOrders returns every order, newest order date first.
func (c *Conf) ListOrders(ctx context.Context) ([]Record, error) {
	return c.queryRecords(ctx, `SELECT `+recordColumns+` FROM orders ORDER BY order_date DESC`)
}

// SearchOrders matches the term against customer name, customer email and order id.
func (c *Conf) SearchOrders(ctx context.Context, term string) ([]Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM orders
		WHERE customer_name ILIKE $1 ESCAPE '\' OR customer_email ILIKE $1 ESCAPE '\' OR order_id ILIKE $1 ESCAPE '\'
		ORDER BY order_date DESC`
	return c.queryRecords(ctx, query, containsPattern(term))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches term literally anywhere in the column.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// GetOrder returns a single order by its public id.
func (c *Conf) GetOrder(ctx context.Context, orderID string) (Record, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM orders WHERE order_id = $1`, orderID)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrOrderNotFound
		}
		return Record{}, fmt.Errorf("failed to query order: %w", err)
	}
	return rec, nil
}

// UpdateStatus moves an order to a new status and appends an audit entry in the
// same transaction. It returns the updated row and the previous status.
func (c *Conf) UpdateStatus(ctx context.Context, orderID string, status Status, adminEmail string) (Record, Status, error) {
	var (
		updated   Record
		oldStatus string
	)
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE order_id = $1 FOR UPDATE`, orderID).Scan(&oldStatus)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to query order status: %w", err)
		}

		queryUpdate := `UPDATE orders SET status = $1 WHERE order_id = $2 RETURNING ` + recordColumns
		updated, err = scanRecord(tx.QueryRowContext(ctx, queryUpdate, string(status), orderID))
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		queryAudit := `
			INSERT INTO order_audit_log (order_id, action, old_status, new_status, admin_email, created_at)
			VALUES ($1, 'status_update', $2, $3, $4, NOW())
		`
		_, err = tx.ExecContext(ctx, queryAudit, orderID, oldStatus, string(status), adminEmail)
		if err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return Record{}, "", err
	}
	return updated, Status(oldStatus), nil
}

func (c *Conf) Stats(ctx context.Context) (Stats, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(order_total), 0)
		FROM orders
		GROUP BY status
	`)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query order stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{ByStatus: make(map[Status]int), TotalRevenue: decimal.Zero}
	for rows.Next() {
		var (
			status  string
			count   int
			revenue decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &revenue); err != nil {
			return Stats{}, fmt.Errorf("failed to scan order stats: %w", err)
		}
		stats.ByStatus[Status(status)] = count
		stats.Total += count
		stats.TotalRevenue = stats.TotalRevenue.Add(revenue)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("error iterating order stats: %w", err)
	}
	return stats, nil
}

func (c *Conf) LogSecurityEvent(ctx context.Context, ev SecurityEvent) error {
	query := `
		INSERT INTO security_events (event_type, description, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := c.db.ExecContext(ctx, query, ev.EventType, ev.Description, ev.IPAddress, ev.UserAgent)
	if err != nil {
		return fmt.Errorf("failed to log security event: %w", err)
	}
	return nil
}

func (c *Conf) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return records, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", er)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
