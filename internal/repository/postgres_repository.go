package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/yeo0314/JEPK-creation/internal/domain"
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	SSLMode           string
	MigrationsDirPath string
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(cred *Credentials) (*PostgresRepository, error) {
	sslMode := cred.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName,
		sslMode)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

const orderColumns = `id, order_id, amount, customer_name, customer_email, phone, delivery_address,
	payment_method, cart, transaction_id, provider, payment_url, status, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	cart := order.Cart
	if cart == nil {
		cart = []domain.CartLine{}
	}
	cartJSON, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	stored := *order
	stored.ID = uuid.NewString()
	stored.Cart = domain.CopyLines(cart)
	stored.Status = domain.OrderStatusPending
	stored.CreatedAt = now
	stored.UpdatedAt = now

	query := `INSERT INTO orders (` + orderColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = r.db.ExecContext(ctx, query,
		stored.ID,
		stored.OrderID,
		stored.Amount,
		stored.CustomerName,
		stored.CustomerEmail,
		stored.Phone,
		stored.DeliveryAddress,
		stored.PaymentMethod.String(),
		string(cartJSON),
		stored.TransactionID,
		stored.Provider,
		stored.PaymentURL,
		stored.Status.String(),
		stored.CreatedAt,
		stored.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateOrder
		}
		return nil, persistenceErr("create", err)
	}
	return &stored, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.query(ctx, "list", `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
}

func (r *PostgresRepository) ListByCustomerEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	return r.query(ctx, "list by email",
		`SELECT `+orderColumns+` FROM orders WHERE customer_email = $1 ORDER BY created_at DESC, id DESC`, email)
}

func (r *PostgresRepository) Search(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	var pattern string
	if filter.Query != "" {
		pattern = "%" + escapeLike(filter.Query) + "%"
	}
	return r.query(ctx, "search",
		`SELECT `+orderColumns+` FROM orders
		 WHERE ($1 = '' OR status = $1)
		   AND ($2 = '' OR customer_name ILIKE $2 OR customer_email ILIKE $2 OR order_id ILIKE $2)
		 ORDER BY created_at DESC, id DESC`,
		filter.Status.String(), pattern)
}

func (r *PostgresRepository) query(ctx context.Context, op, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceErr(op, err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, persistenceErr(op, err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr(op, fmt.Errorf("row iteration error: %w", err))
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var cartJSON []byte
	var method, status string
	err := row.Scan(
		&order.ID,
		&order.OrderID,
		&order.Amount,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.Phone,
		&order.DeliveryAddress,
		&method,
		&cartJSON,
		&order.TransactionID,
		&order.Provider,
		&order.PaymentURL,
		&status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cartJSON, &order.Cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	order.PaymentMethod = domain.PaymentMethod(method)
	order.Status = domain.OrderStatus(status)
	order.CreatedAt = order.CreatedAt.UTC()
	order.UpdatedAt = order.UpdatedAt.UTC()
	return &order, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, persistenceErr("get", err)
	}
	return order, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(status))
	}
	return r.update(ctx, "set status", id, []string{"status"}, []any{status.String()})
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch domain.OrderPatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}

	var cols []string
	var vals []any
	if patch.CustomerName != nil {
		cols, vals = append(cols, "customer_name"), append(vals, *patch.CustomerName)
	}
	if patch.CustomerEmail != nil {
		cols, vals = append(cols, "customer_email"), append(vals, *patch.CustomerEmail)
	}
	if patch.Phone != nil {
		cols, vals = append(cols, "phone"), append(vals, *patch.Phone)
	}
	if patch.DeliveryAddress != nil {
		cols, vals = append(cols, "delivery_address"), append(vals, *patch.DeliveryAddress)
	}
	if patch.Status != nil {
		cols, vals = append(cols, "status"), append(vals, patch.Status.String())
	}
	return r.update(ctx, "update", id, cols, vals)
}

// update sets cols to vals and moves updated_at forward, never backwards.
func (r *PostgresRepository) update(ctx context.Context, op, id string, cols []string, vals []any) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrOrderNotFound
	}

	args := []any{id, time.Now().UTC().Truncate(time.Millisecond)}
	sets := []string{"updated_at = GREATEST(updated_at, $2)"}
	for i, col := range cols {
		args = append(args, vals[i])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	query := fmt.Sprintf("UPDATE orders SET %s WHERE id = $1", strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return persistenceErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistenceErr(op, err)
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrOrderNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return persistenceErr("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistenceErr("delete", err)
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PostgresRepository) ComputeStats(ctx context.Context) (*domain.OrderStats, error) {
	orders, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeStats(orders), nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresRepository) Close(context.Context) error {
	return r.db.Close()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
