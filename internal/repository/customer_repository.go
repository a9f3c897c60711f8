package repository

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/unclebandit/customer-service/internal/db"
	appErrors "github.com/unclebandit/customer-service/internal/errors"
	"github.com/unclebandit/customer-service/internal/model"
)

const customerTable = "customer"

var customerColumns = []string{"id", "first_name", "last_name", "email"}

// pgUniqueViolation is the SQLSTATE postgres reports for a violated unique constraint.
const pgUniqueViolation = "23505"

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	Insert(ctx context.Context, c model.Customer) (model.Customer, error)
	FindByID(ctx context.Context, id int64) (*model.Customer, error)
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	FindByFirstNameContains(ctx context.Context, substring string) ([]model.Customer, error)
	ListAll(ctx context.Context) ([]model.Customer, error)
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewCustomerRepository(conn *sql.DB, dialect db.Dialect) *CustomerRepository {
	return &CustomerRepository{DB: conn, Dialect: dialect}
}

func (r *CustomerRepository) builder() sq.StatementBuilderType {
	if r.Dialect == db.SQLite {
		return sq.StatementBuilder.PlaceholderFormat(sq.Question)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// Insert stores c under a freshly generated id. Any ID already set on c is ignored.
func (r *CustomerRepository) Insert(ctx context.Context, c model.Customer) (model.Customer, error) {
	query, args, err := r.insertStmt(c).ToSql()
	if err != nil {
		return model.Customer{}, errors.Wrap(err, "could not build insert")
	}

	var id int64
	if err = r.DB.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return model.Customer{}, appErrors.NewDuplicateEmail(c.Email, err)
		}
		return model.Customer{}, appErrors.NewStorageError("insert customer", err)
	}

	c.ID = id
	return c, nil
}

// FindByID fetches a customer by ID, nil if there is none.
func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	return r.findOne(ctx, "find customer by id", sq.Eq{"id": id})
}

// FindByEmail matches the email exactly, nil if there is none.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.findOne(ctx, "find customer by email", sq.Eq{"email": email})
}

// FindByFirstNameContains returns every customer whose first name contains
// substring, ignoring case, in insertion order. Wildcards in substring match literally.
func (r *CustomerRepository) FindByFirstNameContains(ctx context.Context, substring string) ([]model.Customer, error) {
	return r.findMany(ctx, "search customers by first name", r.firstNameContains(substring))
}

func (r *CustomerRepository) insertStmt(c model.Customer) sq.InsertBuilder {
	return r.builder().
		Insert(customerTable).
		Columns("first_name", "last_name", "email").
		Values(c.FirstName, c.LastName, c.Email).
		Suffix("RETURNING id")
}

// firstNameContains folds case on both sides. SQLite's own LOWER only knows
// ASCII, so the sqlite dialect goes through the function registered by package db.
func (r *CustomerRepository) firstNameContains(substring string) sq.Sqlizer {
	lower := "LOWER"
	if r.Dialect == db.SQLite {
		lower = db.SQLiteLowerFunc
	}
	pattern := "%" + escapeLike(substring) + "%"
	return sq.Expr(lower+`(first_name) LIKE `+lower+`(?) ESCAPE '\'`, pattern)
}

// ListAll fetches all customers ordered by id.
func (r *CustomerRepository) ListAll(ctx context.Context) ([]model.Customer, error) {
	return r.findMany(ctx, "list customers", nil)
}

func (r *CustomerRepository) findOne(ctx context.Context, op string, where sq.Sqlizer) (*model.Customer, error) {
	query, args, err := r.builder().
		Select(customerColumns...).
		From(customerTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "could not build "+op)
	}

	var c model.Customer
	if err := scanCustomer(r.DB.QueryRowContext(ctx, query, args...), &c); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, appErrors.NewStorageError(op, err)
	}
	return &c, nil
}

func (r *CustomerRepository) findMany(ctx context.Context, op string, where sq.Sqlizer) ([]model.Customer, error) {
	query, args, err := r.selectManyStmt(where).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "could not build "+op)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, appErrors.NewStorageError(op, err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, appErrors.NewStorageError(op, err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStorageError(op, err)
	}
	return customers, nil
}

func (r *CustomerRepository) selectManyStmt(where sq.Sqlizer) sq.SelectBuilder {
	stmt := r.builder().
		Select(customerColumns...).
		From(customerTable).
		OrderBy("id ASC")
	if where != nil {
		stmt = stmt.Where(where)
	}
	return stmt
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner, c *model.Customer) error {
	return row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		// primary result code only, when extended codes are off
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
	}
	return false
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
