package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	domainErrors "github.com/osoko/commerce/internal/domain/errors"
	"github.com/osoko/commerce/internal/domain/model"
)

// --- ProductRepository implementation ---

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT id, name, price::text, stock, created_by, created_at FROM products WHERE id = $1 AND is_deleted = FALSE`
	var (
		p     model.Product
		price string
	)
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &price, &p.Stock, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse product price: %w", err)
	}
	return &p, nil
}

func (r *productRepository) CheckAvailability(ctx context.Context, id int64, quantity int32) (bool, int32, error) {
	const query = `SELECT stock FROM products WHERE id = $1 AND is_deleted = FALSE`
	var stock int32
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, domainErrors.ErrNotFound
		}
		return false, 0, err
	}
	return stock >= quantity, stock, nil
}

func (r *productRepository) AdjustStock(ctx context.Context, id int64, quantity int32, direction model.StockDirection) error {
	if direction == model.StockDecrease {
		const query = `UPDATE products SET stock = stock - $2 WHERE id = $1 AND is_deleted = FALSE AND stock >= $2`
		tag, err := r.storage.pool.Exec(ctx, query, id, quantity)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			_, available, err := r.CheckAvailability(ctx, id, quantity)
			if err != nil {
				return err
			}
			return domainErrors.InsufficientStockError{ProductID: id, Requested: quantity, Available: available}
		}
		return nil
	}

	const query = `UPDATE products SET stock = stock + $2 WHERE id = $1 AND is_deleted = FALSE`
	tag, err := r.storage.pool.Exec(ctx, query, id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- CustomerRepository implementation ---

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	const query = `SELECT id, email, name, phone, password_hash, created_at FROM customers WHERE email = $1`
	var c model.Customer
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(&c.ID, &c.Email, &c.Name, &c.Phone, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) Create(ctx context.Context, email, name, phone, passwordHash string) (*model.Customer, error) {
	const query = `INSERT INTO customers (email, name, phone, password_hash) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	var c model.Customer
	err := r.storage.pool.QueryRow(ctx, query, email, name, phone, passwordHash).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	c.Email = email
	c.Name = name
	c.Phone = phone
	c.PasswordHash = passwordHash
	return &c, nil
}

// --- DeliveryRepository implementation ---

func (r *deliveryRepository) GetByID(ctx context.Context, id int64) (*model.DeliveryOption, error) {
	const query = `SELECT id, name, cost::text FROM delivery_options WHERE id = $1 AND is_deleted = FALSE`
	var (
		opt  model.DeliveryOption
		cost string
	)
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&opt.ID, &opt.Name, &cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if opt.Cost, err = decimal.NewFromString(cost); err != nil {
		return nil, fmt.Errorf("parse delivery cost: %w", err)
	}
	return &opt, nil
}
