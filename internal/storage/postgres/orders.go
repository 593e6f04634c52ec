package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/osoko/commerce/internal/domain/errors"
	"github.com/osoko/commerce/internal/domain/model"
	"github.com/osoko/commerce/internal/domain/repository"
)

// orderColumns is the shared projection for order reads. Money columns are
// cast to text and parsed into decimals on scan.
const orderColumns = `o.id, o.reference, o.user_id, o.customer_email, o.customer_name, o.customer_phone,
       o.delivery_address, o.delivery_option_id, d.name, o.subtotal::text, o.delivery_cost::text,
       o.total_price::text, o.status, o.payment_status, o.payment_reference, o.metadata,
       o.created_at, o.updated_at`

const orderFrom = ` FROM orders o LEFT JOIN delivery_options d ON d.id = o.delivery_option_id`

func scanOrderRow(row pgx.Row) (*model.Order, error) {
	var (
		o                    model.Order
		subtotal, totalPrice string
		deliveryCost         *string
	)
	err := row.Scan(&o.ID, &o.Reference, &o.UserID, &o.CustomerEmail, &o.CustomerName, &o.CustomerPhone,
		&o.DeliveryAddress, &o.DeliveryOptionID, &o.DeliveryOptionName, &subtotal, &deliveryCost,
		&totalPrice, &o.Status, &o.PaymentStatus, &o.PaymentReference, &o.Metadata,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, fmt.Errorf("parse subtotal: %w", err)
	}
	if o.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
		return nil, fmt.Errorf("parse total price: %w", err)
	}
	if deliveryCost != nil {
		cost, err := decimal.NewFromString(*deliveryCost)
		if err != nil {
			return nil, fmt.Errorf("parse delivery cost: %w", err)
		}
		o.DeliveryCost = &cost
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.Order, error) {
	created := *order
	created.Items = make([]model.OrderItem, len(items))
	copy(created.Items, items)

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (reference, user_id, customer_email, customer_name, customer_phone,
                                delivery_address, delivery_option_id, subtotal, delivery_cost, total_price,
                                status, payment_status, metadata)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                             RETURNING id, created_at, updated_at`

		var deliveryCost *string
		if order.DeliveryCost != nil {
			s := order.DeliveryCost.StringFixed(2)
			deliveryCost = &s
		}

		err := tx.QueryRow(ctx, insertOrder,
			order.Reference, order.UserID, order.CustomerEmail, order.CustomerName, order.CustomerPhone,
			order.DeliveryAddress, order.DeliveryOptionID, order.Subtotal.StringFixed(2), deliveryCost,
			order.TotalPrice.StringFixed(2), order.Status, order.PaymentStatus, order.Metadata,
		).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, product_id, quantity, price)
                            VALUES ($1, $2, $3, $4) RETURNING id`
		for i := range created.Items {
			item := &created.Items[i]
			item.OrderID = created.ID
			if err := tx.QueryRow(ctx, insertItem, created.ID, item.ProductID, item.Quantity, item.Price.StringFixed(2)).Scan(&item.ID); err != nil {
				return err
			}
		}

		// Conditional decrement keeps the availability check and the write
		// in one atomic statement; stock can never go negative.
		const decrementStock = `UPDATE products SET stock = stock - $2 WHERE id = $1 AND is_deleted = FALSE AND stock >= $2`
		for _, item := range created.Items {
			tag, err := tx.Exec(ctx, decrementStock, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				var available int32
				err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1 AND is_deleted = FALSE`, item.ProductID).Scan(&available)
				if errors.Is(err, pgx.ErrNoRows) {
					return domainErrors.ErrNotFound
				}
				if err != nil {
					return err
				}
				return domainErrors.InsufficientStockError{ProductID: item.ProductID, Requested: item.Quantity, Available: available}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + ` WHERE o.id = $1 AND o.is_deleted = FALSE`
	order, err := scanOrderRow(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if order.Items, err = r.loadItems(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + ` WHERE o.reference = $1 AND o.is_deleted = FALSE`
	order, err := scanOrderRow(r.storage.pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if order.Items, err = r.loadItems(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	const query = `SELECT id, order_id, product_id, quantity, price::text FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var (
			item  model.OrderItem
			price string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &price); err != nil {
			return nil, err
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse item price: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) Update(ctx context.Context, id int64, patch repository.OrderPatch) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	idx := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.PaymentStatus != nil {
		add("payment_status", *patch.PaymentStatus)
	}
	if patch.PaymentReference != nil {
		add("payment_reference", *patch.PaymentReference)
	}
	if patch.DeliveryAddress != nil {
		add("delivery_address", *patch.DeliveryAddress)
	}
	if patch.Metadata != nil {
		add("metadata", patch.Metadata)
	}

	query := fmt.Sprintf("UPDATE orders SET %s WHERE id = $%d AND is_deleted = FALSE", strings.Join(sets, ", "), idx)
	args = append(args, id)

	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id int64, status model.PaymentStatus, reference *string) error {
	const query = `UPDATE orders SET payment_status = $1, payment_reference = COALESCE($2, payment_reference), updated_at = NOW()
                   WHERE id = $3 AND is_deleted = FALSE`
	tag, err := r.storage.pool.Exec(ctx, query, status, reference, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

var orderSortColumns = map[string]string{
	"created_at":     "o.created_at",
	"total_price":    "o.total_price",
	"status":         "o.status",
	"payment_status": "o.payment_status",
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	conds := []string{"o.is_deleted = FALSE"}
	args := []any{}
	idx := 1

	add := func(cond string, value any) {
		conds = append(conds, fmt.Sprintf(cond, idx))
		args = append(args, value)
		idx++
	}

	if filter.UserID != nil {
		add("o.user_id = $%d", *filter.UserID)
	}
	if filter.Status != nil {
		add("o.status = $%d", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		add("o.payment_status = $%d", *filter.PaymentStatus)
	}
	if filter.Email != "" {
		add("o.customer_email ILIKE '%%' || $%d || '%%'", filter.Email)
	}
	if filter.CreatedFrom != nil {
		add("o.created_at >= $%d", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		add("o.created_at <= $%d", *filter.CreatedTo)
	}
	if filter.CreatedBy != nil {
		add(`EXISTS (SELECT 1 FROM order_items oi JOIN products p ON p.id = oi.product_id
                     WHERE oi.order_id = o.id AND p.created_by = $%d)`, *filter.CreatedBy)
	}

	where := strings.Join(conds, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM orders o WHERE " + where
	if err := r.storage.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := orderSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "o.created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	pageQuery := fmt.Sprintf("SELECT %s%s WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		orderColumns, orderFrom, where, sortColumn, direction, idx, idx+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.storage.pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *orderRepository) SoftDelete(ctx context.Context, id int64) error {
	// Mutating the reference frees the unique slot held by the dead row.
	const query = `UPDATE orders SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW(),
                       reference = reference || '-' || $2
                   WHERE id = $1 AND is_deleted = FALSE`
	suffix := fmt.Sprintf("%06d", rand.Intn(1000000))
	tag, err := r.storage.pool.Exec(ctx, query, id, suffix)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SelectUnresolvedPayments(ctx context.Context, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + `
              WHERE o.is_deleted = FALSE AND o.payment_status = 'processing' AND o.payment_reference IS NOT NULL
              ORDER BY o.created_at LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
