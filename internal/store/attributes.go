package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/trgovina/internal/model"
)

// attributeTables maps an attribute kind to its definition and value tables.
var attributeTables = map[model.AttributeKind]struct{ attributes, values string }{
	model.AttributeKindAddress:  {"address_attributes", "address_attribute_values"},
	model.AttributeKindCustomer: {"customer_attributes", "customer_attribute_values"},
}

func tablesFor(kind model.AttributeKind) (string, string, error) {
	t, ok := attributeTables[kind]
	if !ok {
		return "", "", fmt.Errorf("%w: unknown attribute kind %q", ErrInvalidArgument, kind)
	}
	return t.attributes, t.values, nil
}

// CreateAttribute creates an attribute definition.
func CreateAttribute(ctx context.Context, db *sql.DB, a *model.Attribute) (*model.Attribute, error) {
	table, _, err := tablesFor(a.Kind)
	if err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO `+table+` (name, control_type, required, display_order) VALUES (?, ?, ?, ?)`,
		a.Name, string(a.ControlType), a.Required, a.DisplayOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s attribute: %w", a.Kind, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting attribute id: %w", err)
	}

	return GetAttribute(ctx, db, a.Kind, id)
}

// GetAttribute returns an attribute definition by ID.
func GetAttribute(ctx context.Context, db *sql.DB, kind model.AttributeKind, id int64) (*model.Attribute, error) {
	table, _, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}

	a := &model.Attribute{Kind: kind}
	var control string
	err = db.QueryRowContext(ctx,
		`SELECT id, name, control_type, required, display_order FROM `+table+` WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &control, &a.Required, &a.DisplayOrder)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s attribute: %w", kind, err)
	}
	a.ControlType = model.ControlType(control)
	return a, nil
}

// ListAttributes returns all attributes of a kind in display order.
func ListAttributes(ctx context.Context, db *sql.DB, kind model.AttributeKind) ([]model.Attribute, error) {
	table, _, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, name, control_type, required, display_order FROM `+table+` ORDER BY display_order, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s attributes: %w", kind, err)
	}
	defer rows.Close()

	var attrs []model.Attribute
	for rows.Next() {
		a := model.Attribute{Kind: kind}
		var control string
		if err := rows.Scan(&a.ID, &a.Name, &control, &a.Required, &a.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scanning attribute: %w", err)
		}
		a.ControlType = model.ControlType(control)
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}

// CreateAttributeValue adds a predefined value to an attribute.
func CreateAttributeValue(ctx context.Context, db *sql.DB, v *model.AttributeValue) (*model.AttributeValue, error) {
	_, table, err := tablesFor(v.Kind)
	if err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO `+table+` (attribute_id, name, is_pre_selected, display_order) VALUES (?, ?, ?, ?)`,
		v.AttributeID, v.Name, v.IsPreSelected, v.DisplayOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s attribute value: %w", v.Kind, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting attribute value id: %w", err)
	}

	return GetAttributeValue(ctx, db, v.Kind, id)
}

// GetAttributeValue returns a predefined attribute value by ID.
func GetAttributeValue(ctx context.Context, db *sql.DB, kind model.AttributeKind, id int64) (*model.AttributeValue, error) {
	_, table, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}

	v := &model.AttributeValue{Kind: kind}
	err = db.QueryRowContext(ctx,
		`SELECT id, attribute_id, name, is_pre_selected, display_order FROM `+table+` WHERE id = ?`, id,
	).Scan(&v.ID, &v.AttributeID, &v.Name, &v.IsPreSelected, &v.DisplayOrder)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s attribute value: %w", kind, err)
	}
	return v, nil
}

// ListAttributeValues returns the predefined values of an attribute.
func ListAttributeValues(ctx context.Context, db *sql.DB, kind model.AttributeKind, attributeID int64) ([]model.AttributeValue, error) {
	_, table, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, attribute_id, name, is_pre_selected, display_order FROM `+table+`
		 WHERE attribute_id = ? ORDER BY display_order, id`, attributeID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s attribute values: %w", kind, err)
	}
	defer rows.Close()

	var values []model.AttributeValue
	for rows.Next() {
		v := model.AttributeValue{Kind: kind}
		if err := rows.Scan(&v.ID, &v.AttributeID, &v.Name, &v.IsPreSelected, &v.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scanning attribute value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
