package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/quickserve/models"
	"github.com/yeremiapane/quickserve/services"
)

// flexibleString accepts a JSON string or a whole JSON number, e.g. a table
// number sent as 7 or "7". Numbers are kept in their canonical form.
type flexibleString string

func (f *flexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return models.NewValidationError("", "expected a string or a number, got %s", data)
	}
	// 7, 7.0 and 7e0 name the same table.
	d, err := decimal.NewFromString(n.String())
	if err != nil || !d.IsInteger() {
		return models.NewValidationError("", "expected a whole number, got %s", n)
	}
	*f = flexibleString(d.String())
	return nil
}

// cartLineRequest is one cart line in any of the shapes clients send.
// Price, cost and total fields are dropped on purpose: prices come from the menu.
type cartLineRequest struct {
	line services.CartLine
}

func (l *cartLineRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		MenuID    *flexibleString `json:"menu_id"`
		MenuIDAlt *flexibleString `json:"menuId"`
		ItemID    *flexibleString `json:"item_id"`
		ItemIDAlt *flexibleString `json:"itemId"`
		Name      string          `json:"name"`
		Item      string          `json:"item"`
		Quantity  *flexibleString `json:"quantity"`
		Qty       *flexibleString `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			return models.NewValidationError("items", "%s", ve.Message)
		}
		return models.NewValidationError("items", "malformed cart line")
	}

	if id := firstSet(raw.MenuID, raw.MenuIDAlt, raw.ItemID, raw.ItemIDAlt); id != "" {
		n, err := strconv.ParseUint(id, 10, 32)
		if err != nil || n == 0 {
			return models.NewValidationError("items", "invalid menu item id %q", id)
		}
		l.line.MenuID = uint(n)
	}

	l.line.Name = strings.TrimSpace(raw.Name)
	if l.line.Name == "" {
		l.line.Name = strings.TrimSpace(raw.Item)
	}

	if q := firstSet(raw.Quantity, raw.Qty); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return models.NewValidationError("items", "quantity must be a positive integer, got %q", q)
		}
		l.line.Quantity = n
	}
	return nil
}

func firstSet(values ...*flexibleString) string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(string(*v)) != "" {
			return strings.TrimSpace(string(*v))
		}
	}
	return ""
}

type createOrderRequest struct {
	TableNumber    flexibleString    `json:"tableNumber"`
	TableNumberAlt flexibleString    `json:"table_number"`
	Items          []cartLineRequest `json:"items"`
}

func (r createOrderRequest) table() string {
	if strings.TrimSpace(string(r.TableNumber)) != "" {
		return string(r.TableNumber)
	}
	return string(r.TableNumberAlt)
}

func (r createOrderRequest) cartLines() []services.CartLine {
	lines := make([]services.CartLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, item.line)
	}
	return lines
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
