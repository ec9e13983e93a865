package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity is a value object representing stock quantities.
// It supports decimal values for items sold by weight or volume.
// It is immutable - all operations return new Quantity instances
type Quantity struct {
	value decimal.Decimal
	unit  string
}

// NewQuantity creates a new Quantity with the specified value and unit
func NewQuantity(value decimal.Decimal, unit string) (Quantity, error) {
	if value.IsNegative() {
		return Quantity{}, errors.New("quantity cannot be negative")
	}
	return Quantity{
		value: value,
		unit:  unit,
	}, nil
}

// NewQuantityFromInt creates Quantity from an int64 value
func NewQuantityFromInt(value int64, unit string) (Quantity, error) {
	return NewQuantity(decimal.NewFromInt(value), unit)
}

// NewQuantityFromString creates Quantity from a string representation
func NewQuantityFromString(value string, unit string) (Quantity, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid quantity string: %w", err)
	}
	return NewQuantity(d, unit)
}

// MustNewQuantity creates a Quantity and panics on error
func MustNewQuantity(value decimal.Decimal, unit string) Quantity {
	q, err := NewQuantity(value, unit)
	if err != nil {
		panic(err)
	}
	return q
}

// ZeroQuantity returns a zero quantity with the specified unit
func ZeroQuantity(unit string) Quantity {
	return Quantity{value: decimal.Zero, unit: unit}
}

// Amount returns the decimal value
func (q Quantity) Amount() decimal.Decimal {
	return q.value
}

// Unit returns the unit of measurement
func (q Quantity) Unit() string {
	return q.unit
}

// IsZero returns true if the quantity is zero
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// IsPositive returns true if the quantity is positive
func (q Quantity) IsPositive() bool {
	return q.value.IsPositive()
}

// IntValue returns the quantity as an int64 (truncated)
func (q Quantity) IntValue() int64 {
	return q.value.IntPart()
}

// Add returns a new Quantity with the sum of both quantities
// Returns error if units don't match
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if q.unit != other.unit {
		return Quantity{}, fmt.Errorf("cannot add quantities with different units: %s and %s", q.unit, other.unit)
	}
	return Quantity{
		value: q.value.Add(other.value),
		unit:  q.unit,
	}, nil
}

// Subtract returns a new Quantity with the difference
// Returns error if units don't match or result would be negative
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	if q.unit != other.unit {
		return Quantity{}, fmt.Errorf("cannot subtract quantities with different units: %s and %s", q.unit, other.unit)
	}
	result := q.value.Sub(other.value)
	if result.IsNegative() {
		return Quantity{}, errors.New("resulting quantity would be negative")
	}
	return Quantity{
		value: result,
		unit:  q.unit,
	}, nil
}

// Diff returns the signed difference value between this quantity and
// the other. Used for stock-count discrepancies where shortages are
// negative.
func (q Quantity) Diff(other Quantity) (decimal.Decimal, error) {
	if q.unit != other.unit {
		return decimal.Zero, fmt.Errorf("cannot diff quantities with different units: %s and %s", q.unit, other.unit)
	}
	return q.value.Sub(other.value), nil
}

// MultiplyByInt returns a new Quantity multiplied by an integer factor.
// Used for pack-to-unit conversion (pack quantity times pack size).
func (q Quantity) MultiplyByInt(factor int64) (Quantity, error) {
	if factor < 0 {
		return Quantity{}, errors.New("factor cannot be negative")
	}
	return Quantity{
		value: q.value.Mul(decimal.NewFromInt(factor)),
		unit:  q.unit,
	}, nil
}

// Equals returns true if both quantities are equal (same value and unit)
func (q Quantity) Equals(other Quantity) bool {
	return q.unit == other.unit && q.value.Equal(other.value)
}

// LessThan returns true if this quantity is less than the other
func (q Quantity) LessThan(other Quantity) (bool, error) {
	if q.unit != other.unit {
		return false, fmt.Errorf("cannot compare quantities with different units: %s and %s", q.unit, other.unit)
	}
	return q.value.LessThan(other.value), nil
}

// GreaterThanOrEqual returns true if this quantity is greater than or equal to the other
func (q Quantity) GreaterThanOrEqual(other Quantity) (bool, error) {
	if q.unit != other.unit {
		return false, fmt.Errorf("cannot compare quantities with different units: %s and %s", q.unit, other.unit)
	}
	return q.value.GreaterThanOrEqual(other.value), nil
}

// SufficientFor returns true if this quantity covers the required amount
func (q Quantity) SufficientFor(required Quantity) (bool, error) {
	return q.GreaterThanOrEqual(required)
}

// String returns a string representation of the Quantity
func (q Quantity) String() string {
	if q.unit == "" {
		return q.value.String()
	}
	return fmt.Sprintf("%s %s", q.value.String(), q.unit)
}

// MarshalJSON implements json.Marshaler
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value string `json:"value"`
		Unit  string `json:"unit"`
	}{
		Value: q.value.String(),
		Unit:  q.unit,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var v struct {
		Value string `json:"value"`
		Unit  string `json:"unit"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	value, err := decimal.NewFromString(v.Value)
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	if value.IsNegative() {
		return errors.New("quantity cannot be negative")
	}
	q.value = value
	q.unit = v.Unit
	return nil
}

// Value implements driver.Valuer for database storage
func (q Quantity) Value() (driver.Value, error) {
	return q.value.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
// Scans only the numeric value; the unit lives in a separate column.
func (q *Quantity) Scan(value any) error {
	if value == nil {
		q.value = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Quantity", value)
	}

	val, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	q.value = val
	return nil
}
