package document

import "trustdoc.dev/tdf/pkg/tdferrors"

// CellKind is the closed tag set for a TableCell variant (§3).
type CellKind string

const (
	CellText       CellKind = "text"
	CellNumber     CellKind = "number"
	CellCurrency   CellKind = "currency"
	CellPercentage CellKind = "percentage"
	CellDate       CellKind = "date"
)

// Cell is the §3 TableCell tagged variant. Exactly one of the
// kind-specific fields is populated, matching Kind; Display is always
// present and is part of the hashed bytes even though it carries no
// weight in the raw value's semantic equality.
type Cell struct {
	Kind CellKind `cbor:"kind"`
	Display string `cbor:"display"`

	Text string `cbor:"text,omitempty"`

	Number *Decimal `cbor:"number,omitempty"`

	CurrencyAmount *Decimal `cbor:"currency_amount,omitempty"`
	CurrencyCode   string   `cbor:"currency_code,omitempty"`

	Percentage *Decimal `cbor:"percentage,omitempty"`

	// Date is an ISO-8601 calendar date string (e.g. "2025-12-31").
	Date string `cbor:"date,omitempty"`
}

// NewTextCell builds a text-kind cell.
func NewTextCell(text, display string) Cell {
	return Cell{Kind: CellText, Text: text, Display: display}
}

// NewNumberCell builds a number-kind cell.
func NewNumberCell(value Decimal, display string) Cell {
	return Cell{Kind: CellNumber, Number: &value, Display: display}
}

// NewCurrencyCell builds a currency-kind cell. code is an ISO-4217
// currency code (e.g. "EUR").
func NewCurrencyCell(amount Decimal, code, display string) Cell {
	return Cell{Kind: CellCurrency, CurrencyAmount: &amount, CurrencyCode: code, Display: display}
}

// NewPercentageCell builds a percentage-kind cell.
func NewPercentageCell(value Decimal, display string) Cell {
	return Cell{Kind: CellPercentage, Percentage: &value, Display: display}
}

// NewDateCell builds a date-kind cell. date must be an ISO-8601
// calendar date string.
func NewDateCell(date, display string) Cell {
	return Cell{Kind: CellDate, Date: date, Display: display}
}

// Validate checks that the field matching Kind is populated (text cells
// need no field). It does not check that the other kind-specific fields
// are empty.
func (c Cell) Validate() error {
	switch c.Kind {
	case CellText:
		return nil
	case CellNumber:
		if c.Number == nil {
			return cellFieldError(c.Kind, "number")
		}
	case CellCurrency:
		if c.CurrencyAmount == nil || c.CurrencyCode == "" {
			return cellFieldError(c.Kind, "currency_amount/currency_code")
		}
	case CellPercentage:
		if c.Percentage == nil {
			return cellFieldError(c.Kind, "percentage")
		}
	case CellDate:
		if c.Date == "" {
			return cellFieldError(c.Kind, "date")
		}
	default:
		return tdferrors.New(tdferrors.InvalidDocument, "unrecognized table cell kind").With("kind", string(c.Kind))
	}
	return nil
}

func cellFieldError(kind CellKind, field string) error {
	return tdferrors.New(tdferrors.InvalidDocument, "table cell missing required field for its kind").
		With("kind", string(kind)).With("field", field)
}

// ColumnDescriptor names one column of a Table's header (§3).
type ColumnDescriptor struct {
	ID    string `cbor:"id"`
	Label string `cbor:"label"`
}

// RowCell pairs a cell with the column id it belongs to. Row stores
// these as a slice rather than a map so the wire encoding preserves the
// table's declared column order — a map's keys would instead be sorted
// into column-id byte order by the canonical encoder, which is not
// necessarily the same order (§4.8).
type RowCell struct {
	ColumnID string `cbor:"column_id"`
	Cell     Cell   `cbor:"cell"`
}

// Row is an ordered set of cells, one per declared column, in the same
// order as the Table's Columns. Table.Validate rejects a row that has no
// entry for a declared column; Cell has no null kind, so a missing value
// cannot be recorded as an explicit null.
type Row struct {
	Cells []RowCell `cbor:"cells"`
}

// Table is the §3 table block payload.
type Table struct {
	ID      string             `cbor:"id"`
	Caption string             `cbor:"caption,omitempty"`
	Columns []ColumnDescriptor `cbor:"columns"`
	Rows    []Row              `cbor:"rows"`
	Footer  *Row               `cbor:"footer,omitempty"`
}

// Validate enforces §3's "every table row supplies exactly the column
// set declared in the header" invariant, checking every body row and
// the optional footer row alike.
func (t Table) Validate() error {
	colSet := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		colSet[c.ID] = struct{}{}
	}

	checkRow := func(r Row) error {
		if len(r.Cells) != len(colSet) {
			return tdferrors.New(tdferrors.InvalidDocument, "table row does not supply exactly the declared column set").With("table", t.ID)
		}
		seenCols := make(map[string]struct{}, len(r.Cells))
		for _, rc := range r.Cells {
			if _, ok := colSet[rc.ColumnID]; !ok {
				return tdferrors.New(tdferrors.InvalidDocument, "table row references an undeclared column").
					With("table", t.ID).With("column", rc.ColumnID)
			}
			if _, dup := seenCols[rc.ColumnID]; dup {
				return tdferrors.New(tdferrors.InvalidDocument, "table row repeats the same column").
					With("table", t.ID).With("column", rc.ColumnID)
			}
			seenCols[rc.ColumnID] = struct{}{}
			if err := rc.Cell.Validate(); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range t.Rows {
		if err := checkRow(r); err != nil {
			return err
		}
	}
	if t.Footer != nil {
		if err := checkRow(*t.Footer); err != nil {
			return err
		}
	}
	return nil
}
