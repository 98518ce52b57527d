// =============================================================================
// Estados de Cuenta - Ledger Extraction Options
// =============================================================================
//
// Options describes the layout of an artist worksheet. Nothing in the
// extractor hard-codes a row or column position; every positional rule lives
// here so a layout change is a configuration change.
//
// DEFAULT LAYOUT:
//
//   |   | A       | B              | C | D | E            | ...
//   |---|---------|----------------|---|---|--------------|
//   | 1 |         |                |   |   |              |
//   | 2 |         | Nombre Legal:  |   |   | Jane Doe     |   <- artist info
//   | 3 |         | Fecha Inicio:  |   |   | 2024-01-01   |      (rows 1-10)
//   |...|         |                |   |   |              |
//   | 8 | Fecha   | Concepto       | Nombre | Método de pago | Monto | Avance | Balance
//   | 9 | 05/01   | Factura 001    | ...                              <- ledger rows
//
// =============================================================================

package ledger

// Canonical artist info keys.
const (
	KeyLegalName = "nombre_legal"
	KeyStartDate = "fecha_inicio"
	KeyEndDate   = "fecha_fin"
)

// Named ledger fields. These columns are carried as strings on every
// transaction and never take part in the numeric aggregation.
const (
	FieldDate          = "Fecha"
	FieldConcept       = "Concepto"
	FieldName          = "Nombre"
	FieldPaymentMethod = "Método de pago"
)

// LabelRule maps a canonical artist info key to the label fragments that
// identify it. A label matches when it contains any fragment after
// normalisation (see NormalizeLabel).
type LabelRule struct {
	Key      string   `yaml:"key" json:"key"`
	Contains []string `yaml:"contains" json:"contains"`
}

// Options controls how a worksheet is read.
type Options struct {
	// LabelColumn and ValueColumn are the 0-based columns of the artist info
	// block. Default: 1 (B) and 4 (E).
	LabelColumn int
	ValueColumn int

	// InfoScanRows limits the artist info scan to the first N rows.
	// Default: 10
	InfoScanRows int

	// Labels is the ordered label table. For a given row the first rule
	// that matches wins.
	Labels []LabelRule

	// HeaderMarkers must all appear in the joined text of a row for that row
	// to be taken as the ledger header. Matching is case-sensitive.
	// Default: ["Fecha", "Concepto"]
	HeaderMarkers []string

	// AdvanceMarker and BalanceMarker classify ledger columns by name.
	// Matching is a case-sensitive substring test.
	// Default: "Avance" and "Balance"
	AdvanceMarker string
	BalanceMarker string
}

// DefaultLabels returns the label table used by the statements workbook.
func DefaultLabels() []LabelRule {
	return []LabelRule{
		{Key: KeyLegalName, Contains: []string{"nombre legal"}},
		{Key: KeyStartDate, Contains: []string{"fecha de inicio", "fecha inicio"}},
		{Key: KeyEndDate, Contains: []string{"fecha fin", "fecha de finalizacion"}},
	}
}

// DefaultOptions returns the layout of the statements workbook.
func DefaultOptions() Options {
	return Options{
		LabelColumn:   1,
		ValueColumn:   4,
		InfoScanRows:  10,
		Labels:        DefaultLabels(),
		HeaderMarkers: []string{FieldDate, FieldConcept},
		AdvanceMarker: "Avance",
		BalanceMarker: "Balance",
	}
}

// withDefaults fills zero-valued fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.InfoScanRows <= 0 {
		o.InfoScanRows = def.InfoScanRows
	}
	if o.LabelColumn == 0 && o.ValueColumn == 0 {
		o.LabelColumn = def.LabelColumn
		o.ValueColumn = def.ValueColumn
	}
	if len(o.Labels) == 0 {
		o.Labels = def.Labels
	}
	if len(o.HeaderMarkers) == 0 {
		o.HeaderMarkers = def.HeaderMarkers
	}
	if o.AdvanceMarker == "" {
		o.AdvanceMarker = def.AdvanceMarker
	}
	if o.BalanceMarker == "" {
		o.BalanceMarker = def.BalanceMarker
	}
	return o
}
