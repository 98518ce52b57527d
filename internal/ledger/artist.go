package ledger

import (
	"strings"
	"time"

	"github.com/ginjaninja78/estados-de-cuenta/internal/types"
	"github.com/xuri/excelize/v2"
)

// LabelValue is one raw label/value pair found in the artist info block.
type LabelValue struct {
	Row   int        `json:"row" yaml:"row"`
	Label string     `json:"label" yaml:"label"`
	Value types.Cell `json:"value" yaml:"value"`
}

// ArtistInfo is the metadata block at the top of an artist worksheet.
type ArtistInfo struct {
	// StageName is the worksheet name.
	StageName string `json:"stage_name" yaml:"stage_name"`

	// Fields holds the matched values by canonical key.
	Fields map[string]types.Cell `json:"fields" yaml:"fields"`

	// Raw lists every non-empty label/value pair inside the scan window,
	// matched or not, in row order. Labels have their colon removed.
	Raw []LabelValue `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Get returns the value recorded under a canonical key.
func (a ArtistInfo) Get(key string) (types.Cell, bool) {
	c, ok := a.Fields[key]
	return c, ok
}

// Text returns the value under key rendered as text, or "".
func (a ArtistInfo) Text(key string) string {
	c, ok := a.Fields[key]
	if !ok {
		return ""
	}
	return c.String()
}

// LegalName returns the artist's legal name, or "".
func (a ArtistInfo) LegalName() string {
	return a.Text(KeyLegalName)
}

// StartDate returns the contract start date when it can be read as a date.
func (a ArtistInfo) StartDate() (time.Time, bool) {
	return cellDate(a.Fields[KeyStartDate])
}

// EndDate returns the contract end date when it can be read as a date.
func (a ArtistInfo) EndDate() (time.Time, bool) {
	return cellDate(a.Fields[KeyEndDate])
}

// textDateLayouts are the layouts tried for dates typed in as text.
var textDateLayouts = []string{
	"2006-01-02",
	types.DateLayout,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
}

// cellDate reads a cell as a date. Numbers are taken as Excel serial dates.
func cellDate(c types.Cell) (time.Time, bool) {
	switch c.Kind {
	case types.Date:
		return c.Time, true
	case types.Number:
		t, err := excelize.ExcelDateToTime(c.Num, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case types.Text:
		s := strings.TrimSpace(c.Str)
		for _, layout := range textDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// scanArtistInfo reads the label/value block in the first InfoScanRows rows.
// When several rows match the same key the last one wins.
func scanArtistInfo(ws *types.Worksheet, opts Options) ArtistInfo {
	info := ArtistInfo{
		StageName: ws.Name,
		Fields:    make(map[string]types.Cell),
	}

	limit := min(opts.InfoScanRows, ws.RowCount())
	for i := 0; i < limit; i++ {
		labelCell := ws.Cell(i, opts.LabelColumn)
		valueCell := ws.Cell(i, opts.ValueColumn)
		if labelCell.IsEmpty() || valueCell.IsEmpty() {
			continue
		}

		rawLabel := strings.TrimSpace(strings.ReplaceAll(labelCell.String(), ":", ""))
		if rawLabel != "" {
			info.Raw = append(info.Raw, LabelValue{Row: i, Label: rawLabel, Value: valueCell})
		}

		if key, ok := matchLabel(NormalizeLabel(labelCell.String()), opts.Labels); ok {
			info.Fields[key] = valueCell
		}
	}

	return info
}

// matchLabel returns the key of the first rule with a fragment contained in
// the normalised label.
func matchLabel(label string, rules []LabelRule) (string, bool) {
	if label == "" {
		return "", false
	}
	for _, rule := range rules {
		for _, fragment := range rule.Contains {
			if fragment = NormalizeLabel(fragment); fragment != "" && strings.Contains(label, fragment) {
				return rule.Key, true
			}
		}
	}
	return "", false
}
