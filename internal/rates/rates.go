// internal/rates/rates.go
package rates

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"time"

	"juros-justos/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const periodLayout = "2006-01"

//go:embed data/taxas.yaml
var bundled []byte

// Table is the reference rate table. It is built once and never mutated;
// accessors hand out copies.
type Table struct {
	types []domain.CreditType
	rows  map[string]map[string]domain.RateRow
}

type rawTable struct {
	CreditTypes []struct {
		Key   string `yaml:"chave"`
		Label string `yaml:"rotulo"`
	} `yaml:"tipos_credito"`
	Rates map[string]map[string]struct {
		AcimaMedia string `yaml:"acima_media"`
		Abusiva    string `yaml:"abusiva"`
	} `yaml:"taxas"`
}

// Load parses the table bundled with the binary.
func Load() (*Table, error) {
	return Parse(bundled)
}

func MustLoad() *Table {
	t, err := Load()
	if err != nil {
		panic("rates: bundled table is invalid: " + err.Error())
	}
	return t
}

// Parse builds a Table from YAML. Every product listed under tipos_credito
// must have rows and every row must belong to a listed product.
func Parse(data []byte) (*Table, error) {
	var raw rawTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode rates yaml: %w", err)
	}
	if len(raw.CreditTypes) == 0 {
		return nil, fmt.Errorf("no credit types defined")
	}

	t := &Table{
		types: make([]domain.CreditType, 0, len(raw.CreditTypes)),
		rows:  make(map[string]map[string]domain.RateRow, len(raw.Rates)),
	}

	for _, ct := range raw.CreditTypes {
		key := strings.TrimSpace(ct.Key)
		if key == "" || strings.TrimSpace(ct.Label) == "" {
			return nil, fmt.Errorf("credit type needs chave and rotulo: %+v", ct)
		}
		if t.Has(key) {
			return nil, fmt.Errorf("duplicate credit type %q", key)
		}
		t.types = append(t.types, domain.CreditType{Key: key, Label: strings.TrimSpace(ct.Label)})
		t.rows[key] = nil
	}

	for key, periods := range raw.Rates {
		if _, ok := t.rows[key]; !ok {
			return nil, fmt.Errorf("rates for unknown credit type %q", key)
		}
		byPeriod := make(map[string]domain.RateRow, len(periods))
		for period, r := range periods {
			if !validPeriodKey(period) {
				return nil, fmt.Errorf("%s: invalid period %q, expected YYYY-MM", key, period)
			}
			acima, err := decimal.NewFromString(strings.TrimSpace(r.AcimaMedia))
			if err != nil {
				return nil, fmt.Errorf("%s %s: acima_media: %w", key, period, err)
			}
			abusiva, err := decimal.NewFromString(strings.TrimSpace(r.Abusiva))
			if err != nil {
				return nil, fmt.Errorf("%s %s: abusiva: %w", key, period, err)
			}
			if !acima.IsPositive() || !abusiva.IsPositive() {
				return nil, fmt.Errorf("%s %s: thresholds must be positive", key, period)
			}
			if abusiva.LessThan(acima) {
				return nil, fmt.Errorf("%s %s: abusiva %s below acima_media %s", key, period, abusiva, acima)
			}
			byPeriod[period] = domain.RateRow{AcimaMedia: acima, Abusiva: abusiva}
		}
		t.rows[key] = byPeriod
	}

	for _, ct := range t.types {
		if len(t.rows[ct.Key]) == 0 {
			return nil, fmt.Errorf("credit type %q has no rates", ct.Key)
		}
	}

	return t, nil
}

// PeriodKey builds the "YYYY-MM" lookup key; the month is zero-padded.
func PeriodKey(month, year int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func validPeriodKey(s string) bool {
	p, err := time.Parse(periodLayout, s)
	return err == nil && p.Format(periodLayout) == s
}

func (t *Table) Lookup(creditType, period string) (domain.RateRow, bool) {
	row, ok := t.rows[creditType][period]
	return row, ok
}

func (t *Table) Has(creditType string) bool {
	_, ok := t.rows[creditType]
	return ok
}

// CreditTypes returns the products in display order.
func (t *Table) CreditTypes() []domain.CreditType {
	return slices.Clone(t.types)
}

func (t *Table) Label(creditType string) (string, bool) {
	for _, ct := range t.types {
		if ct.Key == creditType {
			return ct.Label, true
		}
	}
	return "", false
}

// Periods lists the period keys available for a product, oldest first.
func (t *Table) Periods(creditType string) []string {
	periods := make([]string, 0, len(t.rows[creditType]))
	for p := range t.rows[creditType] {
		periods = append(periods, p)
	}
	slices.Sort(periods)
	return periods
}

// Years lists every year present in the table, newest first.
func (t *Table) Years() []int {
	seen := make(map[int]struct{})
	for _, byPeriod := range t.rows {
		for p := range byPeriod {
			parsed, _ := time.Parse(periodLayout, p)
			seen[parsed.Year()] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years
}
