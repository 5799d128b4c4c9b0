// Package importer maps roster spreadsheets onto student records.
package importer

import (
	"sort"
	"strings"
	"unicode"

	"github.com/yigit/certdesk/internal/app/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// AliasTable lists, per canonical field name, the source headers accepted for it.
type AliasTable map[string][]string

// DefaultAliases accepts each field's label, canonical name and column name, plus common
// spellings seen in school registers.
func DefaultAliases() AliasTable {
	aliases := make(AliasTable, len(models.Fields))
	for _, f := range models.Fields {
		aliases[f.Name] = []string{f.Label, f.Name, f.Column}
	}

	extra := map[string][]string{
		"grn":             {"G.R. No", "GR No", "General Register No", "Register No"},
		"penNo":           {"PEN", "PEN Number"},
		"aadharNo":        {"Aadhar", "Aadhaar No", "UID"},
		"name":            {"Student Name", "First Name"},
		"surname":         {"Last Name", "Family Name"},
		"fathersName":     {"Father Name", "Fathers Name"},
		"mothersName":     {"Mother Name", "Mothers Name"},
		"dateOfBirth":     {"DOB", "Birth Date"},
		"placeOfBirth":    {"Birth Place"},
		"motherTongue":    {"Mother-Tongue"},
		"currentStandard": {"Standard", "Class", "Std"},
		"dateOfAdmission": {"Admission Date", "DOA"},
		"dateOfLeaving":   {"Leaving Date", "DOL"},
	}
	for name, more := range extra {
		aliases[name] = append(aliases[name], more...)
	}
	return aliases
}

// Merge returns a copy of a with extra aliases appended. Unknown field names are dropped.
func (a AliasTable) Merge(extra map[string][]string) AliasTable {
	out := make(AliasTable, len(a))
	for name, list := range a {
		out[name] = append([]string(nil), list...)
	}
	for name, list := range extra {
		if _, ok := models.LookupField(name); !ok {
			continue
		}
		out[name] = append(out[name], list...)
	}
	return out
}

// NormalizeHeader folds a header for loose matching: NFKC, case folded, letters and digits only.
func NormalizeHeader(h string) string {
	folded := cases.Fold().String(norm.NFKC.String(h))
	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Mapper converts raw spreadsheet rows into student records.
type Mapper struct {
	aliases AliasTable
}

// NewMapper creates a mapper over the given alias table; nil uses DefaultAliases.
func NewMapper(aliases AliasTable) *Mapper {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Mapper{aliases: aliases}
}

// MapRow builds a record from one raw row. Headers match an alias exactly first, then by
// NormalizeHeader. Missing columns leave the field empty and values are copied unmodified.
// It reports false when every mapped field is blank.
func (m *Mapper) MapRow(raw map[string]string) (models.StudentRecord, bool) {
	loose := looseIndex(raw)

	var rec models.StudentRecord
	for _, f := range models.Fields {
		if v, ok := m.lookup(f.Name, raw, loose); ok {
			f.Set(&rec, v)
		}
	}
	return rec, !rec.Blank()
}

func (m *Mapper) lookup(name string, raw map[string]string, loose map[string]string) (string, bool) {
	aliases := m.aliases[name]
	for _, alias := range aliases {
		if v, ok := raw[alias]; ok {
			return v, true
		}
	}
	for _, alias := range aliases {
		if key, ok := loose[NormalizeHeader(alias)]; ok {
			return raw[key], true
		}
	}
	return "", false
}

// looseIndex maps normalized headers to raw headers; the first header in sorted order wins.
func looseIndex(raw map[string]string) map[string]string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	idx := make(map[string]string, len(keys))
	for _, k := range keys {
		n := NormalizeHeader(k)
		if n == "" {
			continue
		}
		if _, taken := idx[n]; !taken {
			idx[n] = k
		}
	}
	return idx
}
