package service

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"

	"paynote/internal/models"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"
)

const (
	defaultCurrency         = "EUR"
	defaultPaymentTermsDays = 30
	maxPaymentTermsDays     = 365
)

// Amounts are stored as NUMERIC(14,2).
var maxAmount = decimal.New(1, 12)

var (
	codeFenceRe     = regexp.MustCompile("(?i)```(?:json)?[ \t]*\r?\n?")
	leadingNumberRe = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)
	firstIntegerRe  = regexp.MustCompile(`\d+`)
	currencyCodeRe  = regexp.MustCompile(`^[A-Z]{3}$`)
)

var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"₽": "RUB",
}

// A draft is rejected when any of these is missing, blank or numerically zero.
const draftSchemaJSON = `{
	"type": "object",
	"required": ["client_name", "service_description", "unit_price"],
	"properties": {
		"client_name": {"type": "string", "pattern": "\\S"},
		"service_description": {"type": "string", "pattern": "\\S"},
		"unit_price": {
			"anyOf": [
				{"type": "number", "not": {"const": 0}},
				{"type": "string", "pattern": "\\S"}
			]
		}
	}
}`

var draftSchema = mustCompileSchema("draft.json", draftSchemaJSON)

func mustCompileSchema(name, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(name)
}

// NormalizeExtraction turns raw model output into a validated draft. It has no
// side effects: the same input always yields the same draft or the same error.
func NormalizeExtraction(raw string) (*models.InvoiceDraft, error) {
	obj, ok := parseExtraction(raw)
	if !ok {
		return nil, &models.ExtractionFormatError{Reason: models.ReasonMalformedOutput}
	}

	if err := draftSchema.Validate(obj); err != nil {
		return nil, &models.ExtractionFormatError{Reason: models.ReasonIncompleteData}
	}

	unitPrice, ok := coerceDecimal(obj["unit_price"])
	if !ok || !inAmountRange(unitPrice) {
		return nil, &models.ExtractionFormatError{Reason: models.ReasonNonNumericPrice}
	}
	if unitPrice.IsZero() {
		return nil, &models.ExtractionFormatError{Reason: models.ReasonIncompleteData}
	}

	quantity, ok := coerceDecimal(obj["quantity"])
	if !ok || !quantity.IsPositive() || !inAmountRange(quantity) {
		quantity = decimal.NewFromInt(1)
	}
	if !inAmountRange(LineTotal(quantity, unitPrice)) {
		return nil, &models.ExtractionFormatError{Reason: models.ReasonNonNumericPrice}
	}

	return &models.InvoiceDraft{
		ClientName:         cleanText(obj["client_name"]),
		ClientEmail:        optionalText(obj["client_email"]),
		ClientCompany:      optionalText(obj["client_company"]),
		ServiceDescription: cleanText(obj["service_description"]),
		Quantity:           quantity,
		UnitPrice:          unitPrice,
		Currency:           normalizeCurrency(obj["currency"]),
		PaymentTermsDays:   paymentTermsDays(obj),
	}, nil
}

// parseExtraction strips code fences and decodes a single JSON object. Prose
// around the object is tolerated by retrying on the outermost brace span.
func parseExtraction(raw string) (map[string]any, bool) {
	cleaned := strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))
	if obj, ok := decodeObject(cleaned); ok {
		return obj, true
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return decodeObject(raw[start : end+1])
}

func decodeObject(text string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return obj, true
}

// coerceDecimal accepts JSON numbers and strings starting with a number such as
// "400", "400$", "1 200,50" or "€ 99.90".
func coerceDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		s := strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(t)
		s = strings.TrimLeft(s, "$€£₽")
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
		m := leadingNumberRe.FindString(s)
		if m == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(m)
		return d, err == nil
	}
	return decimal.Zero, false
}

func inAmountRange(d decimal.Decimal) bool {
	return d.Abs().LessThan(maxAmount)
}

func normalizeCurrency(v any) string {
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	if code, ok := currencySymbols[s]; ok {
		return code
	}
	s = strings.ToUpper(s)
	if currencyCodeRe.MatchString(s) {
		return s
	}
	return defaultCurrency
}

func paymentTermsDays(obj map[string]any) int {
	for _, key := range []string{"payment_terms_days", "payment_terms"} {
		if days, ok := positiveDays(obj[key]); ok {
			return days
		}
	}
	return defaultPaymentTermsDays
}

func positiveDays(v any) (int, bool) {
	var d decimal.Decimal
	switch t := v.(type) {
	case json.Number:
		parsed, err := decimal.NewFromString(t.String())
		if err != nil {
			return 0, false
		}
		d = parsed
	case string:
		m := firstIntegerRe.FindString(t)
		if m == "" {
			return 0, false
		}
		parsed, err := decimal.NewFromString(m)
		if err != nil {
			return 0, false
		}
		d = parsed
	default:
		return 0, false
	}

	if !d.IsPositive() || d.GreaterThan(decimal.NewFromInt(maxPaymentTermsDays)) {
		return 0, false
	}
	days := d.IntPart()
	if days == 0 {
		return 0, false
	}
	return int(days), true
}

func cleanText(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(sanitizeUTF8(s))
}

func optionalText(v any) *string {
	s := cleanText(v)
	if s == "" {
		return nil
	}
	return &s
}
