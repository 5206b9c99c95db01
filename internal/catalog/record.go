package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrDecode marks a catalog document that is not valid JSON.
var ErrDecode = errors.New("catalog: decode document")

// Airbag document sections double as filter tags.
const (
	SectionAirbagVests    = "airbag_vests"
	SectionBackProtectors = "back_protectors"
	SectionOtherProducts  = "other_products"
)

// Record is a raw catalog entry. The concrete type is one of the per-category
// variants below; Map switches over them.
type Record interface {
	Category() Category
	Base() BaseRecord
	sealed()
}

// BaseRecord holds the fields every category shares.
type BaseRecord struct {
	Name         Text       `json:"name"`
	Title        Text       `json:"title"`
	Images       StringList `json:"images"`
	Price        Price      `json:"price"`
	Brand        Text       `json:"brand"`
	Manufacturer Text       `json:"manufacturer"`
	Description  Text       `json:"description"`
	// Extra holds every top-level key not modelled above, in document order.
	Extra Attributes `json:"-"`
}

type HelmetRecord struct {
	BaseRecord
	Features Attributes `json:"features"`
}

type BikerRecord struct {
	BaseRecord
	Features Attributes `json:"features"`
}

type AirbagRecord struct {
	BaseRecord
	Features Attributes `json:"features"`
	Section  string     `json:"-"`
}

type SparePartRecord struct {
	BaseRecord
	Features        Attributes     `json:"features"`
	Characteristics Attributes     `json:"characteristics"`
	Reviews         Count          `json:"reviews"`
	DiscountPrice   Amount         `json:"discount_price"`
	PaymentOptions  PaymentOptions `json:"payment_options"`
}

type SportswearRecord struct {
	BaseRecord
	Features      Attributes `json:"features"`
	SalePrice     Amount     `json:"salePrice"`
	OriginalPrice Amount     `json:"originalPrice"`
	Sizes         StringList `json:"sizes"`
	Color         Text       `json:"color"`
	Reviews       Count      `json:"reviews"`
}

type ScooterRecord struct {
	BaseRecord
	Features Attributes `json:"features"`
}

func (HelmetRecord) Category() Category     { return Helmets }
func (BikerRecord) Category() Category      { return BikerEquipment }
func (AirbagRecord) Category() Category     { return AirbagProtection }
func (SparePartRecord) Category() Category  { return SpareParts }
func (SportswearRecord) Category() Category { return Sportswear }
func (ScooterRecord) Category() Category    { return ScooterEquipment }

func (r HelmetRecord) Base() BaseRecord     { return r.BaseRecord }
func (r BikerRecord) Base() BaseRecord      { return r.BaseRecord }
func (r AirbagRecord) Base() BaseRecord     { return r.BaseRecord }
func (r SparePartRecord) Base() BaseRecord  { return r.BaseRecord }
func (r SportswearRecord) Base() BaseRecord { return r.BaseRecord }
func (r ScooterRecord) Base() BaseRecord    { return r.BaseRecord }

func (HelmetRecord) sealed()     {}
func (BikerRecord) sealed()      {}
func (AirbagRecord) sealed()     {}
func (SparePartRecord) sealed()  {}
func (SportswearRecord) sealed() {}
func (ScooterRecord) sealed()    {}

// knownKeys are excluded from BaseRecord.Extra.
var knownKeys = map[string]struct{}{
	"images": {}, "name": {}, "title": {}, "brand": {}, "manufacturer": {},
	"features": {}, "characteristics": {}, "sizes": {}, "color": {}, "price": {},
	"salePrice": {}, "originalPrice": {}, "reviews": {}, "description": {},
}

// Document is one parsed category file.
type Document struct {
	Category Category
	Records  []Record
}

// rawList decodes a JSON array into its elements; any other shape is an empty list.
type rawList []json.RawMessage

func (l *rawList) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		*l = nil
		return nil
	}
	*l = items
	return nil
}

// Decode parses the JSON document of cat. Only invalid JSON is an error; missing
// arrays and malformed records are tolerated.
func Decode(cat Category, r io.Reader) (Document, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	doc := Document{Category: cat}
	switch cat {
	case Helmets:
		var env struct {
			Helmets rawList `json:"helmets"`
		}
		if err := unmarshalEnvelope(body, &env); err != nil {
			return Document{}, err
		}
		doc.Records = decodeRecords(env.Helmets, func(raw json.RawMessage) (Record, bool) {
			var rec HelmetRecord
			ok := decodeRecord(raw, &rec, &rec.BaseRecord)
			return rec, ok
		})
	case BikerEquipment:
		var env struct {
			Items rawList `json:"biker_equipment"`
		}
		if err := unmarshalEnvelope(body, &env); err != nil {
			return Document{}, err
		}
		doc.Records = decodeRecords(env.Items, func(raw json.RawMessage) (Record, bool) {
			var rec BikerRecord
			ok := decodeRecord(raw, &rec, &rec.BaseRecord)
			return rec, ok
		})
	case AirbagProtection:
		var env struct {
			Vests  rawList `json:"airbag_vests"`
			Backs  rawList `json:"back_protectors"`
			Others rawList `json:"other_products"`
		}
		if err := unmarshalEnvelope(body, &env); err != nil {
			return Document{}, err
		}
		for _, section := range []struct {
			name  string
			items rawList
		}{
			{SectionAirbagVests, env.Vests},
			{SectionBackProtectors, env.Backs},
			{SectionOtherProducts, env.Others},
		} {
			name := section.name
			doc.Records = append(doc.Records, decodeRecords(section.items, func(raw json.RawMessage) (Record, bool) {
				var rec AirbagRecord
				ok := decodeRecord(raw, &rec, &rec.BaseRecord)
				rec.Section = name
				return rec, ok
			})...)
		}
	case SpareParts:
		var env struct {
			Products rawList `json:"products"`
		}
		if err := unmarshalEnvelope(body, &env); err != nil {
			return Document{}, err
		}
		doc.Records = decodeRecords(env.Products, func(raw json.RawMessage) (Record, bool) {
			var rec SparePartRecord
			ok := decodeRecord(raw, &rec, &rec.BaseRecord)
			return rec, ok
		})
	case Sportswear:
		var env struct {
			Products rawList `json:"products"`
		}
		if err := unmarshalEnvelope(body, &env); err != nil {
			return Document{}, err
		}
		doc.Records = decodeRecords(env.Products, func(raw json.RawMessage) (Record, bool) {
			var rec SportswearRecord
			ok := decodeRecord(raw, &rec, &rec.BaseRecord)
			return rec, ok
		})
	case ScooterEquipment:
		var env struct {
			Products rawList `json:"products"`
		}
		if err := unmarshalEnvelope(body, &env); err != nil {
			return Document{}, err
		}
		doc.Records = decodeRecords(env.Products, func(raw json.RawMessage) (Record, bool) {
			var rec ScooterRecord
			ok := decodeRecord(raw, &rec, &rec.BaseRecord)
			return rec, ok
		})
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	return doc, nil
}

func unmarshalEnvelope(body []byte, env any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: empty body", ErrDecode)
	}
	if err := json.Unmarshal(body, env); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func decodeRecords(items rawList, decode func(json.RawMessage) (Record, bool)) []Record {
	out := make([]Record, 0, len(items))
	for _, raw := range items {
		if rec, ok := decode(raw); ok {
			out = append(out, rec)
		}
	}
	return out
}

// decodeRecord fills dst from raw and collects the unmodelled keys into base.Extra.
// Entries that are not JSON objects are dropped.
func decodeRecord(raw json.RawMessage, dst any, base *BaseRecord) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return false
	}
	var all Attributes
	_ = json.Unmarshal(trimmed, &all)
	for _, a := range all {
		if _, known := knownKeys[a.Key]; !known {
			base.Extra = append(base.Extra, a)
		}
	}
	return true
}

// Attr is one key/value pair of a features or characteristics map.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attributes is a JSON object decoded in document order. Non-object input decodes to nil.
type Attributes []Attr

func (a *Attributes) UnmarshalJSON(b []byte) error {
	*a = nil
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}
	var out Attributes
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil
		}
		key, _ := kt.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil
		}
		out = append(out, Attr{Key: key, Value: attrValue(raw)})
	}
	*a = out
	return nil
}

// Get returns the value of the first key present, so callers can pass the French
// key followed by its English alias.
func (a Attributes) Get(keys ...string) (string, bool) {
	for _, k := range keys {
		for _, attr := range a {
			if attr.Key == k {
				return attr.Value, true
			}
		}
	}
	return "", false
}

// Value is Get without the presence flag.
func (a Attributes) Value(keys ...string) string {
	v, _ := a.Get(keys...)
	return v
}

func attrValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case 'n':
		return ""
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err == nil {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				if v := attrValue(item); v != "" {
					parts = append(parts, v)
				}
			}
			return strings.Join(parts, ", ")
		}
	}
	return string(raw)
}

// Text is a string field that decodes any non-string JSON value as empty.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*t = ""
		return nil
	}
	*t = Text(s)
	return nil
}

func (t Text) String() string { return string(t) }

// StringList accepts a list of strings or a single string. Non-string items are dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	*l = nil
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single != "" {
			*l = StringList{single}
		}
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil && s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

// Count is a non-negative integer that also accepts numeric strings. Values
// beyond math.MaxInt32 are clamped.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	*c = 0
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		n = json.Number(strings.TrimSpace(s))
	}
	if v, err := strconv.ParseFloat(n.String(), 64); err == nil && v > 0 {
		*c = Count(min(v, math.MaxInt32))
	}
	return nil
}

// PaymentOptions lists financing offers of a spare part.
type PaymentOptions struct {
	Available StringList `json:"available"`
}

func (p *PaymentOptions) UnmarshalJSON(b []byte) error {
	var raw struct {
		Available StringList `json:"available"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		*p = PaymentOptions{}
		return nil
	}
	p.Available = raw.Available
	return nil
}
