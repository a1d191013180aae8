package features

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Record is one opportunity as decoded from JSON. No field is required.
type Record map[string]interface{}

// FieldKind selects how a raw value is coerced.
type FieldKind int

const (
	KindNumber FieldKind = iota
	KindText
	KindPresence
	KindNested
)

type fieldSpec struct {
	Kind    FieldKind
	Default interface{}
}

// fieldDefaults is the complete tolerance policy for input fields. A value
// that is absent, null, of the wrong type or fails coercion resolves to
// the default listed here.
var fieldDefaults = map[string]fieldSpec{
	"duration_min":      {KindNumber, 0.0},
	"openings":          {KindNumber, 1.0},
	"project_fee_cents": {KindNumber, 0.0},
	"salary":            {KindNumber, 0.0},
	"programme_id":      {KindNumber, 0.0},

	"title":                  {KindText, ""},
	"description":            {KindText, ""},
	"name_entity":            {KindText, ""},
	"name_region":            {KindText, ""},
	"created_at":             {KindText, ""},
	"application_close_date": {KindText, ""},
	"earliest_start_date":    {KindText, ""},
	"latest_end_date":        {KindText, ""},
	"opp_background_req":     {KindText, ""},
	"opp_background_pref":    {KindText, ""},
	"opp_skill_req":          {KindText, ""},
	"opp_skill_pref":         {KindText, ""},
	"opp_language_req":       {KindText, ""},

	"cover_picture_link":   {KindPresence, 0.0},
	"profile_picture_link": {KindPresence, 0.0},

	"logistics_info": {KindNested, map[string]interface{}(nil)},
	"specifics_info": {KindNested, map[string]interface{}(nil)},
	"legal_info":     {KindNested, map[string]interface{}(nil)},
	"role_info":      {KindNested, map[string]interface{}(nil)},
}

// Fields lists every input field the pipeline reads.
func Fields() []string {
	out := make([]string, 0, len(fieldDefaults))
	for name := range fieldDefaults {
		out = append(out, name)
	}
	return out
}

// Extract returns the coerced value of field, or its default. Unknown
// fields return nil.
func Extract(r Record, field string) interface{} {
	spec, ok := fieldDefaults[field]
	if !ok {
		return nil
	}
	switch spec.Kind {
	case KindNumber:
		return r.Number(field)
	case KindText:
		return r.Text(field)
	case KindPresence:
		return r.Presence(field)
	default:
		return r.Nested(field)
	}
}

func defaultNumber(field string) float64 {
	if v, ok := fieldDefaults[field].Default.(float64); ok {
		return v
	}
	return 0
}

// Number coerces JSON numbers and numeric strings.
func (r Record) Number(field string) float64 {
	raw, ok := r[field]
	if !ok || raw == nil {
		return defaultNumber(field)
	}
	if _, isBool := raw.(bool); isBool {
		return defaultNumber(field)
	}
	if s, isString := raw.(string); isString {
		raw = strings.TrimSpace(s)
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return defaultNumber(field)
	}
	return v
}

// Text returns string values only; any other type resolves to "".
func (r Record) Text(field string) string {
	s, ok := r[field].(string)
	if !ok {
		return ""
	}
	return s
}

// Presence is 1 when the field holds a meaningful value.
func (r Record) Presence(field string) float64 {
	return boolToFloat(HasValue(r[field]))
}

// Nested returns the sub-object stored under field. A list yields its
// first element when that element is an object.
func (r Record) Nested(field string) map[string]interface{} {
	return asObject(r[field])
}

// ProgrammeID renders programme_id as a string, so that 1, 1.0 and "1"
// all become "1".
func (r Record) ProgrammeID() string {
	raw, ok := r["programme_id"]
	if !ok || raw == nil {
		return cast.ToString(defaultNumber("programme_id"))
	}
	if f, isFloat := raw.(float64); isFloat && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return ""
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// HasValue reports whether v is non-null, non-zero, non-empty and not a
// NaN marker.
func HasValue(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		t := strings.TrimSpace(x)
		return t != "" && t != "NaN" && t != "nan"
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToFloat64(x) != 0
	case []interface{}:
		return len(x) > 0
	case map[string]interface{}:
		return len(x) > 0
	default:
		return true
	}
}

func asObject(v interface{}) map[string]interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		return x
	case []interface{}:
		if len(x) == 0 {
			return nil
		}
		first, _ := x[0].(map[string]interface{})
		return first
	default:
		return nil
	}
}
