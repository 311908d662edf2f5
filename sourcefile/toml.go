package sourcefile

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Azhovan/envflat"
	"github.com/pelletier/go-toml/v2"
)

// decodeTOML converts a TOML document. TOML tables carry no key order, so
// members are sorted to keep the output deterministic.
func decodeTOML(data []byte) (envflat.Value, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return fromTOML(raw), nil
}

func fromTOML(v any) envflat.Value {
	switch v := v.(type) {
	case map[string]any:
		obj := make(envflat.Object, 0, len(v))
		for _, key := range slices.Sorted(maps.Keys(v)) {
			obj = append(obj, envflat.Member{Key: key, Value: fromTOML(v[key])})
		}
		return obj
	case []any:
		arr := make(envflat.Array, 0, len(v))
		for _, item := range v {
			arr = append(arr, fromTOML(item))
		}
		return arr
	case []map[string]any:
		arr := make(envflat.Array, 0, len(v))
		for _, item := range v {
			arr = append(arr, fromTOML(item))
		}
		return arr
	case string:
		return envflat.String(v)
	case bool:
		return envflat.Bool(v)
	case int64:
		return envflat.Number(strconv.FormatInt(v, 10))
	case float64:
		return envflat.Number(formatFloat(v))
	case nil:
		return envflat.Null{}
	case time.Time:
		return envflat.String(v.Format(time.RFC3339Nano))
	case fmt.Stringer:
		// toml.LocalDate, toml.LocalTime and toml.LocalDateTime
		return envflat.String(v.String())
	default:
		return envflat.String(fmt.Sprint(v))
	}
}

// formatFloat renders f in plain decimal notation when that stays readable
// and keeps a fractional part so floats stay distinguishable from integers.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	var s string
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'e', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
