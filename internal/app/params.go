package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// parseParams converts `name=value` assignments into the cty object exposed
// to node expressions as `param`. Values are inferred: number first, then
// bool, with string as the fallback.
func parseParams(assignments []string) (cty.Value, error) {
	if len(assignments) == 0 {
		return cty.EmptyObjectVal, nil
	}

	vals := make(map[string]cty.Value, len(assignments))
	for _, raw := range assignments {
		name, value, ok := strings.Cut(raw, "=")
		if !ok || name == "" {
			return cty.NilVal, fmt.Errorf("invalid parameter %q: expected name=value", raw)
		}
		vals[name] = inferValue(value)
	}
	return cty.ObjectVal(vals), nil
}

func inferValue(s string) cty.Value {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return cty.NumberFloatVal(n)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return cty.BoolVal(b)
	}
	return cty.StringVal(s)
}
