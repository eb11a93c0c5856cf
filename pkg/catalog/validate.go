package catalog

import "fmt"

// SavePathField is the reserved optional field present on every tool. It is
// split out of the validated record and never forwarded upstream.
const SavePathField = "save_path"

// Validate checks a raw argument bag against the tool's constraint table and
// narrows it to the declared fields. Unrecognized extra fields are silently
// dropped. Validation is pure; no I/O happens here.
func (c *Catalog) Validate(tool string, raw map[string]interface{}) (*ValidatedArgs, error) {
	op, ok := c.ops[tool]
	if !ok || op.Disabled {
		return nil, errUnknownTool(tool)
	}

	va := &ValidatedArgs{Fields: make(map[string]interface{}, len(op.Params))}

	if v, present := raw[SavePathField]; present {
		s, ok := v.(string)
		if !ok {
			return nil, errInvalidField(tool, SavePathField, "must be a string")
		}
		va.SavePath = s
	}

	for _, name := range op.ParamOrder {
		spec := op.Params[name]
		v, present := raw[name]
		if !present || v == nil {
			if spec.Required {
				return nil, errMissingField(tool, name)
			}
			continue
		}
		checked, verr := checkField(tool, name, spec, v)
		if verr != nil {
			return nil, verr
		}
		va.Fields[name] = checked
	}

	return va, nil
}

func checkField(tool, name string, spec FieldSpec, v interface{}) (interface{}, *ValidationError) {
	switch spec.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, errInvalidField(tool, name, "must be a string")
		}
		if len(spec.Enum) > 0 && !inEnum(spec.Enum, s) {
			return nil, errInvalidField(tool, name, fmt.Sprintf("must be one of %v", spec.Enum))
		}
		return s, nil

	case TypeInteger:
		f, ok := toFloat(v)
		if !ok || f != float64(int64(f)) {
			return nil, errInvalidField(tool, name, "must be an integer")
		}
		if verr := checkBounds(tool, name, spec, f); verr != nil {
			return nil, verr
		}
		return f, nil

	case TypeNumber:
		f, ok := toFloat(v)
		if !ok {
			return nil, errInvalidField(tool, name, "must be a number")
		}
		if verr := checkBounds(tool, name, spec, f); verr != nil {
			return nil, verr
		}
		return f, nil

	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, errInvalidField(tool, name, "must be a boolean")
		}
		return b, nil
	}
	return nil, errInvalidField(tool, name, fmt.Sprintf("unsupported field type %q", spec.Type))
}

func checkBounds(tool, name string, spec FieldSpec, f float64) *ValidationError {
	if spec.Min != nil && f < *spec.Min {
		return errInvalidField(tool, name, fmt.Sprintf("must be at least %v", *spec.Min))
	}
	if spec.Max != nil && f > *spec.Max {
		return errInvalidField(tool, name, fmt.Sprintf("must be at most %v", *spec.Max))
	}
	return nil
}

func inEnum(enum []string, v string) bool {
	for _, e := range enum {
		if e == v {
			return true
		}
	}
	return false
}

// toFloat accepts the numeric representations a JSON decode or a caller-built
// map can produce.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
