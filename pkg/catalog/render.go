package catalog

// ToolDefinition is one entry of the tool-discovery payload sent to the host.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// RenderTools renders the enabled catalogue as tool-discovery payloads, in
// catalogue order.
func (c *Catalog) RenderTools() []ToolDefinition {
	ops := c.List()
	out := make([]ToolDefinition, 0, len(ops))
	for _, op := range ops {
		out = append(out, ToolDefinition{
			Name:        op.Name,
			Description: op.Description,
			InputSchema: renderSchema(op),
		})
	}
	return out
}

// renderSchema renders an operation's constraint table as a JSON Schema
// object. Extra fields are tolerated on input, so additionalProperties is
// left unset.
func renderSchema(op *Operation) map[string]interface{} {
	properties := make(map[string]interface{}, len(op.Params)+1)
	required := make([]string, 0, len(op.ParamOrder))

	for _, name := range op.ParamOrder {
		spec := op.Params[name]
		prop := map[string]interface{}{
			"type": string(spec.Type),
		}
		if spec.Help != "" {
			prop["description"] = spec.Help
		}
		if len(spec.Enum) > 0 {
			enum := make([]interface{}, len(spec.Enum))
			for i, e := range spec.Enum {
				enum[i] = e
			}
			prop["enum"] = enum
		}
		if spec.Min != nil {
			prop["minimum"] = *spec.Min
		}
		if spec.Max != nil {
			prop["maximum"] = *spec.Max
		}
		properties[name] = prop
		if spec.Required {
			required = append(required, name)
		}
	}

	properties[SavePathField] = map[string]interface{}{
		"type":        "string",
		"description": "Local path to save the result to. Defaults to a timestamped file in the output directory.",
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
