package inference

import "github.com/joseph-ayodele/diet-planner/internal/validate"

var (
	entitySpanSchema = map[string]any{
		"type":     "object",
		"required": []string{"entity_group", "word"},
		"properties": map[string]any{
			"entity_group": map[string]any{"type": "string"},
			"word":         map[string]any{"type": "string"},
			"score":        map[string]any{"type": "number"},
		},
	}

	nerSchema = validate.MustCompile(map[string]any{
		"type": "array",
		"items": map[string]any{
			"oneOf": []any{
				entitySpanSchema,
				map[string]any{"type": "array", "items": entitySpanSchema},
			},
		},
	})

	zeroShotSchema = validate.MustCompile(map[string]any{
		"type":     "object",
		"required": []string{"labels", "scores"},
		"properties": map[string]any{
			"sequence": map[string]any{"type": "string"},
			"labels":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"scores":   map[string]any{"type": "array", "items": map[string]any{"type": "number"}},
		},
	})

	riskSchema = validate.MustCompile(map[string]any{
		"type":     "object",
		"required": []string{"prediction"},
		"properties": map[string]any{
			"prediction": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": []string{"number", "string", "boolean"}},
			},
		},
	})
)
