package records

// pageSchema describes the shape of a database page that Normalize relies on.
// Position is optional; every other property must be present.
func pageSchema(f Fields) map[string]any {
	textProp := func(key string) map[string]any {
		return map[string]any{
			"type":     "object",
			"required": []string{key},
			"properties": map[string]any{
				key: map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
			},
		}
	}
	selectProp := map[string]any{
		"type":     "object",
		"required": []string{"select"},
		"properties": map[string]any{
			"select": map[string]any{
				"type":       []string{"object", "null"},
				"properties": map[string]any{"name": map[string]any{"type": "string"}},
			},
		},
	}
	dateProp := map[string]any{
		"type":     "object",
		"required": []string{"date"},
		"properties": map[string]any{
			"date": map[string]any{
				"type":       []string{"object", "null"},
				"required":   []string{"start"},
				"properties": map[string]any{"start": map[string]any{"type": "string"}},
			},
		},
	}
	numberProp := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"number": map[string]any{"type": []string{"number", "null"}},
		},
	}

	return map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []string{"id", "properties"},
		"properties": map[string]any{
			"id": map[string]any{"type": "string", "minLength": 1},
			"properties": map[string]any{
				"type": "object",
				"required": []string{
					f.Company, f.JobTitle, f.JobDescription, f.DateApplied,
					f.Origin, f.Stage, f.Language, f.CoverLetter,
				},
				"properties": map[string]any{
					f.Company:        textProp("rich_text"),
					f.JobTitle:       textProp("title"),
					f.JobDescription: textProp("rich_text"),
					f.DateApplied:    dateProp,
					f.Origin:         selectProp,
					f.Stage:          selectProp,
					f.Language:       selectProp,
					f.CoverLetter:    selectProp,
					f.Position:       numberProp,
				},
			},
		},
	}
}
