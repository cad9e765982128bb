package llm

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// cardsPayload mirrors the JSON object the system prompt asks for. It only
// drives structured-output schemas; replies are still decoded by the
// interpret package.
type cardsPayload struct {
	Cards []cardPayload `json:"cards" jsonschema:"required,description=Self-aspect cards in display order"`
}

type cardPayload struct {
	Title       string   `json:"title" jsonschema:"required,description=Short evocative name for the self-aspect"`
	Description string   `json:"description" jsonschema:"required,description=Two or three sentences describing the self-aspect"`
	Traits      []string `json:"traits" jsonschema:"required,description=Two or three defining traits"`
}

var cardsSchema = generateSchema[cardsPayload]()

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	ensureStrictObjects(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]any, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ensureStrictObjects applies the strict structured-output rules: every
// object forbids additional properties and requires all of its properties.
func ensureStrictObjects(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				ensureStrictObjects(pm)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		ensureStrictObjects(items)
	}
}
