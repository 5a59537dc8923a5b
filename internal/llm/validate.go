package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var schemaCache sync.Map // name -> *jsonschema.Schema

// codeFence matches a whole response wrapped in a markdown code block.
var codeFence = regexp.MustCompile("(?s)^\\s*```(?:json)?\\s*(.*?)\\s*```\\s*$")

// finish fills in the content of a provider response. With a schema, a
// truncated answer becomes ErrMaxTokensExceeded and anything else must
// validate.
func finish(req Request, text string, resp *Response) (*Response, error) {
	resp.Content = json.RawMessage(text)
	if req.Schema == nil {
		return resp, nil
	}
	if resp.StopReason == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}
	content, err := structuredContent(req.Schema, text)
	if err != nil {
		return nil, err
	}
	resp.Content = content
	return resp, nil
}

// structuredContent unwraps a fenced JSON answer and validates it.
func structuredContent(schema *Schema, text string) (json.RawMessage, error) {
	if m := codeFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	raw := json.RawMessage(text)
	if err := validateResponse(schema, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// validateResponse checks raw against schema. A nil schema accepts
// anything; failures are *ErrInvalidResponse.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(what string, err error) error {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("%s: %w", what, err)}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return invalid("invalid JSON", err)
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return invalid("compile schema "+schema.Name, err)
	}
	if err := compiled.Validate(doc); err != nil {
		return invalid("schema validation failed", err)
	}
	return nil
}

// compileSchema compiles a schema once per name.
func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants decoded JSON values, not Go maps of arbitrary types.
	b, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, err
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	url := "schema://" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, err
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
