package fetcher

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jpalmerr/postboard/internal/store"
)

// DefaultItemsPath selects the whole response body.
const DefaultItemsPath = "$"

// DefaultSchema is the JSON Schema a posts list must satisfy unless a
// custom schema is configured.
const DefaultSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title"],
    "properties": {
      "id":     {"type": "integer"},
      "title":  {"type": "string"},
      "userId": {"type": "integer"},
      "body":   {"type": "string"}
    }
  }
}`

// Decoder turns a response body into posts.
//
// The posts array is located with a JSONPath expression and validated
// against a JSON Schema before any post is built. A Decoder is safe for
// concurrent use.
type Decoder struct {
	pathText string
	path     jp.Expr
	multi    bool
	schema   *gojsonschema.Schema
}

// NewDecoder compiles itemsPath and schema. An empty itemsPath means
// [DefaultItemsPath]; an empty schema means [DefaultSchema].
func NewDecoder(itemsPath string, schema []byte) (*Decoder, error) {
	if itemsPath == "" {
		itemsPath = DefaultItemsPath
	}
	path, err := jp.ParseString(itemsPath)
	if err != nil {
		return nil, fmt.Errorf("invalid items path %q: %w", itemsPath, err)
	}

	if len(schema) == 0 {
		schema = []byte(DefaultSchema)
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	return &Decoder{pathText: itemsPath, path: path, multi: selectsMany(path), schema: compiled}, nil
}

// selectsMany reports whether x can match any number of nodes, in which case
// its results are the posts rather than a container holding them.
func selectsMany(x jp.Expr) bool {
	for _, f := range x {
		switch f.(type) {
		case jp.Wildcard, jp.Descent, jp.Union, jp.Slice, *jp.Filter:
			return true
		}
	}
	return false
}

// Decode parses body and returns the posts in response order.
// Any mismatch is reported as a [*DecodeError].
func (d *Decoder) Decode(body []byte) ([]store.Post, error) {
	data, err := oj.Parse(body)
	if err != nil {
		return nil, &DecodeError{Reason: "malformed JSON", Err: err}
	}

	var results []any
	if d.pathText == DefaultItemsPath {
		results = []any{data}
	} else {
		results = d.path.Get(data)
	}

	var doc any
	switch {
	case d.multi:
		// paths such as $.data[*] yield the elements themselves, possibly none
		doc = append([]any{}, results...)
	case len(results) == 0:
		return nil, &DecodeError{Reason: fmt.Sprintf("items path %q matched nothing", d.pathText)}
	default:
		doc = results[0]
	}

	result, err := d.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, &DecodeError{Reason: "schema validation failed", Err: err}
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			violations = append(violations, re.String())
		}
		return nil, &DecodeError{Reason: "response does not match schema", Violations: violations}
	}

	elems, ok := doc.([]any)
	if !ok {
		return nil, &DecodeError{Reason: fmt.Sprintf("items are %T, not an array", doc)}
	}

	posts := make([]store.Post, 0, len(elems))
	for i, el := range elems {
		p, err := toPost(el)
		if err != nil {
			return nil, &DecodeError{Reason: fmt.Sprintf("items[%d]", i), Err: err}
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// toPost builds a Post from one decoded element. Custom schemas may not
// require id and title, so both are checked again here.
func toPost(el any) (store.Post, error) {
	obj, ok := el.(map[string]any)
	if !ok {
		return store.Post{}, fmt.Errorf("expected object, got %T", el)
	}

	var id int64
	switch v := obj["id"].(type) {
	case int64:
		id = v
	case float64:
		if v != float64(int64(v)) {
			return store.Post{}, fmt.Errorf("id %v is not an integer", v)
		}
		id = int64(v)
	case nil:
		return store.Post{}, fmt.Errorf("missing id")
	default:
		return store.Post{}, fmt.Errorf("id has type %T, want integer", v)
	}

	title, ok := obj["title"].(string)
	if !ok {
		return store.Post{}, fmt.Errorf("missing or non-string title")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(obj); err != nil {
		return store.Post{}, fmt.Errorf("re-encode: %w", err)
	}

	return store.Post{ID: id, Title: title, Raw: bytes.TrimSuffix(buf.Bytes(), []byte("\n"))}, nil
}
