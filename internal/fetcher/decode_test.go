package fetcher

import (
	"errors"
	"strings"
	"testing"
)

func TestDecoder_Decode(t *testing.T) {
	d, err := NewDecoder("", nil)
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}

	body := []byte(`[{"userId":1,"id":1,"title":"A","body":"x"},{"id":2,"title":"B"}]`)
	posts, err := d.Decode(body)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].ID != 1 || posts[0].Title != "A" {
		t.Errorf("posts[0] = %+v, want id 1 title A", posts[0])
	}
	if posts[1].ID != 2 || posts[1].Title != "B" {
		t.Errorf("posts[1] = %+v, want id 2 title B", posts[1])
	}
	if !strings.Contains(string(posts[0].Raw), `"body":"x"`) {
		t.Errorf("posts[0].Raw = %s, want unknown fields kept", posts[0].Raw)
	}
}

func TestDecoder_Decode_EmptyArray(t *testing.T) {
	d, _ := NewDecoder("", nil)

	posts, err := d.Decode([]byte(`[]`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("posts = %v, want empty non-nil slice", posts)
	}
}

func TestDecoder_Decode_Errors(t *testing.T) {
	tests := []struct {
		name       string
		itemsPath  string
		body       string
		wantReason string
	}{
		{
			name:       "malformed JSON",
			body:       `[{"id":1,`,
			wantReason: "malformed JSON",
		},
		{
			name:       "object instead of array",
			body:       `{"id":1,"title":"A"}`,
			wantReason: "does not match schema",
		},
		{
			name:       "missing title",
			body:       `[{"id":1}]`,
			wantReason: "does not match schema",
		},
		{
			name:       "string id",
			body:       `[{"id":"1","title":"A"}]`,
			wantReason: "does not match schema",
		},
		{
			name:       "items path matches nothing",
			itemsPath:  "$.data",
			body:       `{"other":[]}`,
			wantReason: "matched nothing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDecoder(tt.itemsPath, nil)
			if err != nil {
				t.Fatalf("NewDecoder() error = %v", err)
			}

			_, err = d.Decode([]byte(tt.body))
			if err == nil {
				t.Fatal("Decode() error = nil, want DecodeError")
			}

			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("error type = %T, want *DecodeError", err)
			}
			if !strings.Contains(decodeErr.Error(), tt.wantReason) {
				t.Errorf("error = %q, want it to contain %q", decodeErr.Error(), tt.wantReason)
			}
		})
	}
}

func TestDecoder_Decode_ItemsPath(t *testing.T) {
	body := []byte(`{"meta":{"page":1},"data":[{"id":5,"title":"E"},{"id":6,"title":"F"}]}`)

	for _, path := range []string{"$.data", "$.data[*]"} {
		t.Run(path, func(t *testing.T) {
			d, err := NewDecoder(path, nil)
			if err != nil {
				t.Fatalf("NewDecoder() error = %v", err)
			}

			posts, err := d.Decode(body)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(posts) != 2 || posts[0].ID != 5 || posts[1].Title != "F" {
				t.Errorf("posts = %+v, want [5 E] [6 F]", posts)
			}
		})
	}
}

func TestDecoder_Decode_WildcardMatchCount(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		want []int64
	}{
		{"one element", "$.data[*]", `{"data":[{"id":7,"title":"G"}]}`, []int64{7}},
		{"no elements", "$.data[*]", `{"data":[]}`, nil},
		{"slice of one", "$.data[0:1]", `{"data":[{"id":8,"title":"H"},{"id":9,"title":"I"}]}`, []int64{8}},
		{"descent", "$..posts[*]", `{"a":{"posts":[{"id":1,"title":"A"}]}}`, []int64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDecoder(tt.path, nil)
			if err != nil {
				t.Fatalf("NewDecoder() error = %v", err)
			}

			posts, err := d.Decode([]byte(tt.body))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(posts) != len(tt.want) {
				t.Fatalf("len(posts) = %d, want %d", len(posts), len(tt.want))
			}
			for i, id := range tt.want {
				if posts[i].ID != id {
					t.Errorf("posts[%d].ID = %d, want %d", i, posts[i].ID, id)
				}
			}
		})
	}
}

func TestDecoder_Decode_RawKeepsValues(t *testing.T) {
	d, _ := NewDecoder("", nil)

	posts, err := d.Decode([]byte(`[{"userId":3,"id":1,"title":"a<b & c","body":"x"}]`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	raw := string(posts[0].Raw)
	for _, want := range []string{`"userId":3`, `"id":1`, `"title":"a<b & c"`, `"body":"x"`} {
		if !strings.Contains(raw, want) {
			t.Errorf("Raw = %s, want it to contain %s", raw, want)
		}
	}
	if strings.HasSuffix(raw, "\n") {
		t.Errorf("Raw = %q, want no trailing newline", raw)
	}
}

func TestDecoder_CustomSchema(t *testing.T) {
	schema := []byte(`{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "title", "author"],
			"properties": {"author": {"type": "string"}}
		}
	}`)

	d, err := NewDecoder("", schema)
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}

	if _, err := d.Decode([]byte(`[{"id":1,"title":"A","author":"me"}]`)); err != nil {
		t.Errorf("Decode(valid) error = %v", err)
	}

	_, err = d.Decode([]byte(`[{"id":1,"title":"A"}]`))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Decode(missing author) error = %v, want *DecodeError", err)
	}
	if len(decodeErr.Violations) == 0 {
		t.Error("Violations is empty, want the missing author reported")
	}
}

func TestDecoder_PermissiveSchemaStillNeedsIDAndTitle(t *testing.T) {
	d, err := NewDecoder("", []byte(`{"type":"array"}`))
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}

	_, err = d.Decode([]byte(`[{"name":"no id"}]`))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Decode() error = %v, want *DecodeError", err)
	}
	if !strings.Contains(err.Error(), "missing id") {
		t.Errorf("error = %q, want it to mention missing id", err)
	}
}

func TestNewDecoder_Invalid(t *testing.T) {
	if _, err := NewDecoder("$.data[1", nil); err == nil {
		t.Error("NewDecoder(bad path) error = nil, want error")
	}
	if _, err := NewDecoder("", []byte(`{"type": 12}`)); err == nil {
		t.Error("NewDecoder(bad schema) error = nil, want error")
	}
}
