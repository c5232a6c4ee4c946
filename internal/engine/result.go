package engine

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Source is one retrieved chunk backing an answer.
type Source struct {
	ChunkFilename string  `json:"chunk_filename"`
	Score         float64 `json:"score"`
	Snippet       string  `json:"snippet"`
}

// QueryResult is the structured payload the engine emits on stdout for a
// query invocation. It is returned to the caller verbatim.
type QueryResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// MalformedOutputError reports engine stdout that is not a single well-formed
// query result payload. Raw carries the verbatim text for diagnosis.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	if e.Err == nil {
		return "malformed engine output"
	}
	return "malformed engine output: " + e.Err.Error()
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

const queryResultSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["answer", "sources"],
  "properties": {
    "answer": {"type": "string"},
    "sources": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["chunk_filename", "score", "snippet"],
        "properties": {
          "chunk_filename": {"type": "string"},
          "score": {"type": "number"},
          "snippet": {"type": "string"}
        }
      }
    }
  }
}`

var compiledQueryResultSchema = jsonschema.MustCompileString("query_result.json", queryResultSchema)

// ParseQueryResult parses and validates the engine's query stdout.
func ParseQueryResult(stdout []byte) (*QueryResult, error) {
	var raw any
	if err := json.Unmarshal(stdout, &raw); err != nil {
		return nil, &MalformedOutputError{Raw: string(stdout), Err: fmt.Errorf("decode: %w", err)}
	}
	if err := compiledQueryResultSchema.Validate(raw); err != nil {
		return nil, &MalformedOutputError{Raw: string(stdout), Err: fmt.Errorf("schema: %w", err)}
	}

	var res QueryResult
	if err := json.Unmarshal(stdout, &res); err != nil {
		return nil, &MalformedOutputError{Raw: string(stdout), Err: err}
	}
	return &res, nil
}
