package nasbench

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const recordArity = 5

// Positions of the payload elements
const (
	fieldHash = iota
	fieldEpochs
	fieldAdjacency
	fieldOperations
	fieldMetrics
)

var fieldNames = [recordArity]string{
	fieldHash:       "module_hash",
	fieldEpochs:     "epochs",
	fieldAdjacency:  "adjacency",
	fieldOperations: "operations",
	fieldMetrics:    "metrics",
}

// RawRecord is one benchmark entry decoded from a frame payload
type RawRecord struct {
	ModuleHash ModuleHash `json:"module_hash"`
	Epochs     uint8      `json:"epochs"`
	Adjacency  [][]bool   `json:"adjacency"` // Adjacency[i][j]: edge from node i to node j
	Operations []Op       `json:"operations"`
	Metrics    string     `json:"metrics"` // Opaque, base64 in the published dataset
}

// ParseRecord decodes one frame payload. The number of operations must equal
// the adjacency dimension.
func ParseRecord(data []byte) (*RawRecord, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if len(fields) != recordArity {
		return nil, fmt.Errorf("%w: array has %d elements, want %d", ErrMalformedRecord, len(fields), recordArity)
	}

	r := &RawRecord{}

	// module hash
	raw, err := stringField(fields, fieldHash)
	if err != nil {
		return nil, err
	}
	if r.ModuleHash, err = ParseModuleHash(raw); err != nil {
		return nil, fieldError(fieldHash, strconv.Quote(raw), err)
	}

	// epochs
	if r.Epochs, err = epochsField(fields); err != nil {
		return nil, err
	}

	// adjacency
	raw, err = stringField(fields, fieldAdjacency)
	if err != nil {
		return nil, err
	}
	if r.Adjacency, err = ParseAdjacency(raw); err != nil {
		return nil, fieldError(fieldAdjacency, strconv.Quote(raw), err)
	}

	// operations
	raw, err = stringField(fields, fieldOperations)
	if err != nil {
		return nil, err
	}
	if r.Operations, err = ParseOperations(raw); err != nil {
		return nil, fieldError(fieldOperations, strconv.Quote(raw), err)
	}

	// metrics
	if r.Metrics, err = stringField(fields, fieldMetrics); err != nil {
		return nil, err
	}

	if len(r.Operations) != len(r.Adjacency) {
		return nil, fmt.Errorf("%w: %d operations for a %dx%d adjacency matrix",
			ErrMalformedRecord, len(r.Operations), len(r.Adjacency), len(r.Adjacency))
	}

	return r, nil
}

// ParseAdjacency reshapes a row-major bit string of length N*N into an N×N
// matrix. Only '1' marks an edge.
func ParseAdjacency(bits string) ([][]bool, error) {
	dim := isqrt(len(bits))
	if dim*dim != len(bits) {
		return nil, fmt.Errorf("%w: adjacency length %d is not a perfect square", ErrMalformedField, len(bits))
	}

	adjacency := make([][]bool, dim)
	for i := range adjacency {
		row := make([]bool, dim)
		for j := range row {
			row[j] = bits[i*dim+j] == '1'
		}
		adjacency[i] = row
	}
	return adjacency, nil
}

// ParseOperations splits a comma separated operation list.
func ParseOperations(list string) ([]Op, error) {
	tokens := strings.Split(list, ",")
	ops := make([]Op, 0, len(tokens))
	for _, token := range tokens {
		op, err := ParseOp(token)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Dim returns the number of nodes in the module graph.
func (r *RawRecord) Dim() int {
	return len(r.Adjacency)
}

// Edges returns the number of edges in the adjacency matrix.
func (r *RawRecord) Edges() int {
	n := 0
	for _, row := range r.Adjacency {
		for _, edge := range row {
			if edge {
				n++
			}
		}
	}
	return n
}

// Validate checks the graph conventions of the dataset: a square adjacency
// matrix with one operation per node, starting at input and ending at output.
func (r *RawRecord) Validate() error {
	dim := len(r.Adjacency)
	for i, row := range r.Adjacency {
		if len(row) != dim {
			return fmt.Errorf("%w: adjacency row %d has %d columns, want %d", ErrMalformedRecord, i, len(row), dim)
		}
	}
	if len(r.Operations) != dim {
		return fmt.Errorf("%w: %d operations for %d nodes", ErrMalformedRecord, len(r.Operations), dim)
	}
	if dim == 0 {
		return fmt.Errorf("%w: empty module graph", ErrMalformedRecord)
	}
	if first := r.Operations[0]; first != OpInput {
		return fmt.Errorf("%w: first operation is %s, want %s", ErrMalformedRecord, first, OpInput)
	}
	if last := r.Operations[dim-1]; last != OpOutput {
		return fmt.Errorf("%w: last operation is %s, want %s", ErrMalformedRecord, last, OpOutput)
	}
	return nil
}

// DecodeMetrics base64-decodes the metrics payload.
func (r *RawRecord) DecodeMetrics() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(r.Metrics)
	if err != nil {
		return nil, fmt.Errorf("%w: metrics: %v", ErrMalformedField, err)
	}
	return b, nil
}

func stringField(fields []json.RawMessage, index int) (string, error) {
	raw := bytes.TrimSpace(fields[index])
	if len(raw) == 0 || raw[0] != '"' {
		return "", fieldError(index, string(raw), fmt.Errorf("%w: want a JSON string", ErrMalformedField))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fieldError(index, string(raw), fmt.Errorf("%w: %v", ErrMalformedField, err))
	}
	return s, nil
}

// epochsField accepts a JSON integer literal in the uint8 range.
func epochsField(fields []json.RawMessage) (uint8, error) {
	raw := bytes.TrimSpace(fields[fieldEpochs])
	epochs, err := strconv.ParseUint(string(raw), 10, 8)
	if err != nil {
		return 0, fieldError(fieldEpochs, string(raw), fmt.Errorf("%w: want an integer in [0, %d]", ErrMalformedField, math.MaxUint8))
	}
	return uint8(epochs), nil
}

func fieldError(index int, value string, err error) error {
	return &FieldError{Index: index, Field: fieldNames[index], Value: value, Err: err}
}

func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
