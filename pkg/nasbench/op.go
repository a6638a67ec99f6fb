package nasbench

import (
	"fmt"
)

// Op is one node operation of a module graph.
type Op uint8

const (
	OpInput Op = iota
	OpConv1x1
	OpConv3x3
	OpMaxPool3x3
	OpOutput
)

var opTokens = [...]string{
	OpInput:      "input",
	OpConv1x1:    "conv1x1-bn-relu",
	OpConv3x3:    "conv3x3-bn-relu",
	OpMaxPool3x3: "maxpool3x3",
	OpOutput:     "output",
}

// ParseOp maps a dataset token to its Op. Matching is exact.
func ParseOp(token string) (Op, error) {
	for op, t := range opTokens {
		if t == token {
			return Op(op), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, token)
}

// String returns the dataset token for op.
func (op Op) String() string {
	if int(op) < len(opTokens) {
		return opTokens[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

func (op Op) MarshalText() ([]byte, error) {
	if int(op) >= len(opTokens) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, uint8(op))
	}
	return []byte(opTokens[op]), nil
}

func (op *Op) UnmarshalText(text []byte) error {
	parsed, err := ParseOp(string(text))
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}
