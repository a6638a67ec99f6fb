//go:build fuzz
// +build fuzz

package nasbench

import (
	"errors"
	"testing"
)

// FuzzParseRecord checks that arbitrary payloads never panic and that every
// failure is classified
func FuzzParseRecord(f *testing.F) {
	f.Add([]byte(`["00000000000000000000000000000001",108,"0100","input,output",""]`))
	f.Add([]byte(`[]`))
	f.Add([]byte(`["",0,"","",""]`))
	f.Add([]byte(`[null,null,null,null,null]`))

	f.Fuzz(func(t *testing.T, data []byte) {
		r, err := ParseRecord(data)
		if err != nil {
			if !errors.Is(err, ErrMalformedRecord) && !errors.Is(err, ErrMalformedField) && !errors.Is(err, ErrUnknownOperation) {
				t.Fatalf("Unclassified error: %v", err)
			}
			return
		}
		if len(r.Operations) != r.Dim() {
			t.Fatalf("Operation count %d does not match dimension %d", len(r.Operations), r.Dim())
		}
	})
}
