package models

import (
	"fmt"
)

// Diagnostic records a non-fatal anomaly found during decoding. Note is
// set when the record that tripped it is retained verbatim.
type Diagnostic struct {
	Off  uint64
	Msg  string
	Note *RawNote
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%#x: %s", d.Off, d.Msg)
}
