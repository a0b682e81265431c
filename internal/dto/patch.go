package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// PatchError reports a patch document that is malformed or cannot be applied
// to the current document.
type PatchError struct {
	Err error
}

func (e *PatchError) Error() string { return fmt.Sprintf("invalid patch document: %v", e.Err) }

func (e *PatchError) Unwrap() error { return e.Err }

// ApplyPatch applies an RFC 6902 JSON Patch document to current and returns
// the patched copy. It has no side effects: current is passed by value and
// nothing else is touched. The result is not validated.
func ApplyPatch(current PointOfInterestForUpdate, document []byte) (PointOfInterestForUpdate, error) {
	patch, err := jsonpatch.DecodePatch(document)
	if err != nil {
		return current, &PatchError{Err: err}
	}

	original, err := json.Marshal(current)
	if err != nil {
		return current, err
	}
	patched, err := patch.Apply(original)
	if err != nil {
		return current, &PatchError{Err: err}
	}

	// Operations that introduce members outside the document are rejected.
	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.DisallowUnknownFields()
	var out PointOfInterestForUpdate
	if err := dec.Decode(&out); err != nil {
		return current, &PatchError{Err: err}
	}
	return out, nil
}
