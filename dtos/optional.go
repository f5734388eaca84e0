package dtos

import (
	"bytes"
	"encoding/json"
)

// OptionalUint distinguishes an absent JSON field from an explicit null.
type OptionalUint struct {
	Set   bool
	Value *uint
}

func (o *OptionalUint) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v uint
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
