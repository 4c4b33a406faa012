//go:build wasip1

package wasm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/reglet-dev/wasmer-pipeline/internal/abi"
)

// errNullResponse is returned when the host could not write a response.
var errNullResponse = errors.New("host returned null response")

// call sends req to a host import and decodes its response.
func call[Req any, Resp any](name string, fn func(uint64) uint64, req Req) (Resp, error) {
	var resp Resp

	data, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("%s: failed to marshal request: %w", name, err)
	}

	reqPacked := abi.PtrFromBytes(data)
	defer abi.DeallocatePacked(reqPacked)

	resPacked := fn(reqPacked)
	resBytes := abi.BytesFromPtr(resPacked)
	if resBytes == nil {
		return resp, fmt.Errorf("%s: %w", name, errNullResponse)
	}
	defer abi.DeallocatePacked(resPacked)

	if err := json.Unmarshal(resBytes, &resp); err != nil {
		return resp, fmt.Errorf("%s: failed to unmarshal response: %w", name, err)
	}
	return resp, nil
}
