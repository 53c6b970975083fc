// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// FileExt is appended to every cache file name.
const FileExt = ".json.zst"

// Only EncodeAll and DecodeAll are used; both are safe for concurrent use.
var (
	encoder, _ = zstd.NewWriter(nil)
	decoder, _ = zstd.NewReader(nil)
)

// compress returns the zstd frame for raw.
func compress(raw []byte) []byte {
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)))
}

// decompress reverses compress.
func decompress(data []byte) ([]byte, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress cache data: %w", err)
	}
	return raw, nil
}

// decode unmarshals the JSON form of a cached value into a new T.
func decode[T any](raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("failed to decode cache data: %w", err)
	}
	return v, nil
}
