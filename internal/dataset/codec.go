package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
)

const (
	jsonExt = ".json"
	zstdExt = ".zst"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Encode marshals v with sonic, zstd-compressing the output when compress is set.
func Encode(v any, compress bool) ([]byte, error) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if !compress {
		return data, nil
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to create encoder: %w", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, nil), nil
}

// Decode unmarshals data into v, decompressing zstd frames first.
func Decode(data []byte, v any) error {
	if bytes.HasPrefix(data, zstdMagic) {
		r, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("zstd: failed to create reader: %w", err)
		}
		defer r.Close()

		out, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("zstd: failed to decompress: %w", err)
		}
		data = out
	}

	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

// readBlob reads base as given, then base.json, then base.json.zst.
func readBlob(base string) ([]byte, string, error) {
	candidates := []string{base}
	if !strings.HasSuffix(base, jsonExt) && !strings.HasSuffix(base, zstdExt) {
		candidates = append(candidates, base+jsonExt, base+jsonExt+zstdExt)
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, path, err
		}
	}
	return nil, base, fmt.Errorf("no blob found at %s: %w", base, os.ErrNotExist)
}

func writeBlob(path string, v any) error {
	data, err := Encode(v, strings.HasSuffix(path, zstdExt))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
