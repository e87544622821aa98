// Package confloader provides configuration loading mechanism.
package confloader

import "errors"

// errNoRawBytes is returned from ReadBytes; in-memory maps have no
// serialized form, koanf falls back to Read.
var errNoRawBytes = errors.New("confloader: map provider has no raw bytes, koanf must call Read")

// mapProvider feeds an in-memory map to koanf. It backs LoadMap, which
// is how flag overrides and tests inject settings without a file.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errNoRawBytes
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}
