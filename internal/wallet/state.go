// Package wallet supplies wallet connection state from a state file.
package wallet

import (
	"bytes"
	"os"
	"strings"

	"adview/internal/model"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ReadState decodes the wallet-state file at path. A missing or empty file
// means the wallet is disconnected.
func ReadState(path string) (model.ConnectionState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.ConnectionState{}, nil
		}
		return model.ConnectionState{}, errors.Wrapf(err, "read wallet state %s", path)
	}
	return ParseState(data)
}

// ParseState decodes a YAML (or JSON) wallet-state document.
func ParseState(data []byte) (model.ConnectionState, error) {
	var state model.ConnectionState
	if len(bytes.TrimSpace(data)) == 0 {
		return state, nil
	}
	if err := yaml.Unmarshal(data, &state); err != nil {
		return model.ConnectionState{}, errors.Wrap(err, "decode wallet state")
	}
	state.Address = strings.TrimSpace(state.Address)
	return state, nil
}

// WriteState stores state at path in the format ReadState expects.
func WriteState(path string, state model.ConnectionState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "encode wallet state")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "write wallet state %s", path)
	}
	return errors.Wrapf(os.Rename(tmp, path), "replace wallet state %s", path)
}
