package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/roach88/stratui/internal/conditions"
	"github.com/roach88/stratui/internal/ir"
)

// readDocument returns the JSON text of arg. An arg starting with '@' names
// a file; anything else is the document itself. Comments and trailing
// commas are allowed in both.
func readDocument(arg string) ([]byte, error) {
	data := []byte(arg)
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	return jsonc.ToJSON(data), nil
}

func decodeDocument(arg string, v any) error {
	data, err := readDocument(arg)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func parseControl(arg string) (*ir.ControlIdentity, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, nil
	}
	var id ir.ControlIdentity
	if err := decodeDocument(arg, &id); err != nil {
		return nil, fmt.Errorf("control: %w", err)
	}
	return &id, nil
}

func parseStore(arg string) (conditions.Store, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, nil
	}
	var store conditions.Store
	if err := decodeDocument(arg, &store); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return store, nil
}

// parseValue accepts JSON for the trigger value. Text that is not JSON is
// taken as a string.
func parseValue(arg string) (json.RawMessage, error) {
	if arg == "" {
		return nil, nil
	}
	data, err := readDocument(arg)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	data = bytes.TrimSpace(data)
	if json.Valid(data) {
		return json.RawMessage(data), nil
	}
	quoted, err := json.Marshal(arg)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	return json.RawMessage(quoted), nil
}
