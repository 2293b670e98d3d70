package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	handleControl = `{"strategy": 1, "condition": "buy", "index": 0, "type": "column_dropdown", "role": "input"}`
	handlePropID  = `{"condition":"buy","index":0,"role":"input","strategy":1,"type":"column_dropdown"}.n_clicks`
)

// run executes the CLI and returns stdout, stderr and the exit code.
func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

// decodeData runs a --format json command and decodes its data.
func decodeData(t *testing.T, stdout string, v any) Response {
	t.Helper()
	var resp Response
	resp.Data = v
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), stdout)
	return resp
}
