package lsp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReceiveInputSplitsContentLengthFrames(t *testing.T) {
	body1 := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`
	body2 := `{"jsonrpc":"2.0","method":"initialized","params":{}}`
	input := "Content-Length: " + itoa(len(body1)) + "\r\n\r\n" + body1 +
		"Content-Length: " + itoa(len(body2)) + "\r\n\r\n" + body2

	scanner := ReceiveInput(strings.NewReader(input))

	require.True(t, scanner.Scan())
	require.Equal(t, body1, scanner.Text())

	require.True(t, scanner.Scan())
	require.Equal(t, body2, scanner.Text())

	require.False(t, scanner.Scan())
	require.NoError(t, scanner.Err())
}

func TestReceiveInputToleratesExtraHeaders(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":2,"method":"shutdown"}`
	input := "Content-Type: application/vscode-jsonrpc; charset=utf-8\r\n" +
		"Content-Length: " + itoa(len(body)) + "\r\n\r\n" + body

	scanner := ReceiveInput(strings.NewReader(input))
	require.True(t, scanner.Scan())
	require.Equal(t, body, scanner.Text())
}

func TestSendToLspClientFramesWithContentLength(t *testing.T) {
	var buf bytes.Buffer
	SendToLspClient(&buf, []byte(`{"a":1}`))
	require.Equal(t, "Content-Length: 7\r\n\r\n{\"a\":1}", buf.String())
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
