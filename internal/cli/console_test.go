package cli

import (
	"bytes"
	"errors"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestConsoleLive(t *testing.T) {
	var buf bytes.Buffer

	con := newConsole(&buf, display{outside: true}, true)
	con.progress(1200, 3400)
	con.entry("/data/big", 2500)
	con.error(errors.New("boom"))
	con.clear()

	out := buf.String()
	assert.Check(t, is.Contains(out, "\r\033[2K1,200 directories counted, 3,400 files counted\r"))
	assert.Check(t, is.Contains(out, "[3 kB]              /data/big\n"))
	assert.Check(t, is.Contains(out, "\033[31mboom\033[0m\n"))
	assert.Check(t, bytes.HasSuffix(buf.Bytes(), []byte("\r\033[2K\r")))
}

func TestConsolePlain(t *testing.T) {
	var buf bytes.Buffer

	con := newConsole(&buf, display{outside: true}, false)
	con.progress(1, 2)
	con.error(errors.New("boom"))
	con.clear()

	assert.Check(t, is.Equal(buf.String(), "boom\n"))
}
