// File: transport/httpget/httpget_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package httpget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequest(t *testing.T) {
	assert.Equal(t,
		"GET /400/hi HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n",
		Request("/400/hi", "localhost"))
}

func TestNew_Options(t *testing.T) {
	f := New("10.0.0.1:80", "/x", WithHost("example"), WithReadBufferSize(-1), nil)
	assert.Equal(t, "/x", f.Path())
	assert.Equal(t, "example", f.host)
	assert.Equal(t, 4096, f.bufSize)

	g := Get("/y")
	assert.Equal(t, DefaultAddr, g.addr)
}

func TestClose_Unstarted(t *testing.T) {
	f := Get("/z")
	assert.NoError(t, f.Close())
	assert.Panics(t, func() { f.Poll(nil) })
}

func TestLossyString(t *testing.T) {
	for name, tc := range map[string]struct {
		in, want string
	}{
		"valid":               {"héllo", "héllo"},
		"literal replacement": {"a�b", "a�b"},
		"lone byte":           {"a\xffb", "a�b"},
		"two lone bytes":      {"\xff\xfe", "��"},
		"truncated 3-byte":    {"\xe2\x82x", "�x"},
		"truncated at end":    {"ok\xf0\x9f\x98", "ok�"},
		"surrogate":           {"\xed\xa0\x80", "���"},
		"overlong":            {"\xc0\xaf", "��"},
		"above max":           {"\xf4\x90\x80\x80", "����"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, lossyString([]byte(tc.in)))
		})
	}
}
