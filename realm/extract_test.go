package realm

import (
	"encoding/base64"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	b64 := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }
	for _, tc := range []struct {
		name   string
		target string
		user   string
		passwd string
		hasHdr bool
		want   Credentials
		ok     bool
	}{
		{name: "no credentials", target: "/book", ok: false},
		{name: "basic header", target: "/book", hasHdr: true, user: "alice", passwd: "!123456", want: Credentials{"alice", "!123456"}, ok: true},
		{name: "token", target: "/book?token=" + b64("alice:!123456"), want: Credentials{"alice", "!123456"}, ok: true},
		{name: "escaped token", target: "/book?token=" + url.QueryEscape(b64("alice:!123456")), want: Credentials{"alice", "!123456"}, ok: true},
		{name: "secret with colons", target: "/book?token=" + b64("alice:a:b:c"), want: Credentials{"alice", "a:b:c"}, ok: true},
		{name: "missing colon", target: "/book?token=" + b64("alice"), want: Credentials{"alice", ""}, ok: true},
		{name: "empty secret", target: "/book?token=" + b64("alice:"), want: Credentials{"alice", ""}, ok: true},
		{name: "first token wins", target: "/book?token=" + b64("alice:1") + "&token=" + b64("bob:2"), want: Credentials{"alice", "1"}, ok: true},
		{name: "token among other params", target: "/book?limit=10&token=" + b64("alice:1"), want: Credentials{"alice", "1"}, ok: true},
		{name: "similar name is ignored", target: "/book?tokens=" + b64("alice:1"), ok: false},
		{name: "bad base64", target: "/book?token=@@@@", ok: false},
		{name: "not base64", target: "/book?token=alice:1", ok: false},
		{name: "invalid utf8", target: "/book?token=" + base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, ':', 'x'}), ok: false},
		{name: "header beats token", target: "/book?token=" + b64("alice:!123456"), hasHdr: true, user: "bob", passwd: "hunter2", want: Credentials{"bob", "hunter2"}, ok: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			if tc.hasHdr {
				req.SetBasicAuth(tc.user, tc.passwd)
			}
			got, ok := Extract(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractMalformedHeaderFallsBackToToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/book?token="+EncodeToken("alice", "!123456"), nil)
	req.Header.Set("Authorization", "Basic not-base64!")
	got, ok := Extract(req)
	assert.True(t, ok)
	assert.Equal(t, Credentials{"alice", "!123456"}, got)
}
