package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUserIP(t *testing.T) {
	for name, tc := range map[string]struct {
		realIP     string
		forwarded  string
		remoteAddr string
		want       string
		wantErr    bool
	}{
		"real-ip-header":  {realIP: "10.0.0.7", remoteAddr: "1.1.1.1:333", want: "10.0.0.7"},
		"forwarded-chain": {forwarded: "8.8.8.8, 10.0.0.1", remoteAddr: "1.1.1.1:333", want: "8.8.8.8"},
		"remote-addr":     {remoteAddr: "192.168.1.20:54321", want: "192.168.1.20"},
		"ipv6":            {remoteAddr: "[::1]:8080", want: "::1"},
		"invalid":         {remoteAddr: "not-an-ip", wantErr: true},
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.realIP != "" {
				req.Header.Set("X-Real-Ip", tc.realIP)
			}
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}

			got, err := ReadUserIP(req)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
