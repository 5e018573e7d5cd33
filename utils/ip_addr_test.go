package utils

import (
	"net"
	"net/http"
	"testing"
)

func TestGetIpAddress(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		addr   net.Addr
		want   string
	}{
		{
			name: "forwarded header wins",
			header: http.Header{
				"X-Forwarded-For": []string{"203.0.113.9, 10.0.0.1"},
			},
			addr: &net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 1234},
			want: "203.0.113.9",
		},
		{
			name: "plain tcp address",
			addr: &net.TCPAddr{IP: net.ParseIP("192.0.2.4"), Port: 51234},
			want: "192.0.2.4",
		},
		{
			name: "ipv6 mapped ipv4",
			addr: &net.TCPAddr{IP: net.ParseIP("::ffff:192.0.2.4"), Port: 51234},
			want: "192.0.2.4",
		},
		{
			name: "nil address",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetIpAddress(tt.header, tt.addr); got != tt.want {
				t.Errorf("GetIpAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}
