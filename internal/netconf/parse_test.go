package netconf

import (
	"errors"
	"reflect"
	"testing"
)

const netshShowDNS = `
Configuration for interface "Ethernet"
    DNS servers configured through DHCP:  192.168.1.1
    Register with which suffix:           Primary only
`

const netshShowDNSStatic = `
Configuration for interface "Ethernet"
    Statically Configured DNS Servers:    78.157.42.100
                                          78.157.42.101
    Register with which suffix:           Primary only
`

func TestExtractIPv4(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "dhcp listing",
			output: netshShowDNS,
			want:   []string{"192.168.1.1"},
		},
		{
			name:   "static listing keeps order",
			output: netshShowDNSStatic,
			want:   []string{"78.157.42.100", "78.157.42.101"},
		},
		{
			name:   "duplicates removed",
			output: "1.1.1.1 then again 1.1.1.1 and 8.8.8.8",
			want:   []string{"1.1.1.1", "8.8.8.8"},
		},
		{
			name:   "no addresses",
			output: "There are no DNS servers configured",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractIPv4(tt.output); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractIPv4() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseNameservers(t *testing.T) {
	content := `# Generated by NetworkManager
search lan
nameserver 192.168.1.1
nameserver 2001:4860:4860::8888
options edns0
`
	want := []string{"192.168.1.1", "2001:4860:4860::8888"}
	if got := parseNameservers(content); !reflect.DeepEqual(got, want) {
		t.Errorf("parseNameservers() = %v, want %v", got, want)
	}
}

func TestParseNmcliValue(t *testing.T) {
	tests := []struct {
		name   string
		output string
		key    string
		want   string
	}{
		{
			name:   "set value",
			output: "ipv4.dns:1.1.1.1,1.0.0.1\n",
			key:    "ipv4.dns",
			want:   "1.1.1.1,1.0.0.1",
		},
		{
			name:   "unset value",
			output: "ipv4.dns:--\n",
			key:    "ipv4.dns",
			want:   "",
		},
		{
			name:   "missing key",
			output: "ipv4.method:auto\n",
			key:    "ipv4.dns",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseNmcliValue(tt.output, tt.key); got != tt.want {
				t.Errorf("parseNmcliValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyToolError(t *testing.T) {
	base := errors.New("exit status 1")

	tests := []struct {
		name   string
		output string
		want   error
	}{
		{
			name:   "netsh elevation",
			output: "The requested operation requires elevation (Run as administrator).",
			want:   ErrPermission,
		},
		{
			name:   "polkit denial",
			output: "Error: Interactive authentication required.",
			want:   ErrPermission,
		},
		{
			name:   "netsh bad interface",
			output: `The interface name "NoSuchAdapter" is not valid.`,
			want:   ErrInterfaceNotFound,
		},
		{
			name:   "networksetup bad service",
			output: "NoSuchAdapter is not a recognized network service.",
			want:   ErrInterfaceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyToolError("tool", []byte(tt.output), base)
			if !errors.Is(err, tt.want) {
				t.Errorf("classifyToolError(%q) = %v, want kind %v", tt.output, err, tt.want)
			}
		})
	}

	t.Run("unrecognized output wraps the exec error", func(t *testing.T) {
		err := classifyToolError("tool", []byte("something broke"), base)
		if errors.Is(err, ErrPermission) || errors.Is(err, ErrInterfaceNotFound) {
			t.Fatalf("unexpected kind: %v", err)
		}
		if !errors.Is(err, base) {
			t.Errorf("expected the exec error to be wrapped, got %v", err)
		}
	})
}
