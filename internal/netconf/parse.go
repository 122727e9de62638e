package netconf

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

// ipv4Pattern matches dotted-quad addresses embedded in tool output,
// e.g. netsh's "show dns" listing.
var ipv4Pattern = regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,3}){3}\b`)

// extractIPv4 pulls every IPv4 address out of command output, in
// order, without duplicates.
func extractIPv4(output string) []string {
	seen := make(map[string]bool)
	var servers []string
	for _, m := range ipv4Pattern.FindAllString(output, -1) {
		if !seen[m] {
			seen[m] = true
			servers = append(servers, m)
		}
	}
	return servers
}

// parseNameservers reads nameserver lines from resolv.conf content.
func parseNameservers(content string) []string {
	var servers []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "nameserver ") {
			servers = append(servers, strings.TrimSpace(strings.TrimPrefix(line, "nameserver ")))
		}
	}
	return servers
}

// parseNmcliValue extracts the value of a "key:value" line produced by
// nmcli -t -f <key>. Returns "" for unset ("--") values.
func parseNmcliValue(output, key string) string {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, key+":") {
			value := strings.TrimPrefix(line, key+":")
			if value == "--" {
				return ""
			}
			return value
		}
	}
	return ""
}

// classifyToolError maps a failed command's combined output to one of
// the package error kinds. The tools report privilege and lookup
// failures only through their text output.
func classifyToolError(tool string, output []byte, err error) error {
	text := strings.ToLower(string(output))

	for _, marker := range []string{
		"requires elevation",
		"run as administrator",
		"access is denied",
		"permission denied",
		"not authorized",
		"authentication required",
		"operation not permitted",
	} {
		if strings.Contains(text, marker) {
			return fmt.Errorf("%w: %s: %s", ErrPermission, tool, strings.TrimSpace(string(output)))
		}
	}

	for _, marker := range []string{
		"is not valid",
		"no such interface",
		"no such device",
		"not a recognized network service",
		"unknown connection",
	} {
		if strings.Contains(text, marker) {
			return fmt.Errorf("%w: %s: %s", ErrInterfaceNotFound, tool, strings.TrimSpace(string(output)))
		}
	}

	return fmt.Errorf("%s failed: %s: %w", tool, strings.TrimSpace(string(output)), err)
}
