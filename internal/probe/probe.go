// Package probe checks a DNS server by resolving a domain through it
// and measuring per-query round-trip times.
package probe

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const queryTimeout = 2 * time.Second

// Sample is the outcome of one query.
type Sample struct {
	RTT time.Duration
	Err error
}

// Result summarizes a probe run.
type Result struct {
	Server  string
	Domain  string
	Samples []Sample
}

// Failures counts queries that did not complete.
func (r Result) Failures() int {
	n := 0
	for _, s := range r.Samples {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// Stats returns min/avg/max over the successful samples. ok is false
// when every query failed.
func (r Result) Stats() (min, avg, max time.Duration, ok bool) {
	var sum time.Duration
	n := 0
	for _, s := range r.Samples {
		if s.Err != nil {
			continue
		}
		if n == 0 || s.RTT < min {
			min = s.RTT
		}
		if s.RTT > max {
			max = s.RTT
		}
		sum += s.RTT
		n++
	}
	if n == 0 {
		return 0, 0, 0, false
	}
	return min, sum / time.Duration(n), max, true
}

// Run queries the A record of domain against server count times.
// server may be a bare IP; port 53 is assumed.
func Run(ctx context.Context, server, domain string, count int) (Result, error) {
	if count < 1 {
		count = 1
	}

	addr, err := normalizeServer(server)
	if err != nil {
		return Result{}, err
	}

	client := &dns.Client{Net: "udp", Timeout: queryTimeout}
	result := Result{Server: addr, Domain: domain}

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)

		resp, rtt, err := client.ExchangeContext(ctx, msg, addr)
		switch {
		case err != nil:
			result.Samples = append(result.Samples, Sample{Err: err})
		case resp.Rcode != dns.RcodeSuccess:
			result.Samples = append(result.Samples, Sample{
				Err: fmt.Errorf("server returned %s", dns.RcodeToString[resp.Rcode]),
			})
		default:
			result.Samples = append(result.Samples, Sample{RTT: rtt})
		}
	}

	return result, nil
}

// normalizeServer appends the default DNS port to a bare address.
func normalizeServer(server string) (string, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return "", fmt.Errorf("no DNS server given")
	}
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server, nil
	}
	return net.JoinHostPort(server, "53"), nil
}
