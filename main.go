package main

// dnsset is a one-shot CLI: enumerate interfaces, apply or clear DNS
// servers, report the outcome. All commands live in cli.go.
func main() {
	runCLI()
}
