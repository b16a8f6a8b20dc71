// Command webserv loads and validates an HTTP server deployment config.
//
// The configuration describes global limits, custom error pages, virtual
// servers, and their routes. webserv parses, builds, and validates it and
// hands the result to the server runtime.
//
// Install:
//
//	go install github.com/jmaris/webserv/cmd/webserv@latest
//
// Usage:
//
//	webserv run --config ./application.conf
package main
