package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	serverSectionPrefix = "server:"
	routeSectionPrefix  = "route:"
)

// allowedRedirectStatus is the closed set of redirect codes. Checked at
// build time so an out-of-range status never produces a half-built Redirect,
// and re-checked by the validator.
var allowedRedirectStatus = map[uint16]bool{
	301: true,
	302: true,
	303: true,
	307: true,
	308: true,
}

// Build resolves the section mapping into a typed ServerConfig.
//
// Resolution runs in two passes: first every "server:<name>" section is
// materialized keyed by name, then every "route:<server>:<id>" section is
// bound to its owner by exact name lookup. The route identifier is an opaque
// disambiguator; it only orders routes within a server. Servers are sorted
// by name so repeated builds yield equal trees.
func Build(sections Sections) (*ServerConfig, Diagnostics, error) {
	var diags Diagnostics
	cfg := &ServerConfig{
		Global: GlobalConfig{
			MaxBodySize: DefaultMaxBodySize,
			Timeout:     DefaultTimeout,
			KeepAlive:   DefaultKeepAlive,
		},
		ErrorPages: make(map[uint16]string),
	}

	if data, ok := sections["global"]; ok {
		cfg.Global = buildGlobal(data, &diags)
	}

	if data, ok := sections["error_pages"]; ok {
		pages, err := buildErrorPages(data)
		if err != nil {
			return nil, diags, err
		}
		cfg.ErrorPages = pages
	}

	servers := make(map[string]*VirtualServer)
	for name, data := range sections {
		suffix, ok := strings.CutPrefix(name, serverSectionPrefix)
		if !ok {
			continue
		}
		srv, err := buildServer(suffix, data, &diags)
		if err != nil {
			return nil, diags, err
		}
		servers[suffix] = srv
	}

	routeSections := make([]string, 0, len(sections))
	for name := range sections {
		if strings.HasPrefix(name, routeSectionPrefix) {
			routeSections = append(routeSections, name)
		}
	}
	sort.Strings(routeSections)

	for _, name := range routeSections {
		suffix := strings.TrimPrefix(name, routeSectionPrefix)
		serverName, _, ok := strings.Cut(suffix, ":")
		if !ok {
			diags.warnf("section [%s] has no route identifier; dropped", name)
			continue
		}
		route, err := buildRoute(name, sections[name], &diags)
		if err != nil {
			return nil, diags, err
		}
		srv, ok := servers[serverName]
		if !ok {
			diags.warnf("section [%s] references unknown server %q; route dropped", name, serverName)
			continue
		}
		srv.Routes = append(srv.Routes, route)
	}

	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cfg.Servers = append(cfg.Servers, *servers[name])
	}

	return cfg, diags, nil
}

// buildGlobal applies typed coercions with silent fallback to defaults.
// Every fallback is recorded as a warning.
func buildGlobal(data map[string]string, diags *Diagnostics) GlobalConfig {
	g := GlobalConfig{
		MaxBodySize: DefaultMaxBodySize,
		Timeout:     DefaultTimeout,
		KeepAlive:   DefaultKeepAlive,
	}
	if raw, ok := data["max_body_size"]; ok {
		if v, err := strconv.ParseUint(raw, 10, 63); err == nil {
			g.MaxBodySize = int64(v)
		} else {
			diags.warnf("global max_body_size %q is not an unsigned integer; using default %d", raw, int64(DefaultMaxBodySize))
		}
	}
	if raw, ok := data["timeout"]; ok {
		if v, err := strconv.ParseUint(raw, 10, 63); err == nil {
			g.Timeout = int64(v)
		} else {
			diags.warnf("global timeout %q is not an unsigned integer; using default %d", raw, int64(DefaultTimeout))
		}
	}
	if raw, ok := data["keep_alive"]; ok {
		if v, valid := parseBoolValue(raw); valid {
			g.KeepAlive = v
		} else {
			diags.warnf("global keep_alive %q is not a boolean; using default %t", raw, DefaultKeepAlive)
		}
	}
	return g
}

// buildErrorPages maps status codes to page paths. Unlike the global
// section, an unparseable code is a hard error. Paths are not checked here;
// existence is deferred to validation.
func buildErrorPages(data map[string]string) (map[uint16]string, error) {
	pages := make(map[uint16]string, len(data))
	for code, path := range data {
		n, err := strconv.ParseUint(code, 10, 16)
		if err != nil {
			return nil, &InvalidValueError{Field: "error code", Value: code}
		}
		pages[uint16(n)] = path
	}
	return pages, nil
}

func buildServer(name string, data map[string]string, diags *Diagnostics) (*VirtualServer, error) {
	entity := fmt.Sprintf("server %q", name)

	host, ok := data["host"]
	if !ok {
		return nil, &MissingFieldError{Entity: entity, Field: "host"}
	}
	rawPorts, ok := data["ports"]
	if !ok {
		return nil, &MissingFieldError{Entity: entity, Field: "ports"}
	}

	srv := &VirtualServer{
		Name:  name,
		Host:  host,
		Ports: buildPorts(entity, rawPorts, diags),
		Root:  DefaultServerRoot,
	}
	if raw, ok := data["default"]; ok {
		if v, valid := parseBoolValue(raw); valid {
			srv.IsDefault = v
		} else {
			diags.warnf("%s default %q is not a boolean; treated as false", entity, raw)
		}
	}
	if root, ok := data["root"]; ok {
		srv.Root = root
	}
	return srv, nil
}

// buildPorts parses a comma-separated port list. Items that fail to parse as
// a 16-bit integer are dropped with a warning; the result is a sorted set.
func buildPorts(entity, raw string, diags *Diagnostics) []uint16 {
	seen := make(map[uint16]bool)
	ports := make([]uint16, 0, 4)
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		n, err := strconv.ParseUint(item, 10, 16)
		if err != nil {
			diags.warnf("%s ports item %q is not a 16-bit integer; dropped", entity, item)
			continue
		}
		port := uint16(n)
		if seen[port] {
			continue
		}
		seen[port] = true
		ports = append(ports, port)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
	return ports
}

func buildRoute(section string, data map[string]string, diags *Diagnostics) (Route, error) {
	entity := fmt.Sprintf("section [%s]", section)

	path, ok := data["path"]
	if !ok {
		return Route{}, &MissingFieldError{Entity: entity, Field: "path"}
	}

	route := Route{
		Path:    path,
		Methods: []string{"GET"},
	}
	if raw, ok := data["methods"]; ok {
		route.Methods = buildMethods(raw)
	}
	route.Root = data["root"]
	route.Index = data["index"]
	route.UploadDir = data["upload_dir"]

	if raw, ok := data["autoindex"]; ok {
		if v, valid := parseBoolValue(raw); valid {
			route.Autoindex = v
		} else {
			diags.warnf("%s autoindex %q is not a boolean; treated as false", entity, raw)
		}
	}
	if raw, ok := data["max_file_size"]; ok {
		if v, err := strconv.ParseUint(raw, 10, 63); err == nil {
			route.MaxFileSize = int64(v)
		} else {
			diags.warnf("%s max_file_size %q is not an unsigned integer; ignored", entity, raw)
		}
	}

	// CGI is attached only when both keys are present; one without the
	// other means "no CGI".
	ext, hasExt := data["cgi_extension"]
	exec, hasExec := data["cgi_executor"]
	switch {
	case hasExt && hasExec:
		route.CGI = &CGIConfig{Extension: ext, Executor: exec}
	case hasExt != hasExec:
		diags.warnf("%s sets one of cgi_extension/cgi_executor without the other; CGI disabled", entity)
	}

	rawStatus, hasStatus := data["redirect_status"]
	target, hasTarget := data["redirect_target"]
	switch {
	case hasStatus && hasTarget:
		n, err := strconv.ParseUint(rawStatus, 10, 16)
		if err != nil {
			return Route{}, &InvalidValueError{Field: "redirect_status", Value: rawStatus}
		}
		status := uint16(n)
		if !allowedRedirectStatus[status] {
			return Route{}, &InvalidValueError{
				Field:  "redirect_status",
				Value:  rawStatus,
				Reason: "must be one of 301, 302, 303, 307, 308",
			}
		}
		route.Redirect = &Redirect{Status: status, Target: target}
	case hasStatus != hasTarget:
		diags.warnf("%s sets one of redirect_status/redirect_target without the other; redirect disabled", entity)
	}

	return route, nil
}

// buildMethods upper-cases and deduplicates a comma-separated method list,
// preserving first-appearance order. Vocabulary membership is the
// validator's concern.
func buildMethods(raw string) []string {
	seen := make(map[string]bool)
	methods := make([]string, 0, 4)
	for _, item := range strings.Split(raw, ",") {
		m := strings.ToUpper(strings.TrimSpace(item))
		if seen[m] {
			continue
		}
		seen[m] = true
		methods = append(methods, m)
	}
	return methods
}

// parseBoolValue accepts exactly "true" or "false".
func parseBoolValue(raw string) (value bool, ok bool) {
	switch raw {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
