package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
)

// allowedMethods is the closed vocabulary of HTTP verbs a route may carry.
var allowedMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"DELETE":  true,
	"PUT":     true,
	"HEAD":    true,
	"OPTIONS": true,
}

// Validate runs the ordered consistency checks and returns the first
// violation found. A later stage is only entered once the previous one has
// passed: global limits, error pages, collection-level server checks,
// per-server checks, per-route checks.
func Validate(cfg *ServerConfig) error {
	if err := validateGlobal(cfg.Global); err != nil {
		return err
	}
	if err := validateErrorPages(cfg.ErrorPages); err != nil {
		return err
	}
	return validateServers(cfg.Servers)
}

func validateGlobal(g GlobalConfig) error {
	if g.MaxBodySize <= 0 {
		return &InvalidValueError{
			Field:  "global max_body_size",
			Value:  strconv.FormatInt(g.MaxBodySize, 10),
			Reason: "must be greater than 0",
		}
	}
	if g.Timeout <= 0 {
		return &InvalidValueError{
			Field:  "global timeout",
			Value:  strconv.FormatInt(g.Timeout, 10),
			Reason: "must be greater than 0",
		}
	}
	return nil
}

func validateErrorPages(pages map[uint16]string) error {
	codes := make([]int, 0, len(pages))
	for code := range pages {
		codes = append(codes, int(code))
	}
	sort.Ints(codes)
	for _, code := range codes {
		path := pages[uint16(code)]
		context := fmt.Sprintf("error page for %d", code)
		info, err := os.Stat(path)
		if err != nil {
			return &PathError{Context: context, Path: path, Want: "file", Missing: true}
		}
		if info.IsDir() {
			return &PathError{Context: context, Path: path, Want: "file"}
		}
	}
	return nil
}

func validateServers(servers []VirtualServer) error {
	if len(servers) == 0 {
		return &MissingFieldError{Entity: "configuration", Field: "server"}
	}

	type binding struct {
		host string
		port uint16
	}
	used := make(map[binding]bool)
	defaults := 0
	for _, srv := range servers {
		for _, port := range srv.Ports {
			b := binding{host: srv.Host, port: port}
			if used[b] {
				return &ConflictError{
					Kind:   ConflictPortInUse,
					Detail: fmt.Sprintf("port %d already in use on host %s", port, srv.Host),
				}
			}
			used[b] = true
		}
		if srv.IsDefault {
			defaults++
		}
	}
	if defaults == 0 {
		return &ConflictError{
			Kind:   ConflictNoDefaultServer,
			Detail: "at least one server must be marked as default",
		}
	}
	if defaults > 1 {
		return &ConflictError{
			Kind:   ConflictMultipleDefaults,
			Detail: "only one server can be marked as default",
		}
	}

	for i := range servers {
		if err := validateServer(&servers[i]); err != nil {
			return err
		}
	}
	for i := range servers {
		srv := &servers[i]
		for j := range srv.Routes {
			if err := validateRoute(srv, &srv.Routes[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateServer(srv *VirtualServer) error {
	if srv.Host == "" {
		return &MissingFieldError{Entity: fmt.Sprintf("server %q", srv.Name), Field: "host"}
	}
	if len(srv.Ports) == 0 {
		return &MissingFieldError{Entity: fmt.Sprintf("server %q", srv.Name), Field: "ports"}
	}
	for _, port := range srv.Ports {
		if port == 0 {
			return &InvalidValueError{
				Field: fmt.Sprintf("server %q port", srv.Name),
				Value: "0",
			}
		}
	}

	context := fmt.Sprintf("server %q root", srv.Name)
	info, err := os.Stat(srv.Root)
	if err != nil {
		return &PathError{Context: context, Path: srv.Root, Want: "directory", Missing: true}
	}
	if !info.IsDir() {
		return &PathError{Context: context, Path: srv.Root, Want: "directory"}
	}
	return nil
}

func validateRoute(srv *VirtualServer, route *Route) error {
	routeID := fmt.Sprintf("route %q on server %q", route.Path, srv.Name)

	if route.Path == "" {
		return &MissingFieldError{Entity: fmt.Sprintf("route on server %q", srv.Name), Field: "path"}
	}
	if route.Path[0] != '/' {
		return &InvalidValueError{
			Field:  fmt.Sprintf("route path on server %q", srv.Name),
			Value:  route.Path,
			Reason: "must start with '/'",
		}
	}

	if len(route.Methods) == 0 {
		return &MissingFieldError{Entity: routeID, Field: "methods"}
	}
	for _, m := range route.Methods {
		if !allowedMethods[m] {
			return &InvalidValueError{
				Field: fmt.Sprintf("%s method", routeID),
				Value: m,
			}
		}
	}

	if cgi := route.CGI; cgi != nil {
		if _, err := os.Stat(cgi.Executor); err != nil {
			return &PathError{
				Context: fmt.Sprintf("CGI executor for %s", routeID),
				Path:    cgi.Executor,
				Want:    "file",
				Missing: true,
			}
		}
		if cgi.Extension == "" {
			return &MissingFieldError{Entity: routeID, Field: "cgi_extension"}
		}
		if cgi.Extension[0] != '.' {
			return &InvalidValueError{
				Field:  fmt.Sprintf("%s cgi_extension", routeID),
				Value:  cgi.Extension,
				Reason: "must start with '.'",
			}
		}
	}

	if redirect := route.Redirect; redirect != nil {
		if !allowedRedirectStatus[redirect.Status] {
			return &InvalidValueError{
				Field:  fmt.Sprintf("%s redirect_status", routeID),
				Value:  strconv.Itoa(int(redirect.Status)),
				Reason: "must be one of 301, 302, 303, 307, 308",
			}
		}
		if redirect.Target == "" {
			return &MissingFieldError{Entity: routeID, Field: "redirect_target"}
		}
	}

	if route.UploadDir != "" {
		context := fmt.Sprintf("upload directory for %s", routeID)
		info, err := os.Stat(route.UploadDir)
		if err != nil {
			return &PathError{Context: context, Path: route.UploadDir, Want: "directory", Missing: true}
		}
		if !info.IsDir() {
			return &PathError{Context: context, Path: route.UploadDir, Want: "directory"}
		}
	}

	// Route root: existence only. The server root additionally requires a
	// directory; the route-level override does not.
	if route.Root != "" {
		if _, err := os.Stat(route.Root); err != nil {
			return &PathError{
				Context: fmt.Sprintf("root for %s", routeID),
				Path:    route.Root,
				Want:    "directory",
				Missing: true,
			}
		}
	}

	return nil
}
