package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Field defaults applied by the builder.
const (
	DefaultMaxBodySize = 1 << 20 // 1 MiB
	DefaultTimeout     = 30      // seconds
	DefaultKeepAlive   = true
	DefaultServerRoot  = "./www"
)

// ServerConfig is the root artifact of the pipeline: global limits, virtual
// servers, and custom error pages. Once validated it is handed to the server
// runtime and treated as immutable.
type ServerConfig struct {
	Global     GlobalConfig
	Servers    []VirtualServer
	ErrorPages map[uint16]string
}

type GlobalConfig struct {
	MaxBodySize int64 // bytes
	Timeout     int64 // seconds
	KeepAlive   bool
}

// VirtualServer is a named binding of a host to one or more ports, with its
// own document root and route list. Ports are kept sorted and unique.
type VirtualServer struct {
	Name      string
	Host      string
	Ports     []uint16
	IsDefault bool
	Root      string
	Routes    []Route
}

// Route is a path-scoped rule within a virtual server. Optional sub-configs
// are pointers so that "not set" is unrepresentable as a half-valid state.
type Route struct {
	Path        string
	Methods     []string
	Root        string
	Index       string
	Redirect    *Redirect
	CGI         *CGIConfig
	UploadDir   string
	Autoindex   bool
	MaxFileSize int64 // 0 = no per-route limit
}

type CGIConfig struct {
	Extension string
	Executor  string
}

type Redirect struct {
	Status uint16
	Target string
}

// Diagnostics collects non-fatal findings from the build stage: values that
// fell back to defaults, dropped port items, routes bound to undeclared
// servers. The build still succeeds; callers decide how loudly to report.
type Diagnostics struct {
	Warnings []string
}

func (d *Diagnostics) warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// Parse converts raw file bytes into the section mapping.
func Parse(input []byte) (Sections, error) {
	return ParseSections(string(normalizeInput(input)))
}

// Load reads, parses, builds, and validates the config file at path. It is
// the single process-level load surface: on success the returned tree has
// passed every validation stage.
func Load(path string) (*ServerConfig, Diagnostics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Diagnostics{}, fmt.Errorf("read config file: %w", err)
	}
	sections, err := Parse(data)
	if err != nil {
		return nil, Diagnostics{}, err
	}
	cfg, diags, err := Build(sections)
	if err != nil {
		return nil, diags, err
	}
	if err := Validate(cfg); err != nil {
		return nil, diags, err
	}
	return cfg, diags, nil
}

// ValidationResult is the CLI-facing summary of a build + validate pass.
type ValidationResult struct {
	OK       bool     `json:"ok"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidateWithResult runs the validator and folds build diagnostics into the
// result's warning list.
func ValidateWithResult(cfg *ServerConfig, diags Diagnostics) ValidationResult {
	res := ValidationResult{OK: true, Warnings: diags.Warnings}
	if err := Validate(cfg); err != nil {
		res.OK = false
		res.Errors = append(res.Errors, err.Error())
	}
	return res
}

func FormatValidationJSON(res ValidationResult) (string, error) {
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func FormatValidationText(res ValidationResult) string {
	if res.OK {
		if len(res.Warnings) == 0 {
			return "config ok"
		}
		return fmt.Sprintf("config ok (warnings: %d)", len(res.Warnings))
	}
	if len(res.Errors) == 0 {
		return "config invalid"
	}
	return fmt.Sprintf("config invalid: %s", res.Errors[0])
}
