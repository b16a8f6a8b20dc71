package config

import (
	"reflect"
	"testing"
)

func FuzzParseFormatRoundTrip(f *testing.F) {
	f.Add([]byte("[server:a]\nhost = localhost\nports = 80,443\ndefault = true\n"))
	f.Add([]byte(`
[global]
timeout = 30

[error_pages]
404 = ./404.html

[route:a:home]
path = /
methods = GET,POST
`))
	f.Add([]byte("; comment\n[s]\nkey = a=b\n[s]\nother = x\n"))

	f.Fuzz(func(t *testing.T, input []byte) {
		sections, err := Parse(input)
		if err != nil {
			return
		}

		formatted := FormatSections(sections)
		reparsed, err := Parse(formatted)
		if err != nil {
			t.Fatalf("parse formatted config: %v\nformatted:\n%s", err, formatted)
		}
		if !reflect.DeepEqual(sections, reparsed) {
			t.Fatalf("round trip changed sections:\n%#v\n%#v", sections, reparsed)
		}
		if again := FormatSections(reparsed); string(again) != string(formatted) {
			t.Fatalf("formatting not stable:\n%s\n%s", formatted, again)
		}

		cfg, diags, err := Build(sections)
		if err != nil {
			return
		}
		_ = ValidateWithResult(cfg, diags)
	})
}
