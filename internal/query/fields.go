package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownField is returned for a field name missing from the catalogue.
var ErrUnknownField = errors.New("unknown field")

// PercentField asks for a percent column instead of a grouping column.
const PercentField = "percent"

// CountColumn is the name of the aggregated download count column.
const CountColumn = "download_count"

// Field is a column that downloads can be grouped by.
type Field struct {
	// Name is the identifier used on the command line.
	Name string
	// Expr is the legacy SQL expression selecting the value.
	Expr string
	// Column is the alias of the result column.
	Column string
	// Description is shown by the fields command.
	Description string
}

var catalogue = map[string]Field{
	"project":            {Expr: "file.project", Column: "project", Description: "Project name"},
	"version":            {Expr: "file.version", Column: "version", Description: "Project version"},
	"file":               {Expr: "file.filename", Column: "file", Description: "Downloaded file name"},
	"pyversion":          {Expr: `REGEXP_EXTRACT(details.python, r"^([^\.]+\.[^\.]+)")`, Column: "python_version", Description: "Python major.minor version"},
	"implementation":     {Expr: "details.implementation.name", Column: "implementation", Description: "Python implementation"},
	"impl-version":       {Expr: `REGEXP_EXTRACT(details.implementation.version, r"^([^\.]+\.[^\.]+)")`, Column: "impl_version", Description: "Python implementation version"},
	"openssl":            {Expr: `REGEXP_EXTRACT(details.openssl_version, r"^OpenSSL ([^ ]+) ")`, Column: "openssl_version", Description: "OpenSSL version"},
	"date":               {Expr: `STRFTIME_UTC_USEC(timestamp, "%Y-%m-%d")`, Column: "download_date", Description: "Download day"},
	"month":              {Expr: `STRFTIME_UTC_USEC(timestamp, "%Y-%m")`, Column: "download_month", Description: "Download month"},
	"year":               {Expr: `STRFTIME_UTC_USEC(timestamp, "%Y")`, Column: "download_year", Description: "Download year"},
	"country":            {Expr: "country_code", Column: "country", Description: "Two-letter country code"},
	"installer":          {Expr: "details.installer.name", Column: "installer_name", Description: "Installer name"},
	"installer-version":  {Expr: "details.installer.version", Column: "installer_version", Description: "Installer version"},
	"setuptools-version": {Expr: "details.setuptools_version", Column: "setuptools_version", Description: "Setuptools version"},
	"system":             {Expr: "details.system.name", Column: "system_name", Description: "Operating system name"},
	"system-release":     {Expr: "details.system.release", Column: "system_release", Description: "Operating system release"},
	"distro":             {Expr: "details.distro.name", Column: "distro_name", Description: "Linux distribution name"},
	"distro-version":     {Expr: "details.distro.version", Column: "distro_version", Description: "Linux distribution version"},
	"cpu":                {Expr: "details.cpu", Column: "cpu", Description: "CPU architecture"},
	"libc":               {Expr: "details.distro.libc.lib", Column: "libc_name", Description: "C library name"},
	"libc-version":       {Expr: "details.distro.libc.version", Column: "libc_version", Description: "C library version"},
}

func init() {
	for name, f := range catalogue {
		f.Name = name
		catalogue[name] = f
	}
}

// Lookup returns the field registered under name.
func Lookup(name string) (Field, error) {
	f, ok := catalogue[strings.ToLower(name)]
	if !ok {
		return Field{}, fmt.Errorf("%w %q (available: %s, %s)", ErrUnknownField, name, strings.Join(FieldNames(), ", "), PercentField)
	}
	return f, nil
}

// Fields returns every field sorted by name.
func Fields() []Field {
	out := make([]Field, 0, len(catalogue))
	for _, f := range catalogue {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FieldNames returns every field name sorted.
func FieldNames() []string {
	fields := Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
