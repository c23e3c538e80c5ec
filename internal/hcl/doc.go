// Package hcl provides the concrete HCL implementation of config.Loader.
// It is responsible for file discovery, parsing, schema decoding and the
// translation of HCL blocks into the format-agnostic config.Model.
package hcl
