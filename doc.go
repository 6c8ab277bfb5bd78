package goshape

// Package goshape provides:
//
// - Reflection-driven validation of loose JSON/YAML values against Go types (New/Load/LoadJSON/LoadYAML)
// - A stable error model via ErrorItem (message, instancePath, schemaPath)
// - JSON Schema export for every describable type (JSONSchema/SchemaOf)
// - Metadata attachment through struct tags and For[U] rules
//
// Design policy:
// - Keep only public APIs in the root package; put the constraint graph, the
//   describer and the validation engine under internal/.
// - Place attachment rules under metadata/ and schema export under jsonschema/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  s := goshape.MustNew[Profile]()
//  p, err := s.LoadJSON(data)
//
//  doc := s.JSONSchema()
