// Package source loads parameter documents.
//
// A document is a JSON or YAML object mapping parameter names to record
// lists. A reserved "schema" key may declare the label grid:
//
//	{
//	  "schema": {"labels": [
//	    {"name": "year", "min": 2024, "max": 2026},
//	    {"name": "mars", "values": ["single", "joint"], "ranked": true}
//	  ]},
//	  "rate": [{"year": 2024, "mars": "single", "value": 0.1}],
//	  "cap": 100
//	}
//
// A non-list value is shorthand for a single unlabeled record, so "cap": 100
// reads as [{"value": 100}].
//
// Documents are addressed by URI. Inline JSON/YAML text, local paths,
// mem://, s3://bucket/key and minio://bucket/key are understood; a ".zst" or
// ".lz4" suffix decompresses the payload before decoding.
package source
