package ingest

// reportSchema validates the generic tool report before any field is
// trusted. Per-tool report formats are converted to this shape upstream.
const reportSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["tool", "build", "issues"],
  "properties": {
    "tool": {"type": "string", "minLength": 1},
    "build": {"type": "integer", "minimum": 1},
    "issues": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["file", "severity", "message"],
        "properties": {
          "file": {"type": "string", "minLength": 1},
          "start_line": {"type": "integer", "minimum": 0},
          "end_line": {"type": "integer", "minimum": 0},
          "severity": {"enum": ["low", "medium", "high", "critical"]},
          "category": {"type": "string"},
          "type": {"type": "string"},
          "message": {"type": "string", "minLength": 1},
          "fingerprint": {"type": "string"}
        }
      }
    }
  }
}`
