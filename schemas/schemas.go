// Package schemas embeds the JSON Schema documents used to validate
// user-supplied configuration files.
package schemas

import _ "embed"

// QuestionsSchemaJSON is the JSON Schema for questions.yaml files.
//
//go:embed questions.schema.json
var QuestionsSchemaJSON string
