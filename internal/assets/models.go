package assets

import _ "embed"

// ModelsData holds the raw JSON catalog of models suggested for download.
//
//go:embed models.json
var ModelsData []byte
