package cssdata

import _ "embed"

//go:embed data/css.yaml
var defaultCSSData []byte

// LoadDefault parses the bundled CSS data table. Callers that have their
// own curated file (a larger browser-compat export, for instance) use
// Load directly instead.
func LoadDefault() (*Data, error) {
	return Load(defaultCSSData)
}
