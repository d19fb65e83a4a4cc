package schema

import _ "embed"

//go:embed host-probe-config.schema.json
var ConfigSchema []byte
