package config

import (
	"fmt"
	"os"
)

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(Template), 0o600)
}

const Template = `# text document syntax: "json" or "yaml"
format = "json"
# largest input file reqwirectl will hand to the codec
max_input_bytes = 1048576
# largest binary payload accepted on encode and decode
max_payload_bytes = 8388608
log_level = "info"
`
