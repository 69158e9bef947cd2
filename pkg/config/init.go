package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const configHeader = `# sharetab configuration file
#
# Every key can be overridden by an environment variable named after its
# path, for example SHARETAB_CONNECTION_SERVER or SHARETAB_LOGGING_LEVEL.
# Leave connection.password empty to be prompted for it.

`

// InitConfig writes a configuration file with default values at the default
// location and returns its path. An existing file is kept unless force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	return path, InitConfigAt(path, force)
}

// InitConfigAt writes a configuration file with default values at path.
func InitConfigAt(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
	}

	data, err := yaml.Marshal(GetDefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return writeConfigFile(path, append([]byte(configHeader), data...))
}
