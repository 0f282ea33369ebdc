// Package env exports the active conda environment of a snapshot run.
package env

import (
	"bytes"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/twitter/reprosnap/snapshot/artifact"
	"github.com/twitter/reprosnap/snapshot/conda"
)

// Exporter writes conda_env_<ts>.yml manifests. Locating the active
// environment, exporting it and writing the file each end the export on
// failure; nothing is retried.
type Exporter struct {
	client        *conda.Client
	includeBuilds bool
}

func NewExporter(client *conda.Client, includeBuilds bool) *Exporter {
	return &Exporter{client: client, includeBuilds: includeBuilds}
}

// Export writes the manifest of the active environment into destDir and
// returns its path. The manifest is stored exactly as conda printed it.
func (e *Exporter) Export(destDir, ts string) (string, error) {
	name, err := e.client.ActiveEnv()
	if err != nil {
		return "", err
	}

	log.Infof("Exporting conda environment %s", name)
	manifest, err := e.client.Export(name, e.includeBuilds)
	if err != nil {
		return "", err
	}
	inspect(name, manifest)

	path, err := artifact.WriteFile(destDir, artifact.ManifestName(ts), bytes.NewReader(manifest), 0644)
	if err != nil {
		return "", err
	}
	log.Infof("Environment exported to %s", path)
	return path, nil
}

type manifestSummary struct {
	Name         string        `yaml:"name"`
	Dependencies []interface{} `yaml:"dependencies"`
}

// inspect logs what the manifest declares. It never affects what is written.
func inspect(env string, manifest []byte) {
	var m manifestSummary
	if err := yaml.Unmarshal(manifest, &m); err != nil {
		log.Warnf("Exported manifest of %s is not valid YAML: %v", env, err)
		return
	}
	log.Debugf("Manifest of %s declares environment %q with %d dependencies", env, m.Name, len(m.Dependencies))
}
