package build

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/roach88/arduhome/internal/config"
)

var platformIOTmpl = template.Must(template.New("platformio.ini").Parse(`[env:{{ .Device.Name }}]
platform = {{ .Device.Platform }}
framework = arduino
board = {{ .Device.Board }}
{{- if .Libraries }}
lib_deps =
{{- range .Libraries }}
    {{ . }}
{{- end }}
{{- end }}
`))

// RenderPlatformIO renders the project's platformio.ini.
func RenderPlatformIO(device config.Device, libs []string) ([]byte, error) {
	var buf bytes.Buffer
	err := platformIOTmpl.Execute(&buf, struct {
		Device    config.Device
		Libraries []string
	}{device, libs})
	if err != nil {
		return nil, fmt.Errorf("rendering platformio.ini: %w", err)
	}
	return buf.Bytes(), nil
}
