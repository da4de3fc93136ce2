package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExampleConfig exercises every generator. relay1 runs a delayed automation
// when turned on; relay2 is inverted and starts on; button1 uses a mapped pin.
const ExampleConfig = `arduhome:
  name: livingroom
  platform: atmelavr
  board: megaatmega2560

ethernet:
  ip: 192.168.1.177
  mac: "DE:AD:BE:EF:FE:ED"

mqtt:
  ip: 192.168.1.10

switch:
  - platform: gpio
    id: relay1
    pin: 22
    on_turn_on:
      - delay: 1s
      - switch.turn_off: relay1
  - platform: gpio
    id: relay2
    pin: 23
    inverted: true
    restore_mode: ALWAYS_ON

binary_sensor:
  - platform: gpio
    id: button1
    pin:
      number: 30
      mode: INPUT_PULLUP
      inverted: true
`

// MinimalConfig declares only the device block.
const MinimalConfig = `arduhome:
  name: bare
  platform: atmelavr
  board: uno
`

// WriteConfig writes content to a config.yaml in a fresh temp directory and
// returns its path.
func WriteConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
