package component

import (
	"fmt"
	"strings"

	"github.com/roach88/arduhome/internal/codegen"
)

// Ethernet brings up a static-IP Ethernet shield and declares the network
// client shared with MQTT.
type Ethernet struct{}

func (Ethernet) Name() string { return "ethernet" }

func (Ethernet) Generate(g *Generation) error {
	eth := g.Config.Ethernet
	if eth == nil {
		return nil
	}

	g.Session.AddDefault(codegen.PointIncludes, IncludeSPI)
	g.Session.AddDefault(codegen.PointIncludes, IncludeEthernet)
	g.Session.AddDefault(codegen.PointGlobals, "EthernetClient net;")
	g.Require(LibEthernet)

	ip := "{" + strings.Join(strings.Split(eth.IP, "."), ", ") + "}"

	parts := strings.Split(eth.MAC, ":")
	for i, p := range parts {
		parts[i] = "0x" + strings.ToUpper(p)
	}
	mac := "{" + strings.Join(parts, ", ") + "}"

	g.Session.AddDefault(codegen.PointSetup, fmt.Sprintf(`  byte mac[] = %s;
  byte ip[] = %s;

  Ethernet.begin(mac, ip);`, mac, ip))
	return nil
}
