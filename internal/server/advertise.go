package server

import (
	"fmt"
	"os"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/markoshka/markoshka/internal/logging"
)

const (
	// ServiceType is the mDNS service type the mirror advertises under.
	ServiceType = "_markoshka._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."
)

// advertise registers the mirror endpoint over mDNS so viewers can find
// the display without knowing its address.
func (m *Mirror) advertise() error {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "markoshka"
	}
	instance := fmt.Sprintf("Markoshka on %s", hostname)

	srv, err := zeroconf.Register(
		instance,
		ServiceType,
		ServiceDomain,
		m.config.Port,
		[]string{"path=" + wsPath},
		nil,
	)
	if err != nil {
		return fmt.Errorf("zeroconf register failed: %w", err)
	}
	m.mdns = srv

	logging.Info("Mirror advertised over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", m.config.Port),
	)
	return nil
}
