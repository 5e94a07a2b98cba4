// ABOUTME: mDNS advertisement for the companion-app link
// ABOUTME: Lets phones on the local network find the muffler without config
package remote

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/hashicorp/mdns"
)

// Advertiser announces the control endpoint via mDNS.
type Advertiser struct {
	name   string
	port   int
	ctx    context.Context
	cancel context.CancelFunc
}

// NewAdvertiser creates an advertiser for the given service name and port.
func NewAdvertiser(name string, port int) *Advertiser {
	ctx, cancel := context.WithCancel(context.Background())

	return &Advertiser{
		name:   name,
		port:   port,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Advertise announces the service until Stop is called.
func (a *Advertiser) Advertise() error {
	ips, err := localIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		a.name,
		"_dmuffler._tcp",
		"",
		"",
		a.port,
		ips,
		[]string{"path=/dmuffler"},
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d", a.name, a.port)

	go func() {
		<-a.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Stop withdraws the advertisement.
func (a *Advertiser) Stop() {
	a.cancel()
}

// localIPs returns the non-loopback IPv4 addresses of up interfaces.
func localIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
