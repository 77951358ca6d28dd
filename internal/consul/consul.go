package consul

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
)

// NewClient returns a consul client for addr, or the agent default when addr is empty.
func NewClient(addr string) (*consulapi.Client, error) {
	config := consulapi.DefaultConfig()
	if addr != "" {
		config.Address = addr
	}
	client, err := consulapi.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}
	return client, nil
}

// RegisterService registers this instance with an HTTP check against /ping and
// returns the registration id.
func RegisterService(client *consulapi.Client, name, port string) (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to read hostname: %w", err)
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", fmt.Errorf("invalid service port %q: %w", port, err)
	}

	id := fmt.Sprintf("%s-%s-%s", name, host, port)
	registration := &consulapi.AgentServiceRegistration{
		ID:      id,
		Name:    name,
		Address: host,
		Port:    portNum,
		Tags:    []string{"http"},
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           "http://" + net.JoinHostPort(host, port) + "/ping",
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
	if err := client.Agent().ServiceRegister(registration); err != nil {
		return "", fmt.Errorf("failed to register service %s: %w", name, err)
	}
	slog.Info("service registered with consul", slog.String("ServiceID", id))
	return id, nil
}

func DeregisterService(client *consulapi.Client, id string) error {
	if err := client.Agent().ServiceDeregister(id); err != nil {
		return fmt.Errorf("failed to deregister service %s: %w", id, err)
	}
	return nil
}
