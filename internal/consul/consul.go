package consul

import (
	"fmt"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
)

func NewClient(addr string) (*consulapi.Client, error) {
	config := consulapi.DefaultConfig()
	config.Address = addr
	client, err := consulapi.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("creating consul client: %w", err)
	}
	return client, nil
}

// Registration describes the storefront instance announced to Consul.
type Registration struct {
	Name     string
	Host     string
	HTTPPort int
	GRPCPort int
}

func (r Registration) ServiceID() string {
	return r.Name + "-" + r.Host + "-" + strconv.Itoa(r.HTTPPort)
}

func (r Registration) agentService() *consulapi.AgentServiceRegistration {
	return &consulapi.AgentServiceRegistration{
		ID:      r.ServiceID(),
		Name:    r.Name,
		Address: r.Host,
		Port:    r.HTTPPort,
		Tags:    []string{"http", "storefront"},
		Meta:    map[string]string{"grpc_port": strconv.Itoa(r.GRPCPort)},
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/ping", r.Host, r.HTTPPort),
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

// RegisterService registers the instance with a /ping health check.
func RegisterService(client *consulapi.Client, r Registration) error {
	if err := client.Agent().ServiceRegister(r.agentService()); err != nil {
		return fmt.Errorf("registering %s with consul: %w", r.ServiceID(), err)
	}
	return nil
}

func DeregisterService(client *consulapi.Client, r Registration) error {
	if err := client.Agent().ServiceDeregister(r.ServiceID()); err != nil {
		return fmt.Errorf("deregistering %s from consul: %w", r.ServiceID(), err)
	}
	return nil
}
