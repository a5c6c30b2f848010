package registry

import (
	"fmt"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
)

// ServiceRegistry registers this process with a service catalog.
type ServiceRegistry interface {
	Register(reg *consulapi.AgentServiceRegistration) error
	Deregister(id string) error
}

// Instance describes the running process as the catalog should see it.
type Instance struct {
	Name     string
	Host     string
	HTTPPort int
	// GRPCPort is 0 when the gRPC server is disabled.
	GRPCPort int
}

// ID is unique per host and port so several instances can share a catalog.
func (i Instance) ID() string {
	return fmt.Sprintf("%s-%s-%d", i.Name, i.Host, i.HTTPPort)
}

// NewRegistration builds the catalog entry for i: an HTTP check against the
// greeting route and, when gRPC is enabled, a gRPC health check.
func NewRegistration(i Instance) *consulapi.AgentServiceRegistration {
	id := i.ID()
	checks := consulapi.AgentServiceChecks{
		CreateHTTPCheck(id, i.Host, i.HTTPPort, "/", "10s", "2s"),
	}
	meta := map[string]string{"protocol": "http"}
	if i.GRPCPort > 0 {
		checks = append(checks, CreateGRPCCheck(id, fmt.Sprintf("%s:%d/%s", i.Host, i.GRPCPort, i.Name), "10s", "2s", false))
		meta["grpc_port"] = strconv.Itoa(i.GRPCPort)
	}
	return &consulapi.AgentServiceRegistration{
		ID:      id,
		Name:    i.Name,
		Tags:    []string{"http", "rest"},
		Port:    i.HTTPPort,
		Address: i.Host,
		Meta:    meta,
		Checks:  checks,
	}
}

// CreateHTTPCheck creates a Consul HTTP health check hitting checkPath.
func CreateHTTPCheck(serviceID, serviceHost string, servicePort int, checkPath string, interval, timeout string) *consulapi.AgentServiceCheck {
	return &consulapi.AgentServiceCheck{
		CheckID:                        fmt.Sprintf("check_%s_http", serviceID),
		Name:                           fmt.Sprintf("HTTP Check for %s", serviceID),
		HTTP:                           fmt.Sprintf("http://%s:%d%s", serviceHost, servicePort, checkPath),
		Method:                         "GET",
		Interval:                       interval,
		Timeout:                        timeout,
		DeregisterCriticalServiceAfter: "1m",
	}
}

// CreateGRPCCheck creates a Consul check speaking the gRPC health protocol.
// grpcTarget is host:port, optionally followed by /service.
func CreateGRPCCheck(serviceID, grpcTarget string, interval, timeout string, useTLS bool) *consulapi.AgentServiceCheck {
	return &consulapi.AgentServiceCheck{
		CheckID:                        fmt.Sprintf("check_%s_grpc", serviceID),
		Name:                           fmt.Sprintf("gRPC Check for %s", serviceID),
		GRPC:                           grpcTarget,
		GRPCUseTLS:                     useTLS,
		Interval:                       interval,
		Timeout:                        timeout,
		DeregisterCriticalServiceAfter: "1m",
	}
}
