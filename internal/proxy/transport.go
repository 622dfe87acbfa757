package proxy

// WSOptions are mihomo's ws-opts.
type WSOptions struct {
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers"`
}

// GRPCOptions are mihomo's grpc-opts.
type GRPCOptions struct {
	ServiceName string `yaml:"grpc-service-name"`
}

// RealityOptions are mihomo's reality-opts.
type RealityOptions struct {
	PublicKey string `yaml:"public-key"`
	ShortID   string `yaml:"short-id"`
}

// Transport holds the stream settings trojan and vless share.
type Transport struct {
	Network string       `yaml:"network"`
	WSOpts  *WSOptions   `yaml:"ws-opts"`
	GRPC    *GRPCOptions `yaml:"grpc-opts"`
}

// fragments renders type, host, path and serviceName, in that order.
// Plain tcp is the implied default and is omitted.
func (t Transport) fragments() []string {
	var network, host, path, serviceName string
	if t.Network != "" && t.Network != "tcp" {
		network = t.Network
	}
	switch t.Network {
	case "ws":
		if t.WSOpts != nil {
			host = t.WSOpts.Headers["Host"]
			path = t.WSOpts.Path
		}
	case "grpc":
		if t.GRPC != nil {
			serviceName = t.GRPC.ServiceName
		}
	}
	return []string{
		nonEmpty(network, param("type")),
		nonEmpty(host, escaped(param("host"))),
		nonEmpty(path, escaped(param("path"))),
		nonEmpty(serviceName, escaped(param("serviceName"))),
	}
}

func requirePort(kind Kind, name string, port uint16) error {
	if port == 0 {
		return &RenderError{Kind: kind, Name: name, Err: ErrInvalidPort}
	}
	return nil
}
