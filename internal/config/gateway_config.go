package config

// Metadata holds identifying information for a GatewayConfig document,
// mirroring the apiVersion/kind/metadata envelope the gateway's YAML
// configuration format uses.
type Metadata struct {
	Name        string            `yaml:"name" json:"name"`
	Labels      map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty" json:"annotations,omitempty"`
}

// GatewaySpec is the desired-state body of a GatewayConfig: listeners,
// routes, backends, and the cross-cutting policies that apply when a
// route doesn't override them.
type GatewaySpec struct {
	Listeners      []Listener            `yaml:"listeners" json:"listeners"`
	Routes         []Route               `yaml:"routes,omitempty" json:"routes,omitempty"`
	Backends       []Backend             `yaml:"backends,omitempty" json:"backends,omitempty"`
	RateLimit      *RateLimitConfig      `yaml:"rateLimit,omitempty" json:"rateLimit,omitempty"`
	CircuitBreaker *CircuitBreakerConfig `yaml:"circuitBreaker,omitempty" json:"circuitBreaker,omitempty"`
	CORS           *CORSConfig           `yaml:"cors,omitempty" json:"cors,omitempty"`
	Observability  *ObservabilityConfig  `yaml:"observability,omitempty" json:"observability,omitempty"`
}

// GatewayConfig is the root configuration document for the gateway,
// loaded from YAML by Loader and validated by Validator.
type GatewayConfig struct {
	APIVersion string      `yaml:"apiVersion" json:"apiVersion"`
	Kind       string      `yaml:"kind" json:"kind"`
	Metadata   Metadata    `yaml:"metadata" json:"metadata"`
	Spec       GatewaySpec `yaml:"spec" json:"spec"`
}

// DefaultGatewayConfig returns a minimal, valid GatewayConfig: a single
// HTTP listener on 8080 and nothing else configured. Used as the base
// for MergeConfigs when no base document is supplied.
func DefaultGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		APIVersion: "gateway.avapigw.io/v1",
		Kind:       "Gateway",
		Metadata:   Metadata{Name: "avapigw"},
		Spec: GatewaySpec{
			Listeners: []Listener{
				{Name: "http", Port: 8080, Protocol: "HTTP"},
			},
		},
	}
}
