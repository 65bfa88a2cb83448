// Package teacher routes schemas to external generation backends and speaks
// the batch completion contract with them.
package teacher

import (
	"sort"
	"strings"
)

// Backend identifies an external generation backend.
type Backend string

const (
	BackendQwen    Backend = "qwen"
	BackendMistral Backend = "mistral"
	BackendPhi4    Backend = "phi4"
)

// Info describes a backend for metadata and reporting.
type Info struct {
	Key            Backend
	DisplayName    string
	Specialization string
}

// Backends is the fixed backend registry.
var Backends = map[Backend]Info{
	BackendQwen: {
		Key:            BackendQwen,
		DisplayName:    "Qwen2.5-14B-Instruct",
		Specialization: "General-purpose JSON extraction",
	},
	BackendMistral: {
		Key:            BackendMistral,
		DisplayName:    "Mistral Small 3.1-24B",
		Specialization: "API responses, function calling",
	},
	BackendPhi4: {
		Key:            BackendPhi4,
		DisplayName:    "Phi-4 14B",
		Specialization: "Medical, STEM, reasoning",
	},
}

// routingRule maps schema-id keywords to a backend; rules are evaluated in
// order and the first hit wins.
type routingRule struct {
	keywords []string
	backend  Backend
}

var routingRules = []routingRule{
	{[]string{
		"api", "response", "request", "endpoint", "webhook",
		"function", "call", "integration", "service", "rest",
		"graphql", "rpc", "notification", "event",
	}, BackendMistral},
	{[]string{
		"medical", "patient", "diagnosis", "clinical", "health",
		"lab", "result", "treatment", "prescription", "doctor",
		"scientific", "research", "experiment", "analytics",
		"iot", "device", "sensor", "telemetry", "network",
	}, BackendPhi4},
}

// Router picks backends for schema ids by keyword heuristics.
type Router struct {
	defaultBackend Backend
}

// NewRouter constructs a router. An empty default selects qwen.
func NewRouter(defaultBackend Backend) *Router {
	if defaultBackend == "" {
		defaultBackend = BackendQwen
	}
	return &Router{defaultBackend: defaultBackend}
}

// Pick selects the backend for one schema id.
func (r *Router) Pick(schemaID string) Backend {
	lower := strings.ToLower(schemaID)
	for _, rule := range routingRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.backend
			}
		}
	}
	return r.defaultBackend
}

// Distribute groups schema ids by their routed backend. Ids within a group
// preserve input order.
func (r *Router) Distribute(schemaIDs []string) map[Backend][]string {
	distribution := make(map[Backend][]string)
	for _, id := range schemaIDs {
		backend := r.Pick(id)
		distribution[backend] = append(distribution[backend], id)
	}
	return distribution
}

// BackendKeys returns registry keys in stable order.
func BackendKeys() []Backend {
	keys := make([]Backend, 0, len(Backends))
	for key := range Backends {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
