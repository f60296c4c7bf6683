package semantic

import "time"

// TypeConfig is the per-cache-type configuration: the key namespace,
// how long entries live and whether semantic keys are worthwhile.
type TypeConfig struct {
	Namespace       string        `json:"namespace"`
	TTL             time.Duration `json:"ttl"`
	UseSemanticKeys bool          `json:"useSemanticKeys"`
}

// typeConfigs holds the known cache types. Free-text payloads get
// semantic keys; structured payloads do not benefit from them.
var typeConfigs = map[string]TypeConfig{
	"prompt-optimization": {Namespace: "optimize", TTL: time.Hour, UseSemanticKeys: true},
	"completion":          {Namespace: "completion", TTL: time.Hour, UseSemanticKeys: true},
	"span-labeling":       {Namespace: "spanlabel", TTL: 24 * time.Hour, UseSemanticKeys: false},
	"grammar-analysis":    {Namespace: "grammar", TTL: 12 * time.Hour, UseSemanticKeys: false},
}

// DefaultTypeConfig is returned for unknown cache types.
var DefaultTypeConfig = TypeConfig{
	Namespace:       "default",
	TTL:             time.Hour,
	UseSemanticKeys: false,
}

// ConfigFor returns the configuration for a cache type. Unknown types
// get DefaultTypeConfig; this never fails.
func ConfigFor(cacheType string) TypeConfig {
	if cfg, ok := typeConfigs[cacheType]; ok {
		return cfg
	}
	return DefaultTypeConfig
}
