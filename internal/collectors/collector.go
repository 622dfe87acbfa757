package collectors

import (
	"fmt"

	"akasha/internal/model"
)

// Payload is a fetched subscription document.
type Payload struct {
	Data   []byte
	Source string
	// Userinfo is nil when the source reported no usage.
	Userinfo *model.SubscriptionUserinfo
}

type Collector interface {
	Collect(config map[string]interface{}) (*Payload, error)
}

type Factory func() Collector

var registry = make(map[string]Factory)

func Register(name string, factory Factory) {
	registry[name] = factory
}

func Get(name string) (Collector, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("collector plugin '%s' not found", name)
	}
	return factory(), nil
}

// StringParam reads an optional string parameter.
func StringParam(config map[string]interface{}, key string) string {
	v, _ := config[key].(string)
	return v
}
