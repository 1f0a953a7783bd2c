package auth

import (
	"context"
	"fmt"
	"strings"
)

// Identity names the caller a key was issued to.
type Identity struct {
	Client string
}

type APIKeyValidator interface {
	Validate(ctx context.Context, apiKey string) (Identity, bool)
}

type StaticAPIKeyValidator struct {
	keys map[string]Identity
}

// NewStaticAPIKeyValidator parses a comma separated list of key:client
// entries. A bare key is accepted and named after itself.
func NewStaticAPIKeyValidator(keyList string) (*StaticAPIKeyValidator, error) {
	validator := &StaticAPIKeyValidator{keys: map[string]Identity{}}
	keyList = strings.TrimSpace(keyList)
	if keyList == "" {
		return validator, nil
	}

	for _, entry := range strings.Split(keyList, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, client, found := strings.Cut(entry, ":")
		key = strings.TrimSpace(key)
		client = strings.TrimSpace(client)
		if key == "" {
			return nil, fmt.Errorf("invalid static key entry %q: empty key", entry)
		}
		if found && client == "" {
			return nil, fmt.Errorf("invalid static key entry %q: empty client", entry)
		}
		if !found {
			client = key
		}
		if _, exists := validator.keys[key]; exists {
			return nil, fmt.Errorf("duplicate static key for client %q", client)
		}
		validator.keys[key] = Identity{Client: client}
	}
	return validator, nil
}

func (v *StaticAPIKeyValidator) Len() int {
	return len(v.keys)
}

func (v *StaticAPIKeyValidator) Validate(_ context.Context, apiKey string) (Identity, bool) {
	identity, ok := v.keys[apiKey]
	return identity, ok
}
