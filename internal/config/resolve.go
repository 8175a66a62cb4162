package config

import (
	"fmt"
	"os"
)

// EndpointEnvVar overrides the collection URL for every command
const EndpointEnvVar = "TODOLIST_ENDPOINT"

// Source names where a resolved endpoint came from
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceProfile Source = "profile"
	SourceDefault Source = "default_endpoint"
	SourceBuiltin Source = "builtin"
)

// ResolveOptions are the inputs to endpoint resolution, highest priority first
type ResolveOptions struct {
	Flag    string // --endpoint
	Env     string // TODOLIST_ENDPOINT
	Profile string // --profile
	Builtin string // compiled-in fallback
}

// Resolution is the endpoint a command should talk to
type Resolution struct {
	URL     string
	Feed    string // Change-feed URL, only known for saved endpoints
	Profile string // Saved endpoint name, if any
	Source  Source
}

// OptionsFromEnv fills Env from the environment
func OptionsFromEnv(flag, profile, builtin string) ResolveOptions {
	return ResolveOptions{
		Flag:    flag,
		Env:     os.Getenv(EndpointEnvVar),
		Profile: profile,
		Builtin: builtin,
	}
}

// Resolve picks the endpoint by precedence:
// flag > env > named profile > default endpoint > built-in URL.
func (r *Registry) Resolve(opts ResolveOptions) (*Resolution, error) {
	if opts.Flag != "" {
		if err := ValidateURL(opts.Flag, "http", "https"); err != nil {
			return nil, fmt.Errorf("--endpoint: %w", err)
		}
		return &Resolution{URL: opts.Flag, Source: SourceFlag}, nil
	}

	if opts.Env != "" {
		if err := ValidateURL(opts.Env, "http", "https"); err != nil {
			return nil, fmt.Errorf("%s: %w", EndpointEnvVar, err)
		}
		return &Resolution{URL: opts.Env, Source: SourceEnv}, nil
	}

	if opts.Profile != "" {
		ep := r.GetEndpoint(opts.Profile)
		if ep == nil {
			return nil, fmt.Errorf("no endpoint named %q (see 'todolist config show')", opts.Profile)
		}
		return &Resolution{URL: ep.URL, Feed: ep.Feed, Profile: opts.Profile, Source: SourceProfile}, nil
	}

	if r.DefaultEndpoint != "" {
		if ep := r.GetEndpoint(r.DefaultEndpoint); ep != nil {
			return &Resolution{URL: ep.URL, Feed: ep.Feed, Profile: r.DefaultEndpoint, Source: SourceDefault}, nil
		}
	}

	if opts.Builtin == "" {
		return nil, fmt.Errorf("no endpoint configured")
	}
	return &Resolution{URL: opts.Builtin, Source: SourceBuiltin}, nil
}
