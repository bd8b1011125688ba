// Package di contains dependency injection tokens for the resolver context.
package di

import (
	"github.com/proptrader/oracle-arb/business/resolver/app"
	"github.com/proptrader/oracle-arb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ResolverService = di.NewToken[*app.ResolverService]("resolver.ResolverService")
	TokenReader     = di.NewToken[app.TokenReader]("resolver.TokenReader")
)

// Private dependency tokens - internal to resolver module
var (
	RegistryLookup = di.NewToken[app.RegistryLookup]("resolver:registryLookup")
)

// Helper functions for type-safe access
func GetResolverService(c di.ServiceRegistry) *app.ResolverService {
	return di.GetToken(c, ResolverService)
}

func GetTokenReader(c di.ServiceRegistry) app.TokenReader {
	return di.GetToken(c, TokenReader)
}

func GetRegistryLookup(c di.ServiceRegistry) app.RegistryLookup {
	return di.GetToken(c, RegistryLookup)
}
