// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/repositories.go -destination=repositories_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/outbound.go -destination=outbound_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/services.go -destination=services_mock.go -package=mocks
