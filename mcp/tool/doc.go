// Package tool contains the tool descriptor shared by the registry and the
// protocol layer, name validation, and the proxy that exposes registered
// remote tools as a Fluxor action service.
package tool
