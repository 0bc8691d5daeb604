package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artivio/artivio-chain/internal/api/middleware"
	"github.com/artivio/artivio-chain/internal/ratelimit"
)

type route struct {
	method   string
	path     string
	mutating bool
	handle   func(Handler) gin.HandlerFunc
}

// routeTable lists every endpoint under the base path. Mutating routes sit behind auth and rate limiting.
var routeTable = []route{
	{http.MethodPost, "/mint-coa", true, func(h Handler) gin.HandlerFunc { return h.MintCoA }},
	{http.MethodPost, "/mint-rights", true, func(h Handler) gin.HandlerFunc { return h.MintRights }},
	{http.MethodPost, "/upload-metadata", true, func(h Handler) gin.HandlerFunc { return h.UploadMetadata }},
	{http.MethodGet, "/token/:tokenId", false, func(h Handler) gin.HandlerFunc { return h.GetToken }},
	{http.MethodPost, "/bind-license", true, func(h Handler) gin.HandlerFunc { return h.BindLicense }},
	{http.MethodPost, "/provenance-note", true, func(h Handler) gin.HandlerFunc { return h.RecordProvenanceNote }},
	{http.MethodPost, "/verify", false, func(h Handler) gin.HandlerFunc { return h.Verify }},
	{http.MethodGet, "/verify/:tokenId", false, func(h Handler) gin.HandlerFunc { return h.Verify }},
	{http.MethodGet, "/tokens", false, func(h Handler) gin.HandlerFunc { return h.ListTokens }},
	{http.MethodGet, "/stats", false, func(h Handler) gin.HandlerFunc { return h.Stats }},
	{http.MethodPost, "/ipfs/upload-file", true, func(h Handler) gin.HandlerFunc { return h.UploadFile }},
	{http.MethodPost, "/ipfs/upload-json", true, func(h Handler) gin.HandlerFunc { return h.UploadJSON }},
	{http.MethodPost, "/ipfs/upload-license", true, func(h Handler) gin.HandlerFunc { return h.UploadLicense }},
	{http.MethodGet, "/ipfs/usage", false, func(h Handler) gin.HandlerFunc { return h.PinningUsage }},
}

// RouteOptions holds the optional guards of mutating routes
type RouteOptions struct {
	BasePath string
	// Authenticator is nil when no credentials are configured
	Authenticator *middleware.Authenticator
	// Limiter is nil when rate limiting is disabled
	Limiter ratelimit.Limiter
}

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, opts RouteOptions) {
	// Service info and health check (no auth)
	router.GET("/", handler.ServiceInfo)
	router.GET("/health", handler.HealthCheck)

	var guards []gin.HandlerFunc
	if opts.Limiter != nil {
		guards = append(guards, middleware.RateLimit(opts.Limiter))
	}
	if opts.Authenticator != nil {
		guards = append(guards, middleware.Auth(opts.Authenticator))
	}

	api := router.Group(opts.BasePath)
	for _, r := range routeTable {
		handlers := []gin.HandlerFunc{}
		if r.mutating {
			handlers = append(handlers, guards...)
		}
		handlers = append(handlers, r.handle(handler))
		api.Handle(r.method, r.path, handlers...)
	}
}
